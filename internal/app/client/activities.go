package client

import (
	"context"
	"fmt"
	"net/http"

	"cattus/internal/domain/shelter"
)

const (
	MsgActivityCreated = "Atividade registrada com sucesso!"
	MsgActivityFailed  = "Erro ao registrar atividade"
)

type Activities struct {
	api *API
}

func (a *API) Activities() *Activities {
	return &Activities{api: a}
}

func (c *Activities) ByCat(ctx context.Context, catID string, page Page) ([]shelter.Activity, error) {
	return c.list(ctx, "/activities/"+escape(catID)+"/cat", page)
}

func (c *Activities) ByCompany(ctx context.Context, companyID string, page Page) ([]shelter.Activity, error) {
	return c.list(ctx, "/activities/"+escape(companyID)+"/company", page)
}

func (c *Activities) list(ctx context.Context, path string, page Page) ([]shelter.Activity, error) {
	var out []shelter.Activity
	if err := c.api.getJSON(ctx, path, page.query(), &out); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return out, nil
}

func (c *Activities) Create(ctx context.Context, in shelter.ActivityInput) error {
	err := c.api.sendJSON(ctx, http.MethodPost, "/activities", in, nil)
	return c.api.mutation(err, MsgActivityCreated, MsgActivityFailed)
}
