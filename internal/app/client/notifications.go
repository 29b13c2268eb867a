package client

import (
	"context"
	"fmt"
	"net/http"

	"cattus/internal/domain/shelter"
)

const (
	MsgNotificationDeleted = "Notificação removida com sucesso!"
	MsgNotificationFailed  = "Erro ao remover notificação"
)

type Notifications struct {
	api *API
}

func (a *API) Notifications() *Notifications {
	return &Notifications{api: a}
}

// List returns the notifications addressed to targetID, newest first as
// the API orders them.
func (c *Notifications) List(ctx context.Context, targetID string) ([]shelter.Notification, error) {
	var out []shelter.Notification
	if err := c.api.getJSON(ctx, "/notifications/"+escape(targetID), nil, &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (c *Notifications) Delete(ctx context.Context, id string) error {
	err := c.api.sendJSON(ctx, http.MethodDelete, "/notifications/"+escape(id), nil, nil)
	return c.api.mutation(err, MsgNotificationDeleted, MsgNotificationFailed)
}
