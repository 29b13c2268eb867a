package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cattus/internal/domain/cat"
	"cattus/internal/domain/ref"
)

// Mensagens exibidas ao usuário.
const (
	MsgCatCreated      = "Gato cadastrado com sucesso!"
	MsgCatUpdated      = "Dados do gato atualizados com sucesso!"
	MsgCatDeleted      = "Gato removido com sucesso!"
	MsgCatSaveFailed   = "Erro ao salvar dados do gato"
	MsgCatDeleteFailed = "Erro ao remover gato"
	MsgFavoriteAdded   = "Gato marcado como favorito!"
	MsgFavoriteRemoved = "Gato removido dos favoritos!"
	MsgFavoriteFailed  = "Erro ao atualizar favorito"
)

// Cats is the /cats resource. It satisfies editor.Gateway.
type Cats struct {
	api *API
}

func (a *API) Cats() *Cats {
	return &Cats{api: a}
}

func (c *Cats) List(ctx context.Context, page Page) ([]cat.Cat, error) {
	var out []cat.Cat
	if err := c.api.getJSON(ctx, "/cats", page.query(), &out); err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	return out, nil
}

func (c *Cats) Get(ctx context.Context, id string) (cat.Cat, error) {
	var out cat.Cat
	if err := c.api.getJSON(ctx, "/cats/"+escape(id), nil, &out); err != nil {
		return cat.Cat{}, fmt.Errorf("get cat %s: %w", id, err)
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

type createdResponse struct {
	ID ref.ID `json:"id"`
}

// Create always goes out as multipart so that a photo or vaccine card can
// travel with the basic fields.
func (c *Cats) Create(ctx context.Context, form cat.CreateForm, files ...cat.Attachment) (string, error) {
	var out createdResponse
	err := c.api.sendMultipart(ctx, http.MethodPost, "/cats", form.Fields(), files, &out)
	if err == nil && out.ID == "" {
		err = errors.New("create cat: response carries no id")
	}
	if err := c.api.mutation(err, MsgCatCreated, MsgCatSaveFailed); err != nil {
		return "", err
	}
	return out.ID.String(), nil
}

// Update sends patch as JSON, or as multipart when files are attached.
func (c *Cats) Update(ctx context.Context, id string, patch map[string]any, files ...cat.Attachment) error {
	path := "/cats/" + escape(id)

	var err error
	if len(files) == 0 {
		err = c.api.sendJSON(ctx, http.MethodPatch, path, patch, nil)
	} else {
		var fields map[string]string
		fields, err = flatten(patch)
		if err == nil {
			// the uploaded file replaces any text value under its field name
			for _, f := range files {
				delete(fields, f.Field)
			}
			err = c.api.sendMultipart(ctx, http.MethodPatch, path, fields, files, nil)
		}
	}
	return c.api.mutation(err, MsgCatUpdated, MsgCatSaveFailed)
}

func (c *Cats) Delete(ctx context.Context, id string) error {
	err := c.api.sendJSON(ctx, http.MethodDelete, "/cats/"+escape(id), nil, nil)
	return c.api.mutation(err, MsgCatDeleted, MsgCatDeleteFailed)
}

// Search runs a free-text query over fields; no fields means name.
func (c *Cats) Search(ctx context.Context, query string, fields ...string) ([]cat.Cat, error) {
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	body := map[string]any{"query": query, "fields": fields}

	var out []cat.Cat
	if err := c.api.sendJSON(ctx, http.MethodPost, "/cats/search", body, &out); err != nil {
		return nil, fmt.Errorf("search cats: %w", err)
	}
	return out, nil
}

// Favorites is the list filtered to favorite cats.
func (c *Cats) Favorites(ctx context.Context, page Page) ([]cat.Cat, error) {
	all, err := c.List(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]cat.Cat, 0, len(all))
	for _, x := range all {
		if x.Favorite {
			out = append(out, x)
		}
	}
	return out, nil
}

func (c *Cats) SetFavorite(ctx context.Context, id string, favorite bool) error {
	err := c.api.sendJSON(ctx, http.MethodPatch, "/cats/"+escape(id), map[string]any{"favorite": favorite}, nil)
	msg := MsgFavoriteRemoved
	if favorite {
		msg = MsgFavoriteAdded
	}
	return c.api.mutation(err, msg, MsgFavoriteFailed)
}

func (c *Cats) SickCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/cats/charts/sick")
}

func (c *Cats) TotalCount(ctx context.Context) (int, error) {
	return c.count(ctx, "/cats/charts/total")
}

func (c *Cats) count(ctx context.Context, path string) (int, error) {
	var raw json.RawMessage
	if err := c.api.getJSON(ctx, path, nil, &raw); err != nil {
		return 0, fmt.Errorf("get %s: %w", path, err)
	}
	n, err := decodeCount(raw)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", path, err)
	}
	return n, nil
}

// decodeCount accepts a bare number, {"count"|"total": n} or a list.
func decodeCount(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"count", "total", "value"} {
			if v, ok := obj[key]; ok {
				return decodeCount(v)
			}
		}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list), nil
	}
	return 0, fmt.Errorf("unexpected count payload %s", truncate(string(raw), 64))
}

// flatten turns a JSON patch into multipart fields; nested values are sent
// as JSON text.
func flatten(patch map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(patch))
	for k, v := range patch {
		switch v := v.(type) {
		case string:
			out[k] = v
		case bool:
			out[k] = strconv.FormatBool(v)
		case fmt.Stringer:
			out[k] = v.String()
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode field %s: %w", k, err)
			}
			out[k] = string(b)
		}
	}
	return out, nil
}
