// Package progress reports how complete a cat record is.
package progress

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	"cattus/internal/app/server/api/http/middleware/auth"
	"cattus/internal/domain/cat"
)

type Getter interface {
	Get(ctx context.Context, id string) (cat.Cat, error)
}

// Source returns a Getter acting with token.
type Source func(token string) Getter

type Handler struct {
	source     Source
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(source Source, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		source:     source,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getOp(), h.get)
}

func (h *Handler) get(ctx context.Context, in *input) (*output, error) {
	s, ok := auth.GetSession(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	c, err := h.source(s.Token).Get(ctx, in.ID)
	if err != nil {
		h.log.Warn("load cat", slog.String("id", in.ID), slog.String("error", err.Error()))
		switch {
		case client.IsUnauthorized(err):
			return nil, huma.Error401Unauthorized("Unauthorized")
		case client.IsNotFound(err):
			return nil, huma.Error404NotFound("cat not found")
		default:
			return nil, huma.Error502BadGateway("shelter API error", err)
		}
	}

	completion := make(map[string]bool, len(cat.Segments))
	for seg, done := range cat.LoadedCompletion(c) {
		completion[string(seg)] = done
	}

	return &output{
		Body: response{
			ID:         in.ID,
			Name:       c.Name,
			Progress:   cat.Progress(c),
			Completion: completion,
		},
	}, nil
}
