// Package account exposes the decoded session to browser scripts.
package account

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"cattus/internal/app/server/api/http/middleware/auth"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sessionOp(), h.session)
}

// session reports claims as decoded from the token. They are not verified
// and serve display purposes only.
func (h *Handler) session(ctx context.Context, _ *struct{}) (*sessionOutput, error) {
	s, ok := auth.GetSession(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	return &sessionOutput{
		Body: sessionResponse{
			Authenticated: true,
			CompanyID:     s.Claims.CompanyID,
			UserID:        s.Claims.UserID,
			AccessLevel:   s.Claims.AccessLevel,
			DisplayName:   s.Claims.Name(),
			PictureURL:    s.Claims.PictureURL,
		},
	}, nil
}
