package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const (
	StatusOK          = "OK"
	StatusUnavailable = "UNAVAILABLE"
)

// Pinger checks the upstream shelter API.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	upstream   Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(upstream Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		upstream:   upstream,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

// healthCheck stays 200 while the upstream is down; the body tells them apart.
func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	out := &Output{
		Body: Response{
			Status:   StatusOK,
			Upstream: StatusOK,
		},
	}
	if h.upstream == nil {
		return out, nil
	}

	if err := h.upstream.HealthCheck(ctx); err != nil {
		h.log.Warn("upstream unavailable", slog.String("error", err.Error()))
		out.Body.Upstream = StatusUnavailable
		out.Body.Error = err.Error()
	}
	return out, nil
}
