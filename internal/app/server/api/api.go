//GET /api/v1/health              # Состояние фронтенда и API приюта (публичный)
//GET /api/v1/session             # Claims текущей сессии (auth)
//GET /api/v1/cats/{id}/progress  # Прогресс заполнения карточки (auth)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	accountAPI "cattus/internal/app/server/api/http/account"
	healthAPI "cattus/internal/app/server/api/http/health"
	"cattus/internal/app/server/api/http/middleware"
	"cattus/internal/app/server/api/http/middleware/auth"
	"cattus/internal/app/server/api/http/middleware/logger"
	progressAPI "cattus/internal/app/server/api/http/progress"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Account  *accountAPI.Handler
	Progress *progressAPI.Handler
}

// New регистрирует ВСЕ операции через huma.Register на переданном роутере
func New(router chi.Router, upstream *client.API, log *slog.Logger) huma.API {
	config := huma.DefaultConfig("Cattus API", "1.0.0")
	config.OpenAPIPath = "/api/openapi"
	config.DocsPath = "/api/docs"
	config.SchemasPath = "/api/schemas"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(router, config)

	h := handlers(upstream, log)
	h.Health.SetupRoutes(API)
	h.Account.SetupRoutes(API)
	h.Progress.SetupRoutes(API)

	return API
}

func handlers(upstream *client.API, log *slog.Logger) *Handlers {
	authMW := auth.New(log)
	middlewares := middleware.NewContainer(logger.New(log).Middleware())

	healthHandler := healthAPI.NewHandler(upstream, log, middlewares.Build())
	accountHandler := accountAPI.NewHandler(log, middlewares.Add(authMW.Middleware()).Build())
	progressHandler := progressAPI.NewHandler(func(token string) progressAPI.Getter {
		return upstream.With(token, nil).Cats()
	}, log, middlewares.Add(authMW.Middleware()).Build())

	return &Handlers{
		Health:   healthHandler,
		Account:  accountHandler,
		Progress: progressHandler,
	}
}
