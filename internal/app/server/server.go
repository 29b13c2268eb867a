// Package server assembles the web frontend: the page routes, the JSON API
// and the middleware they share.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	"cattus/internal/app/server/api"
	"cattus/internal/app/server/web"
	"cattus/internal/config"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	handler http.Handler
}

func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	log = log.With(slog.String("component", "server"))
	upstream := client.NewAPI(cfg, log, nil)

	pages, err := web.NewHandler(upstream, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init pages: %w", err)
	}

	key, err := csrfKey(cfg, log)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)

	// JSON API: bearer authenticated, no forms.
	router.Group(func(r chi.Router) {
		api.New(r, upstream, log)
	})

	router.Group(func(r chi.Router) {
		r.Use(web.RequestLogger(log))
		r.Use(plaintext(cfg))
		r.Use(csrf.Protect(key,
			csrf.Secure(cfg.CookieSecure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(csrfFailed(log)),
		))
		pages.Routes(r)
	})

	return &Server{cfg: cfg, log: log, handler: router}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.RequestTimeout + 5*time.Second,
		WriteTimeout:      2*s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Запуск HTTP сервера",
			slog.String("address", s.cfg.ListenAddress),
			slog.String("api_url", s.cfg.APIURL),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Остановка HTTP сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// csrfKey is the configured key, or a random one outside prod: forms then
// stop validating across restarts.
func csrfKey(cfg *config.Config, log *slog.Logger) ([]byte, error) {
	if cfg.CSRFKey != "" {
		return []byte(cfg.CSRFKey), nil
	}
	if cfg.IsProd() {
		return nil, errors.New("csrf key is required in prod")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	log.Warn("CSRF_KEY не задан, используется случайный ключ")
	return key, nil
}

// plaintext relaxes the csrf origin checks for plain HTTP deployments.
func plaintext(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !cfg.CookieSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reason := "unknown"
		if err := csrf.FailureReason(r); err != nil {
			reason = err.Error()
		}
		log.Warn("csrf rejected", slog.String("path", r.URL.Path), slog.String("reason", reason))
		http.Error(w, "Formulário expirado, recarregue a página", http.StatusForbidden)
	})
}
