package web

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	"cattus/internal/app/client/notify"
	"cattus/internal/domain/guard"
	"cattus/internal/domain/session"
)

// state is everything a page needs about the current request. It is built
// once per request and never shared.
type state struct {
	session  session.Session
	sessions *session.Service
	toasts   *notify.Recorder
	api      *client.API
}

type stateKey struct{}

func stateFrom(ctx context.Context) *state {
	st, _ := ctx.Value(stateKey{}).(*state)
	return st
}

// withState resolves the session from the cookie and binds an API client to
// its token and to a per-request toast recorder.
func (h *Handler) withState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := newCookieStore(w, r, h.cfg.CookieSecure)
		sessions := session.NewService(store, h.log)
		current := sessions.Current(r.Context())
		toasts := notify.NewRecorder()

		st := &state{
			session:  current,
			sessions: sessions,
			toasts:   toasts,
			api:      h.api.With(current.Token, toasts),
		}

		ctx := context.WithValue(r.Context(), stateKey{}, st)
		ctx = client.WithRequestID(ctx, chimw.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// guardRoutes sends requests without a token to the login page.
func (h *Handler) guardRoutes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := stateFrom(r.Context())
		d := guard.Check(r.URL.Path, st.session.Authenticated())
		if !d.Allowed() {
			h.log.Debug("guard redirect",
				slog.String("path", r.URL.Path),
				slog.String("state", d.State.String()),
			)
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger is the chi counterpart of the huma logger middleware.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With(slog.String("component", "http_logger"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
