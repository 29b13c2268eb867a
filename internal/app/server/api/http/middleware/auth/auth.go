package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"cattus/internal/domain/session"
)

type Auth struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Auth {
	return &Auth{
		log: log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const SessionKey contextKey = "session"

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context)).
// Токен берется из заголовка Authorization или из cookie сессии; подпись не
// проверяется, это делает API.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token := Token(ctx.Header("Authorization"), ctx.Header("Cookie"))
		if token == "" {
			a.log.Debug("request without token", slog.String("path", ctx.URL().Path))
			ctx.SetStatus(http.StatusUnauthorized)
			ctx.SetHeader("Content-Type", "application/json")

			if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
				"error": "Unauthorized",
			}); err != nil {
				a.log.Error("json encode", slog.String("error", err.Error()))
			}
			return
		}

		s := session.New(a.log, token)
		newCtx := context.WithValue(ctx.Context(), SessionKey, s)
		next(huma.WithContext(ctx, newCtx))
	}
}

// Token picks the bearer token, falling back to the session cookie.
func Token(authorization, cookieHeader string) string {
	if t, ok := strings.CutPrefix(authorization, "Bearer "); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if cookieHeader == "" {
		return ""
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

func GetSession(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(SessionKey).(session.Session)
	return s, ok && s.Authenticated()
}

// WithSession is used by handlers outside the huma pipeline and by tests.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}
