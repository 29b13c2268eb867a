package logger

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
)

// Logger пишет одну строку на каждую операцию API. Уровень зависит от
// статуса ответа: 5xx error, 4xx warn, остальное info.
type Logger struct {
	log *slog.Logger
	now func() time.Time
}

func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "api_access")),
		now: time.Now,
	}
}

func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := l.now()

		op := ""
		if o := ctx.Operation(); o != nil {
			op = o.OperationID
		}
		attrs := []any{
			slog.String("operation", op),
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.URL().Path),
			slog.String("request_id", chimw.GetReqID(ctx.Context())),
		}

		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs = append(attrs,
			slog.Int("status", status),
			slog.Duration("duration", l.now().Sub(start)),
		)

		switch {
		case status >= http.StatusInternalServerError:
			l.log.Error("api request", attrs...)
		case status >= http.StatusBadRequest:
			l.log.Warn("api request", attrs...)
		default:
			l.log.Info("api request", attrs...)
		}
	}
}
