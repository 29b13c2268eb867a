package client

import (
	"context"
	"errors"

	"golang.org/x/exp/slog"

	"cattus/internal/domain/shelter"
)

const (
	MsgFeedbackSent  = "Feedback enviado com sucesso!"
	MsgFeedbackEmpty = "Escreva seu feedback antes de enviar"
)

var ErrEmptyFeedback = errors.New("feedback text is empty")

// SubmitFeedback records feedback. The API has no feedback endpoint yet, so
// it is logged and acknowledged locally.
// TODO: POST /feedback once the API exposes it.
func (a *API) SubmitFeedback(ctx context.Context, f shelter.Feedback) error {
	if !f.Valid() {
		a.notifier.Warning(MsgFeedbackEmpty)
		return ErrEmptyFeedback
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.log.Info("feedback received",
		slog.String("author", f.Author),
		slog.String("company", f.Company),
		slog.Int("length", len(f.Text)),
	)
	a.notifier.Success(MsgFeedbackSent)
	return nil
}
