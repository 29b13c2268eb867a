package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/exp/slog"

	"cattus/internal/domain/user"
)

const (
	MsgForgotPasswordSent   = "Se o email estiver cadastrado, você receberá as instruções"
	MsgForgotPasswordFailed = "Erro ao solicitar recuperação de senha"
)

var ErrNoTokenInResponse = errors.New("login response carries no token")

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. Failures are toasted with the
// server message or a generic one.
func (a *API) Login(ctx context.Context, creds user.Credentials) (string, error) {
	var out loginResponse
	err := a.sendJSON(ctx, http.MethodPost, "/users/login", creds, &out)
	if err == nil && out.Token == "" {
		err = ErrNoTokenInResponse
	}
	if err != nil {
		a.log.Warn("login failed", slog.String("email", creds.Email), slog.String("error", err.Error()))
		a.notifier.Error(UserMessage(err, user.MsgLoginFailed))
		return "", fmt.Errorf("login: %w", err)
	}
	return out.Token, nil
}

// Logout tells the API to drop the session. The caller clears the local
// token whatever the result.
func (a *API) Logout(ctx context.Context) error {
	if err := a.getJSON(ctx, "/users/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *API) ForgotPassword(ctx context.Context, email string) error {
	err := a.sendJSON(ctx, http.MethodPost, "/users/forgot-password", map[string]string{"email": email}, nil)
	return a.mutation(err, MsgForgotPasswordSent, MsgForgotPasswordFailed)
}
