package account

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"cattus/internal/app/server/api/http/middleware/auth"
	"cattus/internal/domain/session"
)

func TestHandler_session(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"companyId":    "c-1",
		"sub":          "u-7",
		"access_level": "admin",
		"picture":      "https://img/ana.png",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	handler := NewHandler(slog.Default(), huma.Middlewares{})
	ctx := auth.WithSession(context.Background(), session.New(slog.Default(), token))

	out, err := handler.session(ctx, nil)

	require.NoError(t, err)
	assert.True(t, out.Body.Authenticated)
	assert.Equal(t, "c-1", out.Body.CompanyID)
	assert.Equal(t, "u-7", out.Body.UserID)
	assert.Equal(t, "admin", out.Body.AccessLevel)
	assert.Equal(t, session.DefaultDisplayName, out.Body.DisplayName)
	assert.Equal(t, "https://img/ana.png", out.Body.PictureURL)
}

func TestHandler_session_Unauthorized(t *testing.T) {
	handler := NewHandler(slog.Default(), huma.Middlewares{})

	out, err := handler.session(context.Background(), nil)

	assert.Nil(t, out)
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 401, se.GetStatus())
}
