package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"cattus/internal/domain/session"
)

// Sealer encrypts the token before it reaches the database.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// SessionStore keeps the single terminal session token, sealed. Expired
// rows and rows that no longer open are purged on read.
type SessionStore struct {
	s      *Storage
	sealer Sealer
	now    func() time.Time
}

func NewSessionStore(s *Storage, sealer Sealer) *SessionStore {
	return &SessionStore{s: s, sealer: sealer, now: time.Now}
}

func (r *SessionStore) SetToken(ctx context.Context, token string, rememberMe bool) error {
	sealed, err := r.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	expiresAt := r.now().Add(session.TTL(rememberMe)).UTC()
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, expires_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at, created_at = CURRENT_TIMESTAMP`,
		sealed, expiresAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionStore) Token(ctx context.Context) (string, error) {
	var (
		sealed    string
		expiresAt time.Time
	)
	err := r.s.db.QueryRowContext(ctx, `SELECT token, expires_at FROM sessions WHERE id = 1`).Scan(&sealed, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	if !r.now().Before(expiresAt) {
		r.s.log.Debug("session expired", slog.Time("expires_at", expiresAt))
		if err := r.Clear(ctx); err != nil {
			return "", err
		}
		return "", session.ErrNoToken
	}

	token, err := r.sealer.Open(sealed)
	if err != nil {
		// key file replaced or row tampered with
		r.s.log.Warn("drop unreadable session", slog.String("error", err.Error()))
		if err := r.Clear(ctx); err != nil {
			return "", err
		}
		return "", session.ErrNoToken
	}
	return token, nil
}

func (r *SessionStore) Clear(ctx context.Context) error {
	if _, err := r.s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
