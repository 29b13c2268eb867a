package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Begin(ctx context.Context, token string, rememberMe bool) (Session, error)
	Current(ctx context.Context) Session
	End(ctx context.Context) error
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With(slog.String("component", "session")),
	}
}

// Begin сохраняет токен после входа и возвращает сессию с разобранными claims.
func (s *Service) Begin(ctx context.Context, token string, rememberMe bool) (Session, error) {
	if token == "" {
		return Session{}, ErrNoToken
	}
	if err := s.store.SetToken(ctx, token, rememberMe); err != nil {
		return Session{}, fmt.Errorf("save token: %w", err)
	}
	return New(s.log, token), nil
}

// Current never fails: a missing or unreadable token is an anonymous session.
func (s *Service) Current(ctx context.Context) Session {
	token, err := s.store.Token(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.log.Warn("read token", slog.String("error", err.Error()))
		}
		return Session{}
	}
	return New(s.log, token)
}

func (s *Service) End(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
