package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"cattus/internal/app/client/notify"
	"cattus/internal/app/client/ws"
	"cattus/internal/config"
	"cattus/internal/domain/editor"
	"cattus/internal/domain/session"
	"cattus/internal/domain/shelter"
	"cattus/internal/domain/user"
	"cattus/internal/infrastructure/crypto"
	"cattus/internal/infrastructure/migration"
	"cattus/internal/infrastructure/storage/sqlite"
)

var ErrNotLoggedIn = errors.New("not logged in")

// App wires the terminal client: the persisted session, the API client and
// the notification channel.
type App struct {
	config    *config.Config
	log       *slog.Logger
	notifier  notify.Notifier
	validator user.Validator
	storage   *sqlite.Storage
	session   session.Servicer
	api       *API
	channel   *ws.Channel

	mu      sync.Mutex
	current session.Session
}

func New(cfg *config.Config, log *slog.Logger, notifier notify.Notifier) *App {
	var store session.Store
	storage, sealer, err := openState(cfg, log)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, сессия хранится в памяти", slog.String("error", err.Error()))
		store = session.NewMemoryStore()
	} else {
		store = sqlite.NewSessionStore(storage, sealer)
	}

	app := NewWithStore(cfg, log, notifier, store)
	app.storage = storage
	return app
}

// openState opens the local database and the token sealer, keyed by
// TOKEN_KEY or, when unset, by the key file next to the database.
func openState(cfg *config.Config, log *slog.Logger) (*sqlite.Storage, *crypto.Sealer, error) {
	secret := []byte(cfg.TokenKey)
	if len(secret) == 0 {
		key, err := crypto.LoadOrCreateKey(cfg.KeyPath)
		if err != nil {
			return nil, nil, err
		}
		secret = key
	}
	sealer, err := crypto.NewSealer(secret)
	if err != nil {
		return nil, nil, err
	}

	storage, err := sqlite.Open(cfg.StatePath, log, migration.DefaultEngine)
	if err != nil {
		return nil, nil, err
	}
	return storage, sealer, nil
}

// NewWithStore builds an App over an already opened session store.
func NewWithStore(cfg *config.Config, log *slog.Logger, notifier notify.Notifier, store session.Store) *App {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	app := &App{
		config:    cfg,
		log:       log.With(slog.String("component", "client")),
		notifier:  notifier,
		validator: user.NewCredentialsValidator(),
		session:   session.NewService(store, log),
		api:       NewAPI(cfg, log, notifier),
		channel:   ws.New(cfg.WSURL, log),
	}
	app.current = app.session.Current(context.Background())
	app.api.SetToken(app.current.Token)
	return app
}

// Session is the current session; anonymous when nobody is logged in.
func (a *App) Session() session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *App) IsAuthenticated() bool {
	return a.Session().Authenticated()
}

// API is the client bound to the current token.
func (a *App) API() *API {
	return a.api
}

func (a *App) Notifier() notify.Notifier {
	return a.notifier
}

func (a *App) setSession(s session.Session) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
	a.api.SetToken(s.Token)
}

// Login validates creds, exchanges them for a token and persists it for one
// day, or seven with rememberMe.
func (a *App) Login(ctx context.Context, creds user.Credentials, rememberMe bool) (session.Session, error) {
	if err := a.validator.ValidateLogin(creds); err != nil {
		a.notifier.Error(err.Error())
		return session.Session{}, err
	}

	token, err := a.api.Login(ctx, creds)
	if err != nil {
		return session.Session{}, err
	}

	s, err := a.session.Begin(ctx, token, rememberMe)
	if err != nil {
		return session.Session{}, fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	a.setSession(s)

	a.log.Info("Вход выполнен успешно", slog.String("email", creds.Email), slog.String("company", s.Claims.CompanyID))
	return s, nil
}

// Logout notifies the API and forgets the token even if the API call fails.
func (a *App) Logout(ctx context.Context) error {
	if a.IsAuthenticated() {
		if err := a.api.Logout(ctx); err != nil {
			a.log.Warn("logout request failed", slog.String("error", err.Error()))
		}
	}
	_ = a.channel.Close()

	err := a.session.End(ctx)
	a.setSession(session.Session{})
	return err
}

func (a *App) ForgotPassword(ctx context.Context, email string) error {
	if err := a.validator.ValidateEmail(email); err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	return a.api.ForgotPassword(ctx, email)
}

// Expire drops the local session when err says the token is no longer
// accepted. It reports whether it did.
func (a *App) Expire(ctx context.Context, err error) bool {
	if !IsUnauthorized(err) {
		return false
	}
	a.log.Info("token rejected by API, clearing session")
	if endErr := a.session.End(ctx); endErr != nil {
		a.log.Warn("clear session", slog.String("error", endErr.Error()))
	}
	a.setSession(session.Session{})
	return true
}

// Editor opens the cat wizard: a new record when id is empty, otherwise the
// persisted record id.
func (a *App) Editor(ctx context.Context, id string) (*editor.Editor, error) {
	s := a.Session()
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	return editor.Open(ctx, a.api.Cats(), a.notifier, a.log, s.Claims.CompanyID, id)
}

// WatchNotifications streams pushed notifications to fn until ctx is done
// or the server drops the connection.
func (a *App) WatchNotifications(ctx context.Context, fn func(shelter.Notification)) error {
	s := a.Session()
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}

	remove := a.channel.AddListener(func(m ws.Message) {
		n, err := m.Notification()
		if err != nil {
			a.log.Debug("skip ws message", slog.String("error", err.Error()))
			return
		}
		fn(n)
	})
	defer remove()

	if err := a.channel.Connect(ctx, s.Token); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return a.channel.Close()
	case <-a.channel.Done():
		return nil
	}
}

func (a *App) Close() error {
	_ = a.channel.Close()
	if a.storage != nil {
		return a.storage.Close()
	}
	return nil
}
