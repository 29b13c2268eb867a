package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"cattus/internal/app/client/notify"
	"cattus/internal/domain/session"
)

const flashCookie = "flash"

// cookieStore is the session.Store of one browser request.
type cookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	now    func() time.Time

	written bool
	token   string
}

func newCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *cookieStore {
	return &cookieStore{w: w, r: r, secure: secure, now: time.Now}
}

func (c *cookieStore) SetToken(_ context.Context, token string, rememberMe bool) error {
	ttl := session.TTL(rememberMe)
	http.SetCookie(c.w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  c.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.written, c.token = true, token
	return nil
}

func (c *cookieStore) Token(_ context.Context) (string, error) {
	if c.written {
		if c.token == "" {
			return "", session.ErrNoToken
		}
		return c.token, nil
	}
	ck, err := c.r.Cookie(session.CookieName)
	if err != nil || ck.Value == "" {
		return "", session.ErrNoToken
	}
	return ck.Value, nil
}

func (c *cookieStore) Clear(_ context.Context) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.written, c.token = true, ""
	return nil
}

// setFlash carries toasts over a redirect.
func setFlash(w http.ResponseWriter, toasts []notify.Toast, secure bool) {
	if len(toasts) == 0 {
		return
	}
	b, err := json.Marshal(toasts)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and expires the flash cookie.
func takeFlash(w http.ResponseWriter, r *http.Request) []notify.Toast {
	ck, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	b, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var toasts []notify.Toast
	if err := json.Unmarshal(b, &toasts); err != nil {
		return nil
	}
	return toasts
}
