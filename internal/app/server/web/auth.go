package web

import (
	"net/http"
	"strings"

	"golang.org/x/exp/slog"

	"cattus/internal/domain/guard"
	"cattus/internal/domain/user"
)

type loginForm struct {
	Email    string
	Remember bool
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if stateFrom(r.Context()).session.Authenticated() {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	h.page(w, r, "login.html", "Entrar", loginForm{})
}

// login handles both forms of the login page: sign in, and the forgot
// password request (action=forgot).
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("action") == "forgot" {
		h.forgotPassword(w, r)
		return
	}

	creds := user.Credentials{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	form := loginForm{Email: creds.Email, Remember: r.PostForm.Get("remember") != ""}

	if err := h.validator.ValidateLogin(creds); err != nil {
		st.toasts.Error(err.Error())
		h.render(w, r, http.StatusUnprocessableEntity, "login.html", "Entrar", form)
		return
	}

	token, err := st.api.Login(r.Context(), creds)
	if err != nil {
		h.render(w, r, http.StatusUnauthorized, "login.html", "Entrar", form)
		return
	}

	if _, err := st.sessions.Begin(r.Context(), token, form.Remember); err != nil {
		h.log.Error("begin session", slog.String("error", err.Error()))
		st.toasts.Error(user.MsgLoginFailed)
		h.render(w, r, http.StatusInternalServerError, "login.html", "Entrar", form)
		return
	}

	h.log.Info("user logged in", slog.String("email", creds.Email))
	h.redirect(w, r, guard.LoadingPath)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	email := strings.TrimSpace(r.PostForm.Get("email"))
	form := loginForm{Email: email}

	if err := h.validator.ValidateEmail(email); err != nil {
		st.toasts.Error(err.Error())
		h.render(w, r, http.StatusUnprocessableEntity, "login.html", "Entrar", form)
		return
	}

	// The outcome is toasted by the API client either way.
	_ = st.api.ForgotPassword(r.Context(), email)
	h.page(w, r, "login.html", "Entrar", form)
}

// loading is where a fresh login lands before the dashboard.
func (h *Handler) loading(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, HomePath)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if st.session.Authenticated() {
		if err := st.api.Logout(r.Context()); err != nil {
			h.log.Warn("api logout", slog.String("error", err.Error()))
		}
	}
	if err := st.sessions.End(r.Context()); err != nil {
		h.log.Warn("clear session", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}
