// Package web serves the shelter pages. Every page talks to the shelter API
// with the token found in the session cookie of its request.
package web

import (
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	"cattus/internal/config"
	"cattus/internal/domain/guard"
	"cattus/internal/domain/user"
)

const HomePath = "/home"

type Handler struct {
	api       *client.API
	cfg       *config.Config
	log       *slog.Logger
	pages     *renderer
	validator user.Validator
}

func NewHandler(api *client.API, cfg *config.Config, log *slog.Logger) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{
		api:       api,
		cfg:       cfg,
		log:       log.With(slog.String("component", "web")),
		pages:     pages,
		validator: user.NewCredentialsValidator(),
	}, nil
}

// Routes mounts the static assets and every page on r.
func (h *Handler) Routes(r chi.Router) {
	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(h.withState)
		r.Use(h.guardRoutes)

		r.Get("/", h.root)
		r.Get(guard.LoginPath, h.loginPage)
		r.Post(guard.LoginPath, h.login)
		r.Get(guard.LoadingPath, h.loading)
		r.Get("/logout", h.logout)
		r.Post("/logout", h.logout)
		r.Get(HomePath, h.home)

		r.Get("/cats", h.catList)
		r.Get("/cats/add", h.wizardNew)
		r.Post("/cats/add", h.wizardSave)
		r.Get("/cats/edit/{id}", h.wizardEdit)
		r.Post("/cats/edit/{id}", h.wizardSave)
		r.Get("/cats/{id}", h.catDetail)
		r.Post("/cats/{id}/delete", h.catDelete)
		r.Post("/cats/{id}/favorite", h.catFavorite)

		r.Get("/cameras", h.cameras)
		r.Post("/cameras", h.cameraCreate)
		r.Post("/cameras/{id}/delete", h.cameraDelete)
		r.Get("/streaming/{id}", h.streaming)

		r.Get("/stats", h.stats)
		r.Get("/reports", h.reports)
		r.Get("/reports/{id}/download", h.reportDownload)
		r.Get("/membership", h.membership)
		r.Get("/notifications", h.notifications)
		r.Post("/notifications/{id}/delete", h.notificationDelete)
		r.Post("/feedback", h.feedback)
	})
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// fail handles an API error of a page load. A rejected token ends the
// session; anything else renders the error page with the pending toasts.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	st := stateFrom(r.Context())
	if client.IsUnauthorized(err) {
		h.log.Info("token rejected, ending session", slog.String("path", r.URL.Path))
		if endErr := st.sessions.End(r.Context()); endErr != nil {
			h.log.Warn("clear session", slog.String("error", endErr.Error()))
		}
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return
	}

	h.log.Warn("page load failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	status := http.StatusBadGateway
	if client.IsNotFound(err) {
		status = http.StatusNotFound
	}
	if len(st.toasts.Toasts()) == 0 {
		st.toasts.Error(client.UserMessage(err, fallback))
	}
	h.render(w, r, status, "error.html", "Erro", map[string]any{"Status": status})
}

// page window from ?offset=, bounded by the configured page size.
func (h *Handler) pageOf(r *http.Request) client.Page {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return client.Page{Offset: offset, Limit: h.cfg.PageSize}
}

// mutationFailed finishes a failed form post. The API client has already
// toasted the error; a rejected token still ends the session.
func (h *Handler) mutationFailed(w http.ResponseWriter, r *http.Request, err error, back string) {
	if client.IsUnauthorized(err) {
		h.fail(w, r, err, "")
		return
	}
	h.redirect(w, r, back)
}
