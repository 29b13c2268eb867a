package web

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"cattus/internal/domain/cat"
	"cattus/internal/domain/shelter"
	"cattus/internal/domain/user"
)

const MsgCameraFieldsRequired = "Informe o nome e a URL da câmera"

type camerasData struct {
	Cameras []shelter.Camera
	Form    shelter.CameraInput
}

func (h *Handler) cameras(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	list, err := st.api.Cameras().List(r.Context(), h.pageOf(r))
	if err != nil {
		h.fail(w, r, err, "Erro ao carregar câmeras")
		return
	}
	h.page(w, r, "cameras.html", "Câmeras", camerasData{Cameras: list})
}

func (h *Handler) cameraCreate(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	in := shelter.CameraInput{
		Name:      strings.TrimSpace(r.PostForm.Get("name")),
		URL:       strings.TrimSpace(r.PostForm.Get("url")),
		Thumbnail: strings.TrimSpace(r.PostForm.Get("thumbnail")),
		Company:   st.session.Claims.CompanyID,
	}
	if in.Name == "" || in.URL == "" {
		st.toasts.Warning(MsgCameraFieldsRequired)
		list, err := st.api.Cameras().List(r.Context(), h.pageOf(r))
		if err != nil {
			h.fail(w, r, err, "Erro ao carregar câmeras")
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "cameras.html", "Câmeras", camerasData{Cameras: list, Form: in})
		return
	}

	if _, err := st.api.Cameras().Create(r.Context(), in); err != nil {
		h.mutationFailed(w, r, err, "/cameras")
		return
	}
	h.redirect(w, r, "/cameras")
}

func (h *Handler) cameraDelete(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if err := st.api.Cameras().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.mutationFailed(w, r, err, "/cameras")
		return
	}
	h.redirect(w, r, "/cameras")
}

type streamingData struct {
	Camera     shelter.Camera
	Activities []shelter.Activity
}

// streaming shows the camera placeholder and the company activities seen by
// that camera. There is no video decoding.
func (h *Handler) streaming(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	id := chi.URLParam(r, "id")

	var (
		data       streamingData
		activities []shelter.Activity
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Camera, err = st.api.Cameras().Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		activities, err = st.api.Activities().ByCompany(ctx, st.session.Claims.CompanyID, h.pageOf(r))
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err, "Erro ao carregar câmera")
		return
	}

	for _, a := range activities {
		if a.Camera.String() == id {
			data.Activities = append(data.Activities, a)
		}
	}
	h.page(w, r, "streaming.html", data.Camera.Name, data)
}

type statsData struct {
	Total, Sick, Healthy int
	SickPercent          int
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	cats := st.api.Cats()

	var data statsData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Total, err = cats.TotalCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Sick, err = cats.SickCount(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err, "Erro ao carregar estatísticas")
		return
	}

	data.Healthy = max(data.Total-data.Sick, 0)
	if data.Total > 0 {
		data.SickPercent = (data.Sick*100 + data.Total/2) / data.Total
	}
	h.page(w, r, "stats.html", "Estatísticas", data)
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	list, err := st.api.Cats().List(r.Context(), h.pageOf(r))
	if err != nil {
		h.fail(w, r, err, "Erro ao carregar gatos")
		return
	}
	h.page(w, r, "reports.html", "Relatórios", struct{ Cats []cat.Cat }{list})
}

// reportDownload proxies the PDF of one cat as an attachment.
func (h *Handler) reportDownload(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	rep, err := st.api.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.mutationFailed(w, r, err, "/reports")
		return
	}
	defer rep.Close()

	w.Header().Set("Content-Type", rep.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rep.Filename}))
	if rep.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(rep.Size, 10))
	}
	if _, err := io.Copy(w, rep.Body); err != nil {
		h.log.Warn("stream report", slog.String("file", rep.Filename), slog.String("error", err.Error()))
	}
}

type membershipData struct {
	Company   shelter.Company
	Employees []user.Employee
}

func (h *Handler) membership(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	var data membershipData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Employees, err = st.api.Employees().List(ctx, h.pageOf(r))
		return err
	})
	if company := st.session.Claims.CompanyID; company != "" {
		g.Go(func() (err error) {
			data.Company, err = st.api.Company(ctx, company)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(w, r, err, "Erro ao carregar equipe")
		return
	}
	h.page(w, r, "membership.html", "Equipe", data)
}

type notificationsData struct {
	Notifications []shelter.Notification
	UnreadOnly    bool
	Unread        int
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	list, err := st.api.Notifications().List(r.Context(), st.session.Claims.CompanyID)
	if err != nil {
		h.fail(w, r, err, "Erro ao carregar notificações")
		return
	}

	unread := shelter.Unread(list)
	data := notificationsData{
		Notifications: list,
		UnreadOnly:    r.URL.Query().Get("unread") != "",
		Unread:        len(unread),
	}
	if data.UnreadOnly {
		data.Notifications = unread
	}
	h.page(w, r, "notifications.html", "Notificações", data)
}

func (h *Handler) notificationDelete(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if err := st.api.Notifications().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.mutationFailed(w, r, err, "/notifications")
		return
	}
	h.redirect(w, r, "/notifications")
}

func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// The outcome is toasted either way.
	_ = st.api.SubmitFeedback(r.Context(), shelter.Feedback{
		Text:    r.PostForm.Get("text"),
		Author:  st.session.Claims.Name(),
		Company: st.session.Claims.CompanyID,
	})
	h.redirect(w, r, localReferer(r, HomePath))
}

// localReferer returns the path of a same-site Referer, or fallback.
func localReferer(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
