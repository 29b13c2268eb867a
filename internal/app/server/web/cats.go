package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"cattus/internal/domain/cat"
	"cattus/internal/domain/editor"
	"cattus/internal/domain/shelter"
)

type catListData struct {
	Query     string
	Favorites bool
	Cats      []cat.Cat
	Offset    int
	Limit     int
	HasMore   bool
}

func (h *Handler) catList(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	cats := st.api.Cats()
	page := h.pageOf(r)

	data := catListData{
		Query:     strings.TrimSpace(r.URL.Query().Get("q")),
		Favorites: r.URL.Query().Get("favorites") != "",
		Offset:    page.Offset,
		Limit:     page.Limit,
	}

	var err error
	switch {
	case data.Query != "":
		data.Cats, err = cats.Search(r.Context(), data.Query)
	case data.Favorites:
		data.Cats, err = cats.Favorites(r.Context(), page)
	default:
		data.Cats, err = cats.List(r.Context(), page)
		data.HasMore = page.Limit > 0 && len(data.Cats) == page.Limit
	}
	if err != nil {
		h.fail(w, r, err, "Erro ao carregar gatos")
		return
	}

	h.page(w, r, "cats.html", "Gatos", data)
}

type catDetailData struct {
	Cat        cat.Cat
	Progress   int
	Activities []shelter.Activity
}

func (h *Handler) catDetail(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	id := chi.URLParam(r, "id")

	var data catDetailData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Cat, err = st.api.Cats().Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		data.Activities, err = st.api.Activities().ByCat(ctx, id, h.pageOf(r))
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err, editor.MsgLoadFailed)
		return
	}
	data.Progress = cat.Progress(data.Cat)

	h.page(w, r, "cat.html", data.Cat.Name, data)
}

func (h *Handler) catDelete(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	id := chi.URLParam(r, "id")

	if err := st.api.Cats().Delete(r.Context(), id); err != nil {
		h.mutationFailed(w, r, err, "/cats/"+id)
		return
	}
	h.redirect(w, r, editor.ListRoute)
}

func (h *Handler) catFavorite(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	favorite := r.PostForm.Get("favorite") == "true"

	back := r.PostForm.Get("return")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/cats/" + id
	}

	if err := st.api.Cats().SetFavorite(r.Context(), id, favorite); err != nil {
		h.mutationFailed(w, r, err, back)
		return
	}
	h.redirect(w, r, back)
}
