package web

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"cattus/internal/domain/cat"
)

type homeData struct {
	TokenPreview string
	Total        int
	Sick         int
	Favorites    []cat.Cat
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	cats := st.api.Cats()

	var data homeData
	data.TokenPreview = truncate(st.session.Token, tokenPreviewLen)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Total, err = cats.TotalCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Sick, err = cats.SickCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Favorites, err = cats.Favorites(ctx, h.pageOf(r))
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err, "Erro ao carregar o painel")
		return
	}

	h.page(w, r, "home.html", "Bem-vindo ao Cattus", data)
}
