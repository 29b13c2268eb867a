package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client"
	"cattus/internal/domain/cat"
	"cattus/internal/domain/editor"
)

const (
	maxUploadSize = 10 << 20

	// nginx's code for a request the client abandoned before the response.
	statusClientClosedRequest = 499

	MsgInvalidOption      = "Valor inválido no formulário"
	MsgInvalidVaccineCard = "Formato de carteira de vacinação não suportado"
	MsgInvalidUpload      = "Arquivo inválido"
)

// options are the select catalogues of the wizard forms.
type options struct {
	Genders, Castration, Breeds, FurLengths, FurColors, Sizes, EyeColors, Comorbidities []string
}

var formOptions = options{
	Genders:       cat.Genders,
	Castration:    cat.Castration,
	Breeds:        cat.Breeds,
	FurLengths:    cat.FurLengths,
	FurColors:     cat.FurColors,
	Sizes:         cat.Sizes,
	EyeColors:     cat.EyeColors,
	Comorbidities: cat.Comorbidities,
}

type wizardData struct {
	ID         string
	Cat        cat.Cat
	Active     cat.Segment
	Segments   []cat.Segment
	Completion cat.Completion
	Progress   int
	Action     string
	Options    options
}

func newWizardData(e *editor.Editor) wizardData {
	id, _ := e.ID()
	action := "/cats/add"
	if id != "" {
		action = "/cats/edit/" + id
	}
	return wizardData{
		ID:         id,
		Cat:        e.Record(),
		Active:     e.Active(),
		Segments:   cat.Segments,
		Completion: e.Completion(),
		Progress:   e.Progress(),
		Action:     action,
		Options:    formOptions,
	}
}

func (h *Handler) wizardTitle(e *editor.Editor) string {
	if _, ok := e.ID(); ok {
		return "Editar gato"
	}
	return "Cadastrar gato"
}

// openEditor builds the editor of this request: CREATE without id, EDIT with.
func (h *Handler) openEditor(r *http.Request, id string) (*editor.Editor, error) {
	st := stateFrom(r.Context())
	company := st.session.Claims.CompanyID
	if id == "" {
		return editor.New(st.api.Cats(), st.toasts, h.log, company), nil
	}
	return editor.Open(r.Context(), st.api.Cats(), st.toasts, h.log, company, id)
}

// navigateQuery moves e to the segment named by ?segment, basic when absent
// or unknown. A draft stays on basic and warns.
func navigateQuery(e *editor.Editor, r *http.Request) {
	seg, err := cat.ParseSegment(r.URL.Query().Get("segment"))
	if err != nil {
		seg = cat.SegmentBasic
	}
	_ = e.Navigate(seg)
}

func (h *Handler) wizardNew(w http.ResponseWriter, r *http.Request) {
	e, _ := h.openEditor(r, "")
	defer e.Close()

	navigateQuery(e, r)
	h.page(w, r, "wizard.html", h.wizardTitle(e), newWizardData(e))
}

func (h *Handler) wizardEdit(w http.ResponseWriter, r *http.Request) {
	e, err := h.openEditor(r, chi.URLParam(r, "id"))
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	defer e.Close()

	navigateQuery(e, r)
	h.page(w, r, "wizard.html", h.wizardTitle(e), newWizardData(e))
}

// wizardSave applies the posted segment and saves it: a multipart create of
// the basic segment in CREATE mode, a partial update otherwise.
func (h *Handler) wizardSave(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Warn("parse wizard form", slog.String("error", err.Error()))
		st.toasts.Error(MsgInvalidUpload)
		h.redirect(w, r, r.URL.Path)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	e, err := h.openEditor(r, chi.URLParam(r, "id"))
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}
	defer e.Close()

	seg, err := cat.ParseSegment(r.FormValue("segment"))
	if err != nil {
		http.Error(w, "unknown segment", http.StatusBadRequest)
		return
	}
	if err := e.Navigate(seg); err != nil {
		h.render(w, r, http.StatusConflict, "wizard.html", h.wizardTitle(e), newWizardData(e))
		return
	}

	data, err := segmentForm(r, seg, e.Record())
	if err == nil {
		err = e.Change(data)
	}
	if err != nil {
		h.log.Debug("wizard form rejected", slog.String("segment", string(seg)), slog.String("error", err.Error()))
		st.toasts.Warning(MsgInvalidOption)
		h.render(w, r, http.StatusUnprocessableEntity, "wizard.html", h.wizardTitle(e), newWizardData(e))
		return
	}

	files, err := attachments(r, seg)
	if err != nil {
		st.toasts.Warning(err.Error())
		h.render(w, r, http.StatusUnprocessableEntity, "wizard.html", h.wizardTitle(e), newWizardData(e))
		return
	}

	out, err := e.Save(r.Context(), r.FormValue("action") == "continue", files...)
	if err != nil {
		if errors.Is(err, editor.ErrSaveBasicFirst) || errors.Is(err, editor.ErrNoCompany) {
			h.render(w, r, http.StatusUnprocessableEntity, "wizard.html", h.wizardTitle(e), newWizardData(e))
			return
		}
		if errors.Is(err, editor.ErrClosed) || r.Context().Err() != nil {
			h.log.Debug("wizard save abandoned", slog.String("segment", string(seg)), slog.String("error", err.Error()))
			w.WriteHeader(statusClientClosedRequest)
			return
		}
		h.saveFailed(w, r, e, err)
		return
	}

	h.redirect(w, r, out.Route())
}

func (h *Handler) saveFailed(w http.ResponseWriter, r *http.Request, e *editor.Editor, err error) {
	if client.IsUnauthorized(err) {
		h.fail(w, r, err, "")
		return
	}
	// The submitted fields stay in the form.
	h.log.Warn("wizard save failed", slog.String("error", err.Error()))
	h.render(w, r, http.StatusBadGateway, "wizard.html", h.wizardTitle(e), newWizardData(e))
}

func (h *Handler) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	var le *editor.LoadError
	if errors.As(err, &le) && !client.IsUnauthorized(err) {
		h.redirect(w, r, le.Return)
		return
	}
	h.fail(w, r, err, editor.MsgLoadFailed)
}

// segmentForm reads the fields of seg. Fields of other segments are ignored;
// current keeps what the form does not carry (the stored picture reference).
func segmentForm(r *http.Request, seg cat.Segment, current cat.Cat) (cat.SegmentData, error) {
	v := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	switch seg {
	case cat.SegmentPhysical:
		p := cat.Physical{
			FurColor:  v("furColor"),
			FurLength: v("furLength"),
			EyeColor:  v("eyeColor"),
			Size:      v("size"),
			Castrated: v("castrated"),
			Breed:     v("breed"),
		}
		if raw := strings.ReplaceAll(v("weight"), ",", "."); raw != "" {
			weight, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("weight: %w", err)
			}
			p.Weight = weight
		}
		return p, nil
	case cat.SegmentBehavioral:
		return cat.Behavioral{
			Personality:    v("personality"),
			ActivityLevel:  v("activityLevel"),
			SocialBehavior: v("socialBehavior"),
			Vocalization:   v("vocalization"),
		}, nil
	case cat.SegmentMedical:
		return cat.MedicalData{
			Vaccines:      nonEmpty(r.Form["vaccines"]),
			Comorbidities: nonEmpty(r.Form["comorbidities"]),
		}, nil
	default:
		b := cat.BasicData{
			Name:         v("name"),
			Gender:       v("gender"),
			Observations: v("observations"),
			Picture:      current.Picture,
		}
		if raw := v("birthDate"); raw != "" {
			d, err := cat.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("birthDate: %w", err)
			}
			b.BirthDate = d
		}
		return b, nil
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// attachments collects the upload of seg: the profile picture on basic, the
// vaccine card on medical.
func attachments(r *http.Request, seg cat.Segment) ([]cat.Attachment, error) {
	var field string
	switch seg {
	case cat.SegmentBasic:
		field = cat.FieldPicture
	case cat.SegmentMedical:
		field = cat.FieldVaccineCard
	default:
		return nil, nil
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	fh := r.MultipartForm.File[field][0]
	if fh.Size == 0 {
		return nil, nil
	}

	if field == cat.FieldVaccineCard {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !slices.Contains(cat.VaccineCardExtensions, ext) {
			return nil, errors.New(MsgInvalidVaccineCard)
		}
	}

	data, err := readFile(fh)
	if err != nil {
		return nil, errors.New(MsgInvalidUpload)
	}
	return []cat.Attachment{{
		Field:       field,
		Filename:    filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
