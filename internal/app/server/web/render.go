package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client/notify"
	"cattus/internal/domain/cat"
	"cattus/internal/domain/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer escapes raw HTML in observations (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

const tokenPreviewLen = 30

var funcMap = template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"truncate": truncate,
	"age": func(c cat.Cat) int {
		return c.Age(time.Now())
	},
	"date": func(t any) string {
		switch v := t.(type) {
		case time.Time:
			if v.IsZero() {
				return "-"
			}
			return v.Local().Format("02/01/2006 15:04")
		case *time.Time:
			if v == nil || v.IsZero() {
				return "-"
			}
			return v.Local().Format("02/01/2006 15:04")
		case cat.Date:
			if v.IsZero() {
				return "-"
			}
			return v.Format("02/01/2006")
		default:
			return fmt.Sprint(t)
		}
	},
	"has": func(list []string, v string) bool {
		return slices.Contains(list, v)
	},
	"dict": dict,
	"add":  func(a, b int) int { return a + b },
	"sub":  func(a, b int) int { return a - b },
}

// dict builds the argument map of a sub-template call.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type renderer struct {
	pages map[string]*template.Template
}

// newRenderer parses every page together with the layout once at start.
func newRenderer() (*renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		page := strings.TrimPrefix(name, "templates/")
		if page == "layout.html" {
			continue
		}
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tpl
	}
	return r, nil
}

// view is the data every page receives; page-specific values go in Data.
type view struct {
	Title     string
	Path      string
	Session   session.Session
	Toasts    []notify.Toast
	CSRFField template.HTML
	CSRFToken string
	Data      any
}

func (v view) DisplayName() string {
	return v.Session.Claims.Name()
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tpl, ok := h.pages.pages[page]
	if !ok {
		h.log.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	st := stateFrom(r.Context())
	toasts := append(takeFlash(w, r), st.toasts.Drain()...)

	v := view{
		Title:     title,
		Path:      r.URL.Path,
		Session:   st.session,
		Toasts:    toasts,
		CSRFField: csrf.TemplateField(r),
		CSRFToken: csrf.Token(r),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		h.log.Error("render", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	h.render(w, r, http.StatusOK, page, title, data)
}

// redirect carries pending toasts to the next page.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	st := stateFrom(r.Context())
	setFlash(w, st.toasts.Drain(), h.cfg.CookieSecure)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
