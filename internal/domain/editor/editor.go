// Package editor drives the four-segment cat record wizard.
//
// A new record starts as a Draft. Saving the basic segment creates it on the
// server, after which the editor holds a Persisted record and every further
// save is a partial update of the active segment only.
package editor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/exp/slog"

	"cattus/internal/domain/cat"
)

const ListRoute = "/cats"

// Mensagens exibidas ao usuário.
const (
	MsgSaveBasicFirst = "Salve os dados básicos primeiro"
	MsgNoCompany      = "ID da empresa não encontrado"
	MsgLoadFailed     = "Erro ao carregar dados do gato"
	MsgSaveFailed     = "Erro ao salvar dados do gato"
)

// Gateway is the remote side of the editor. Implementations report success
// and failure of Create and Update to the user themselves.
type Gateway interface {
	Get(ctx context.Context, id string) (cat.Cat, error)
	Create(ctx context.Context, form cat.CreateForm, files ...cat.Attachment) (string, error)
	Update(ctx context.Context, id string, patch map[string]any, files ...cat.Attachment) error
}

type Notifier interface {
	Warning(msg string)
	Error(msg string)
}

// Outcome tells the caller where to go after a successful save.
type Outcome struct {
	ID      string
	Created bool
	Next    cat.Segment
	Done    bool
}

// Route is the navigation target: the list when done, otherwise the edit
// page on the next segment.
func (o Outcome) Route() string {
	if o.Done {
		return ListRoute
	}
	return EditRoute(o.ID, o.Next)
}

// EditRoute is the address of a persisted record in the wizard.
func EditRoute(id string, seg cat.Segment) string {
	r := "/cats/edit/" + url.PathEscape(id)
	if seg != "" && seg != cat.SegmentBasic {
		r += "?segment=" + string(seg)
	}
	return r
}

type Editor struct {
	gateway  Gateway
	notifier Notifier
	log      *slog.Logger

	mu        sync.Mutex
	mode      Mode
	active    cat.Segment
	completed cat.Completion
	progress  int
	busy      bool
	closed    bool
}

// New starts a CREATE session for companyID.
func New(gateway Gateway, notifier Notifier, log *slog.Logger, companyID string) *Editor {
	rec := cat.Cat{Company: companyID}
	return &Editor{
		gateway:   gateway,
		notifier:  notifier,
		log:       log.With(slog.String("component", "cat_editor")),
		mode:      Draft{Cat: rec},
		active:    cat.SegmentBasic,
		completed: cat.Completion{},
		progress:  cat.Progress(rec),
	}
}

// Open loads record id into an EDIT session. An empty id is a CREATE session.
func Open(ctx context.Context, gateway Gateway, notifier Notifier, log *slog.Logger, companyID, id string) (*Editor, error) {
	e := New(gateway, notifier, log, companyID)
	if id == "" {
		return e, nil
	}

	rec, err := gateway.Get(ctx, id)
	if err != nil {
		e.log.Error("load cat", slog.String("id", id), slog.String("error", err.Error()))
		notifier.Error(MsgLoadFailed)
		return nil, &LoadError{ID: id, Return: ListRoute, Err: err}
	}

	rec.ID = id
	if rec.Company == "" {
		rec.Company = companyID
	}

	e.mode = Persisted{ID: id, Cat: rec}
	e.completed = cat.LoadedCompletion(rec)
	e.progress = cat.Progress(rec)
	return e, nil
}

func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// ID returns the server id once the record is persisted.
func (e *Editor) ID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.mode.(Persisted); ok {
		return p.ID, true
	}
	return "", false
}

func (e *Editor) Record() cat.Cat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode.Record()
}

func (e *Editor) Active() cat.Segment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Editor) Completion() cat.Completion {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(cat.Completion, len(e.completed))
	for k, v := range e.completed {
		out[k] = v
	}
	return out
}

func (e *Editor) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// Busy is true while a save is in flight.
func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Navigate switches the active segment. Leaving basic is refused until the
// record exists on the server.
func (e *Editor) Navigate(seg cat.Segment) error {
	if !seg.Valid() {
		return fmt.Errorf("%w: %q", cat.ErrUnknownSegment, seg)
	}

	e.mu.Lock()
	_, draft := e.mode.(Draft)
	if draft && seg != cat.SegmentBasic {
		e.mu.Unlock()
		e.notifier.Warning(MsgSaveBasicFirst)
		return ErrSaveBasicFirst
	}
	e.active = seg
	e.mu.Unlock()
	return nil
}

// Change merges the fields of one segment and recomputes that segment's
// completion and the overall progress.
func (e *Editor) Change(data cat.SegmentData) error {
	if err := cat.Validate(data); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	rec := cat.Apply(e.mode.Record(), data)
	e.mode = withRecord(e.mode, rec)
	e.completed[data.Segment()] = cat.Complete(rec, data.Segment())
	e.progress = cat.Progress(rec)
	return nil
}

// Save submits the active segment. In CREATE mode that is a multipart create
// of the basic fields; otherwise a partial update. Form state is left intact
// on failure.
func (e *Editor) Save(ctx context.Context, andContinue bool, files ...cat.Attachment) (Outcome, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if e.busy {
		e.mu.Unlock()
		return Outcome{}, ErrBusy
	}

	mode := e.mode
	seg := e.active
	rec := mode.Record()

	if _, draft := mode.(Draft); draft {
		if seg != cat.SegmentBasic {
			e.mu.Unlock()
			e.notifier.Warning(MsgSaveBasicFirst)
			return Outcome{}, ErrSaveBasicFirst
		}
		if rec.Company == "" {
			e.mu.Unlock()
			e.notifier.Error(MsgNoCompany)
			return Outcome{}, ErrNoCompany
		}
	}

	e.busy = true
	e.mu.Unlock()

	var (
		id   string
		err  error
		noID bool
	)
	switch m := mode.(type) {
	case Persisted:
		id = m.ID
		err = e.gateway.Update(ctx, m.ID, cat.Patch(rec, seg), files...)
	default:
		id, err = e.gateway.Create(ctx, cat.NewCreateForm(rec), files...)
		if err == nil && id == "" {
			noID = true
			err = errors.New("create returned no id")
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if e.closed {
		e.log.Debug("save result discarded", slog.String("segment", string(seg)))
		return Outcome{}, ErrClosed
	}
	if err != nil {
		e.log.Warn("save cat", slog.String("segment", string(seg)), slog.String("error", err.Error()))
		// the gateway reported the create as a success
		if noID {
			e.notifier.Error(MsgSaveFailed)
		}
		return Outcome{}, fmt.Errorf("save %s: %w", seg, err)
	}

	out := Outcome{ID: id}
	if _, draft := e.mode.(Draft); draft {
		current := e.mode.Record()
		current.ID = id
		e.mode = Persisted{ID: id, Cat: current}
		out.Created = true
	}
	e.completed[seg] = cat.Complete(e.mode.Record(), seg)

	if !andContinue {
		out.Done = true
		return out, nil
	}
	next, ok := seg.Next()
	if !ok {
		out.Done = true
		return out, nil
	}
	e.active = next
	out.Next = next
	return out, nil
}

// Close detaches the editor; results of a save still in flight are dropped.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}
