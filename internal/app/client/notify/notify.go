// Package notify delivers transient user-visible messages (toasts).
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
	Info(msg string)
}

// Terminal prints toasts to a terminal, colored by level.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) print(c *color.Color, prefix, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = c.Fprintf(t.out, "%s %s\n", prefix, msg)
}

func (t *Terminal) Success(msg string) { t.print(color.New(color.FgGreen), "✓", msg) }
func (t *Terminal) Error(msg string)   { t.print(color.New(color.FgRed), "✗", msg) }
func (t *Terminal) Warning(msg string) { t.print(color.New(color.FgYellow), "!", msg) }
func (t *Terminal) Info(msg string)    { t.print(color.New(color.FgCyan), "i", msg) }

// Recorder keeps toasts in memory until drained. The web frontend turns
// them into flash messages.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: msg})
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Warning(msg string) { r.add(LevelWarning, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }

// Toasts returns a copy of what has been recorded.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns and forgets what has been recorded.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}

// Push replays toasts, e.g. ones carried over a redirect.
func (r *Recorder) Push(toasts ...Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toasts...)
}

// Discard drops every toast.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Warning(string) {}
func (Discard) Info(string)    {}

// String renders t for plain text output.
func (t Toast) String() string {
	return fmt.Sprintf("[%s] %s", t.Level, t.Message)
}
