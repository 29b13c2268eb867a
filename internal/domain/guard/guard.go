// Package guard decides whether a navigation may proceed.
package guard

import "strings"

type State int

const (
	Checking State = iota
	Authorized
	Redirecting
)

func (s State) String() string {
	switch s {
	case Checking:
		return "CHECKING"
	case Authorized:
		return "AUTHORIZED"
	case Redirecting:
		return "REDIRECTING"
	default:
		return "UNKNOWN"
	}
}

const (
	LoginPath   = "/login"
	LoadingPath = "/loading"
)

// Decision is the outcome of one check.
type Decision struct {
	State    State
	Redirect string
}

// Allowed reports whether the target may render.
func (d Decision) Allowed() bool {
	return d.State == Authorized
}

// Guard holds the state of the last navigation check. A zero Guard is CHECKING.
type Guard struct {
	state State
}

func New() *Guard {
	return &Guard{state: Checking}
}

func (g *Guard) State() State {
	return g.state
}

// Navigate re-runs the check for a new target, passing through CHECKING.
func (g *Guard) Navigate(path string, hasToken bool) Decision {
	g.state = Checking
	d := Check(path, hasToken)
	g.state = d.State
	return d
}

// Check is token presence only; an expired token still passes and the API
// rejects it with 401.
func Check(path string, hasToken bool) Decision {
	if hasToken || IsPublic(path) {
		return Decision{State: Authorized}
	}
	return Decision{State: Redirecting, Redirect: LoginPath}
}

// IsPublic reports whether path is reachable without a token.
func IsPublic(path string) bool {
	p := strings.TrimRight(path, "/")
	return p == LoginPath || p == LoadingPath
}
