package editor

import "cattus/internal/domain/cat"

// Mode is either Draft (not yet on the server) or Persisted.
type Mode interface {
	Record() cat.Cat
	isMode()
}

// Draft is CREATE mode: the record has no id.
type Draft struct {
	Cat cat.Cat
}

// Persisted is EDIT mode: every save is a partial update of ID.
type Persisted struct {
	ID  string
	Cat cat.Cat
}

func (d Draft) Record() cat.Cat     { return d.Cat }
func (p Persisted) Record() cat.Cat { return p.Cat }

func (Draft) isMode()     {}
func (Persisted) isMode() {}

func withRecord(m Mode, c cat.Cat) Mode {
	switch m := m.(type) {
	case Persisted:
		c.ID = m.ID
		return Persisted{ID: m.ID, Cat: c}
	default:
		return Draft{Cat: c}
	}
}
