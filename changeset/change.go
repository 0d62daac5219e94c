package changeset

import (
	"errors"
	"fmt"
)

var ErrInconsistentBatch = errors.New("inconsistent batch")

type Type int

const (
	Insert Type = iota
	Delete
	Move
	Update
)

func (t Type) String() string {
	switch t {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Move:
		return "move"
	case Update:
		return "update"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

type Scope int

const (
	ScopeEntity Scope = iota
	ScopeSection
)

func (s Scope) String() string {
	if s == ScopeSection {
		return "section"
	}
	return "entity"
}

// IndexPath locates a row inside a section. Section-scoped changes only use
// Section.
type IndexPath struct {
	Section int `json:"section"`
	Row     int `json:"row"`
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Row)
}

// Change is one structural operation. From is expressed against the
// arrangement before the episode, To against the arrangement after it.
type Change struct {
	Type  Type
	Scope Scope
	Key   string // entity key or section key
	From  IndexPath
	To    IndexPath
	Title string // section header after the change, section scope only
}

func (c Change) String() string {
	switch c.Type {
	case Delete:
		return fmt.Sprintf("%s %s %q from %s", c.Scope, c.Type, c.Key, c.From)
	case Move:
		return fmt.Sprintf("%s %s %q %s -> %s", c.Scope, c.Type, c.Key, c.From, c.To)
	}
	return fmt.Sprintf("%s %s %q at %s", c.Scope, c.Type, c.Key, c.To)
}

// partition is the replay slot of a change. Lower slots are replayed first.
func (c Change) partition() int {
	if c.Scope == ScopeSection {
		switch c.Type {
		case Delete:
			return 0
		case Insert:
			return 1
		case Move:
			return 2
		case Update:
			return 6
		}
	}
	switch c.Type {
	case Delete:
		return 3
	case Insert:
		return 4
	case Move:
		return 5
	}
	return 7
}

const partitions = 8
