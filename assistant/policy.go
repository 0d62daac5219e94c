package assistant

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entity is anything with a stable unique key. Two entities with the same key
// are the same entity, whatever their content.
type Entity interface {
	UniqueValue() string
}

// ImplicitSection is the key of the only section used when the policy has no
// SectionKey.
const ImplicitSection = ""

// Policy decides placement. Entities inside a section are ordered by
// SortEntities and sections by SortSections; a nil comparator keeps insertion
// order, as do ties.
type Policy[E Entity] struct {
	SortEntities func(a, b E) bool
	SortSections func(a, b string) bool

	// SectionKey classifies an entity. Nil puts everything in ImplicitSection.
	SectionKey func(e E) string

	// SectionTitle is the header shown for a section. A change in the title of
	// a section that keeps its place is reported as a section update.
	SectionTitle func(name string, entities []E) string

	// Equal reports whether two versions of an entity have the same content.
	// Defaults to reflect.DeepEqual.
	Equal func(a, b E) bool
}

func (p Policy[E]) sectionKey(e E) string {
	if p.SectionKey == nil {
		return ImplicitSection
	}
	return p.SectionKey(e)
}

func (p Policy[E]) sectionTitle(name string, entities []E) string {
	if p.SectionTitle == nil {
		return name
	}
	return p.SectionTitle(name, entities)
}

func (p Policy[E]) equal(a, b E) bool {
	if p.Equal == nil {
		return reflect.DeepEqual(a, b)
	}
	return p.Equal(a, b)
}

// IndexTitle is the short label used by section indexes: the uppercased first
// letter of the section name.
func IndexTitle(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
