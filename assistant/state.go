package assistant

import (
	"github.com/google/btree"
)

const degree = 32

type item[E Entity] struct {
	entity E
	seq    uint64 // insertion order, kept across updates
}

type section[E Entity] struct {
	name string
	seq  uint64
	rows *btree.BTreeG[item[E]]
}

type entry[E Entity] struct {
	item    item[E]
	section string
}

// state is the mutable arrangement used while an episode is open. Entities
// and sections live in btrees ordered by the policy.
type state[E Entity] struct {
	policy   Policy[E]
	sections *btree.BTreeG[*section[E]]
	byName   map[string]*section[E]
	byKey    map[string]entry[E]
	seq      uint64
}

func newState[E Entity](policy Policy[E]) *state[E] {
	return &state[E]{
		policy: policy,
		sections: btree.NewG(degree, func(a, b *section[E]) bool {
			if policy.SortSections != nil {
				if policy.SortSections(a.name, b.name) {
					return true
				}
				if policy.SortSections(b.name, a.name) {
					return false
				}
			}
			return a.seq < b.seq
		}),
		byName: map[string]*section[E]{},
		byKey:  map[string]entry[E]{},
	}
}

func (s *state[E]) lessItem(a, b item[E]) bool {
	if s.policy.SortEntities != nil {
		if s.policy.SortEntities(a.entity, b.entity) {
			return true
		}
		if s.policy.SortEntities(b.entity, a.entity) {
			return false
		}
	}
	return a.seq < b.seq
}

// clone returns an independent copy. Trees are copied lazily by btree.
func (s *state[E]) clone() *state[E] {

	result := &state[E]{
		policy:   s.policy,
		sections: s.sections.Clone(),
		byName:   make(map[string]*section[E], len(s.byName)),
		byKey:    make(map[string]entry[E], len(s.byKey)),
		seq:      s.seq,
	}

	// Section values are shared by both trees, replace them with copies
	s.sections.Ascend(func(sec *section[E]) bool {
		copied := &section[E]{
			name: sec.name,
			seq:  sec.seq,
			rows: sec.rows.Clone(),
		}
		result.sections.ReplaceOrInsert(copied)
		result.byName[sec.name] = copied
		return true
	})

	for k, v := range s.byKey {
		result.byKey[k] = v
	}

	return result
}

func (s *state[E]) len() int {
	return len(s.byKey)
}

func (s *state[E]) get(key string) (E, bool) {
	e, ok := s.byKey[key]
	return e.item.entity, ok
}

// put inserts or replaces the entity with the same key. It reports whether the
// key was new.
func (s *state[E]) put(entity E) bool {

	key := entity.UniqueValue()
	it := item[E]{entity: entity}

	name := s.policy.sectionKey(entity)

	previous, exists := s.byKey[key]
	if exists {
		it.seq = previous.item.seq
		s.detach(previous, previous.section == name)
	} else {
		s.seq++
		it.seq = s.seq
	}

	sec, found := s.byName[name]
	if !found {
		s.seq++
		sec = &section[E]{
			name: name,
			seq:  s.seq,
			rows: btree.NewG(degree, s.lessItem),
		}
		s.byName[name] = sec
		s.sections.ReplaceOrInsert(sec)
	}
	sec.rows.ReplaceOrInsert(it)
	s.byKey[key] = entry[E]{item: it, section: name}

	return !exists
}

func (s *state[E]) remove(key string) bool {
	e, exists := s.byKey[key]
	if !exists {
		return false
	}
	s.detach(e, false)
	delete(s.byKey, key)
	return true
}

// detach takes the item out of its section. An emptied section is dropped
// unless keep is set.
func (s *state[E]) detach(e entry[E], keep bool) {
	sec := s.byName[e.section]
	sec.rows.Delete(e.item)
	if keep || sec.rows.Len() > 0 {
		return
	}
	s.sections.Delete(sec)
	delete(s.byName, sec.name)
}

// freeze builds the read-only snapshot.
func (s *state[E]) freeze() *Snapshot[E] {

	snapshot := &Snapshot[E]{
		Sections: make([]*SectionInfo[E], 0, s.sections.Len()),
		paths:    make(map[string]IndexPath, len(s.byKey)),
	}

	s.sections.Ascend(func(sec *section[E]) bool {
		i := len(snapshot.Sections)
		entities := make([]E, 0, sec.rows.Len())
		sec.rows.Ascend(func(it item[E]) bool {
			snapshot.paths[it.entity.UniqueValue()] = IndexPath{Section: i, Row: len(entities)}
			entities = append(entities, it.entity)
			return true
		})
		snapshot.Sections = append(snapshot.Sections, &SectionInfo[E]{
			Name:       sec.name,
			Title:      s.policy.sectionTitle(sec.name, entities),
			IndexTitle: IndexTitle(sec.name),
			Entities:   entities,
		})
		return true
	})

	return snapshot
}
