package assistant

import (
	"github.com/fulldump/listassistant/changeset"
)

type IndexPath = changeset.IndexPath

type SectionInfo[E Entity] struct {
	Name       string
	Title      string
	IndexTitle string
	Entities   []E
}

// Snapshot is an immutable view of the collection between episodes.
type Snapshot[E Entity] struct {
	Sections []*SectionInfo[E]
	paths    map[string]IndexPath
}

func emptySnapshot[E Entity]() *Snapshot[E] {
	return &Snapshot[E]{
		Sections: []*SectionInfo[E]{},
		paths:    map[string]IndexPath{},
	}
}

func (s *Snapshot[E]) NumberOfSections() int {
	return len(s.Sections)
}

// NumberOfEntities returns 0 for an unknown section.
func (s *Snapshot[E]) NumberOfEntities(section int) int {
	info, ok := s.Section(section)
	if !ok {
		return 0
	}
	return len(info.Entities)
}

func (s *Snapshot[E]) Section(i int) (*SectionInfo[E], bool) {
	if i < 0 || i >= len(s.Sections) {
		return nil, false
	}
	return s.Sections[i], true
}

func (s *Snapshot[E]) Entity(path IndexPath) (E, bool) {
	info, ok := s.Section(path.Section)
	if !ok || path.Row < 0 || path.Row >= len(info.Entities) {
		var zero E
		return zero, false
	}
	return info.Entities[path.Row], true
}

func (s *Snapshot[E]) IndexPathOf(key string) (IndexPath, bool) {
	path, ok := s.paths[key]
	return path, ok
}

func (s *Snapshot[E]) Get(key string) (E, bool) {
	path, ok := s.paths[key]
	if !ok {
		var zero E
		return zero, false
	}
	return s.Entity(path)
}

func (s *Snapshot[E]) Count() int {
	return len(s.paths)
}

func (s *Snapshot[E]) IsEmpty() bool {
	return len(s.paths) == 0
}

// Entities returns every entity in display order.
func (s *Snapshot[E]) Entities() []E {
	result := make([]E, 0, len(s.paths))
	for _, info := range s.Sections {
		result = append(result, info.Entities...)
	}
	return result
}

// SectionIndexTitles lists the distinct index titles in section order.
func (s *Snapshot[E]) SectionIndexTitles() []string {
	result := []string{}
	seen := map[string]bool{}
	for _, info := range s.Sections {
		if seen[info.IndexTitle] {
			continue
		}
		seen[info.IndexTitle] = true
		result = append(result, info.IndexTitle)
	}
	return result
}

// SectionIndex returns the first section labelled with the given index title.
func (s *Snapshot[E]) SectionIndex(title string) (int, bool) {
	for i, info := range s.Sections {
		if info.IndexTitle == title {
			return i, true
		}
	}
	return 0, false
}

// Arrangement reduces the snapshot to section keys, titles and entity keys.
func (s *Snapshot[E]) Arrangement() changeset.Arrangement {
	result := make(changeset.Arrangement, len(s.Sections))
	for i, info := range s.Sections {
		rows := make([]string, len(info.Entities))
		for j, entity := range info.Entities {
			rows[j] = entity.UniqueValue()
		}
		result[i] = changeset.SectionLayout{
			Key:   info.Name,
			Title: info.Title,
			Rows:  rows,
		}
	}
	return result
}
