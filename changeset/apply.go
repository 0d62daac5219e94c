package changeset

import (
	"fmt"
	"sort"
)

// Apply replays changes against old and returns the resulting arrangement.
// Every delete and move source is removed first using old indexes, then every
// insert and move destination is placed in ascending order using new indexes.
func Apply(old Arrangement, changes []Change) (Arrangement, error) {

	removedSections := map[int]bool{}
	removedRows := map[IndexPath]bool{}
	type placement struct {
		change  Change
		section SectionLayout
	}
	sectionPlacements := []placement{}
	rowPlacements := []Change{}
	updates := []Change{}

	for _, change := range changes {
		switch {
		case change.Scope == ScopeSection && change.Type == Delete:
			if !validSection(old, change.From.Section) {
				return nil, inconsistent(change)
			}
			removedSections[change.From.Section] = true
		case change.Scope == ScopeSection && change.Type == Move:
			if !validSection(old, change.From.Section) {
				return nil, inconsistent(change)
			}
			removedSections[change.From.Section] = true
			sectionPlacements = append(sectionPlacements, placement{change: change})
		case change.Scope == ScopeSection && change.Type == Insert:
			sectionPlacements = append(sectionPlacements, placement{change: change})
		case change.Scope == ScopeEntity && change.Type == Delete:
			if !validRow(old, change.From) || old[change.From.Section].Rows[change.From.Row] != change.Key {
				return nil, inconsistent(change)
			}
			removedRows[change.From] = true
		case change.Scope == ScopeEntity && change.Type == Move:
			if !validRow(old, change.From) || old[change.From.Section].Rows[change.From.Row] != change.Key {
				return nil, inconsistent(change)
			}
			removedRows[change.From] = true
			rowPlacements = append(rowPlacements, change)
		case change.Scope == ScopeEntity && change.Type == Insert:
			rowPlacements = append(rowPlacements, change)
		default:
			updates = append(updates, change)
		}
	}

	// Survivors keep their relative order
	survivors := map[int]SectionLayout{}
	for i, section := range old {
		rows := []string{}
		for r, key := range section.Rows {
			if removedRows[IndexPath{Section: i, Row: r}] {
				continue
			}
			rows = append(rows, key)
		}
		survivors[i] = SectionLayout{Key: section.Key, Title: section.Title, Rows: rows}
	}

	result := Arrangement{}
	for i := range old {
		if removedSections[i] {
			continue
		}
		result = append(result, survivors[i])
	}

	for n, p := range sectionPlacements {
		if p.change.Type == Move {
			section := survivors[p.change.From.Section]
			section.Title = p.change.Title
			sectionPlacements[n].section = section
			continue
		}
		sectionPlacements[n].section = SectionLayout{Key: p.change.Key, Title: p.change.Title, Rows: []string{}}
	}
	sort.SliceStable(sectionPlacements, func(a, b int) bool {
		return sectionPlacements[a].change.To.Section < sectionPlacements[b].change.To.Section
	})
	for _, p := range sectionPlacements {
		i := p.change.To.Section
		if i < 0 || i > len(result) {
			return nil, inconsistent(p.change)
		}
		result = append(result, SectionLayout{})
		copy(result[i+1:], result[i:])
		result[i] = p.section
	}

	sort.SliceStable(rowPlacements, func(a, b int) bool {
		return pathLess(rowPlacements[a].To, rowPlacements[b].To)
	})
	for _, change := range rowPlacements {
		s, r := change.To.Section, change.To.Row
		if !validSection(result, s) || r < 0 || r > len(result[s].Rows) {
			return nil, inconsistent(change)
		}
		rows := append(result[s].Rows, "")
		copy(rows[r+1:], rows[r:])
		rows[r] = change.Key
		result[s].Rows = rows
	}

	for _, change := range updates {
		if change.Scope == ScopeSection {
			if !validSection(result, change.To.Section) || result[change.To.Section].Key != change.Key {
				return nil, inconsistent(change)
			}
			result[change.To.Section].Title = change.Title
			continue
		}
		if !validRow(result, change.To) || result[change.To.Section].Rows[change.To.Row] != change.Key {
			return nil, inconsistent(change)
		}
	}

	return result, nil
}

func validSection(a Arrangement, i int) bool {
	return i >= 0 && i < len(a)
}

func validRow(a Arrangement, p IndexPath) bool {
	return validSection(a, p.Section) && p.Row >= 0 && p.Row < len(a[p.Section].Rows)
}

func inconsistent(change Change) error {
	return fmt.Errorf("%w: %s", ErrInconsistentBatch, change)
}
