package changeset

import "sort"

// Diff computes the changes that turn old into new. Identity is the key:
// entities are matched by key first and positions are compared afterwards.
// changed reports whether an entity present in both arrangements has a
// different content; it may be nil.
//
// The result is in emission order: for every old section its row deletes and
// then its own delete, followed by every new section with its row changes.
// Use Sort to get the replay order.
func Diff(old, new Arrangement, changed func(key string) bool) []Change {

	changes := []Change{}

	oldSections := old.sectionIndexes()
	newSections := new.sectionIndexes()
	oldRows := old.locations()
	newRows := new.locations()

	// Removals, old index space
	for i, section := range old {
		for r, key := range section.Rows {
			to, exists := newRows[key]
			if exists && to.sectionKey == section.Key {
				continue
			}
			changes = append(changes, Change{
				Type:  Delete,
				Scope: ScopeEntity,
				Key:   key,
				From:  IndexPath{Section: i, Row: r},
			})
		}
		if _, exists := newSections[section.Key]; !exists {
			changes = append(changes, Change{
				Type:  Delete,
				Scope: ScopeSection,
				Key:   section.Key,
				From:  IndexPath{Section: i},
			})
		}
	}

	// Sections that survive keep their place when they belong to the longest
	// run that is already ordered.
	matched := []int{}
	for _, section := range new {
		if i, exists := oldSections[section.Key]; exists {
			matched = append(matched, i)
		}
	}
	stableSections := longestIncreasing(matched)

	for j, section := range new {
		i, exists := oldSections[section.Key]
		switch {
		case !exists:
			changes = append(changes, Change{
				Type:  Insert,
				Scope: ScopeSection,
				Key:   section.Key,
				To:    IndexPath{Section: j},
				Title: section.Title,
			})
		case !stableSections[i]:
			changes = append(changes, Change{
				Type:  Move,
				Scope: ScopeSection,
				Key:   section.Key,
				From:  IndexPath{Section: i},
				To:    IndexPath{Section: j},
				Title: section.Title,
			})
		}

		// A move does not carry the header, a new title is always an update
		if exists && old[i].Title != section.Title {
			changes = append(changes, Change{
				Type:  Update,
				Scope: ScopeSection,
				Key:   section.Key,
				To:    IndexPath{Section: j},
				Title: section.Title,
			})
		}

		changes = append(changes, diffRows(section, j, oldRows, changed)...)
	}

	return changes
}

func diffRows(section SectionLayout, j int, oldRows map[string]location, changed func(key string) bool) []Change {

	matched := []int{}
	for _, key := range section.Rows {
		from, exists := oldRows[key]
		if exists && from.sectionKey == section.Key {
			matched = append(matched, from.row)
		}
	}
	stable := longestIncreasing(matched)

	changes := []Change{}
	for r, key := range section.Rows {
		to := IndexPath{Section: j, Row: r}
		from, exists := oldRows[key]
		if !exists || from.sectionKey != section.Key {
			changes = append(changes, Change{
				Type:  Insert,
				Scope: ScopeEntity,
				Key:   key,
				To:    to,
			})
			continue
		}
		if !stable[from.row] {
			changes = append(changes, Change{
				Type:  Move,
				Scope: ScopeEntity,
				Key:   key,
				From:  IndexPath{Section: from.section, Row: from.row},
				To:    to,
			})
		}
		if changed != nil && changed(key) {
			changes = append(changes, Change{
				Type:  Update,
				Scope: ScopeEntity,
				Key:   key,
				From:  IndexPath{Section: from.section, Row: from.row},
				To:    to,
			})
		}
	}

	return changes
}

// longestIncreasing returns the members of one longest strictly increasing
// subsequence of values. Values must be distinct.
func longestIncreasing(values []int) map[int]bool {

	tails := []int{} // positions in values
	parents := make([]int, len(values))

	for i, v := range values {
		k := sort.Search(len(tails), func(n int) bool {
			return values[tails[n]] >= v
		})
		if k > 0 {
			parents[i] = tails[k-1]
		} else {
			parents[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	result := make(map[int]bool, len(tails))
	if len(tails) == 0 {
		return result
	}
	for i := tails[len(tails)-1]; i >= 0; i = parents[i] {
		result[values[i]] = true
	}
	return result
}

// Sort returns a copy of changes in replay order: section deletes
// (descending), section inserts (ascending), section moves, entity deletes
// (descending), entity inserts (ascending), entity moves and finally updates.
func Sort(changes []Change) []Change {
	result := append([]Change(nil), changes...)
	sort.SliceStable(result, func(a, b int) bool {
		ca, cb := result[a], result[b]
		pa, pb := ca.partition(), cb.partition()
		if pa != pb {
			return pa < pb
		}
		if ca.Type == Delete {
			return pathLess(cb.From, ca.From)
		}
		return pathLess(ca.To, cb.To)
	})
	return result
}

func pathLess(a, b IndexPath) bool {
	if a.Section != b.Section {
		return a.Section < b.Section
	}
	return a.Row < b.Row
}
