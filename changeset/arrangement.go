package changeset

// SectionLayout is the key-only view of one section.
type SectionLayout struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Rows  []string `json:"rows"`
}

// Arrangement is the key-only view of a whole snapshot, sections in display
// order.
type Arrangement []SectionLayout

func (a Arrangement) Clone() Arrangement {
	result := make(Arrangement, len(a))
	for i, s := range a {
		result[i] = SectionLayout{
			Key:   s.Key,
			Title: s.Title,
			Rows:  append([]string(nil), s.Rows...),
		}
	}
	return result
}

func (a Arrangement) Len() (n int) {
	for _, s := range a {
		n += len(s.Rows)
	}
	return
}

// Equal compares keys, titles and row order.
func (a Arrangement) Equal(b Arrangement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Title != b[i].Title {
			return false
		}
		if len(a[i].Rows) != len(b[i].Rows) {
			return false
		}
		for r := range a[i].Rows {
			if a[i].Rows[r] != b[i].Rows[r] {
				return false
			}
		}
	}
	return true
}

type location struct {
	section    int
	sectionKey string
	row        int
}

func (a Arrangement) locations() map[string]location {
	result := make(map[string]location, a.Len())
	for i, s := range a {
		for r, key := range s.Rows {
			result[key] = location{section: i, sectionKey: s.Key, row: r}
		}
	}
	return result
}

func (a Arrangement) sectionIndexes() map[string]int {
	result := make(map[string]int, len(a))
	for i, s := range a {
		result[s.Key] = i
	}
	return result
}
