package changeset

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/fulldump/biff"
)

func section(key string, rows ...string) SectionLayout {
	if rows == nil {
		rows = []string{}
	}
	return SectionLayout{Key: key, Title: key, Rows: rows}
}

func TestDiff_Unchanged(t *testing.T) {

	a := Arrangement{section("A", "Alice", "Anna"), section("B", "Bob")}

	changes := Diff(a, a.Clone(), nil)

	AssertEqual(len(changes), 0)
}

func TestDiff_InsertBetween(t *testing.T) {

	old := Arrangement{section("", "A", "B", "C")}
	new := Arrangement{section("", "A", "B", "D", "C")}

	changes := Diff(old, new, nil)

	AssertEqual(changes, []Change{
		{Type: Insert, Scope: ScopeEntity, Key: "D", To: IndexPath{Section: 0, Row: 2}},
	})
}

func TestDiff_ChangeSection(t *testing.T) {

	old := Arrangement{section("A", "Alice"), section("B", "Bob")}
	new := Arrangement{section("A", "Bob", "Alice")}

	changes := Sort(Diff(old, new, nil))

	AssertEqual(changes, []Change{
		{Type: Delete, Scope: ScopeSection, Key: "B", From: IndexPath{Section: 1}},
		{Type: Delete, Scope: ScopeEntity, Key: "Bob", From: IndexPath{Section: 1, Row: 0}},
		{Type: Insert, Scope: ScopeEntity, Key: "Bob", To: IndexPath{Section: 0, Row: 0}},
	})
}

func TestDiff_ChangeSectionToNewOne(t *testing.T) {

	old := Arrangement{section("B", "Bob", "Bill")}
	new := Arrangement{section("A", "Bob"), section("B", "Bill")}

	changes := Sort(Diff(old, new, nil))

	AssertEqual(changes, []Change{
		{Type: Insert, Scope: ScopeSection, Key: "A", Title: "A", To: IndexPath{Section: 0}},
		{Type: Delete, Scope: ScopeEntity, Key: "Bob", From: IndexPath{Section: 0, Row: 0}},
		{Type: Insert, Scope: ScopeEntity, Key: "Bob", To: IndexPath{Section: 0, Row: 0}},
	})
}

func TestDiff_DeleteLastOfSection(t *testing.T) {

	old := Arrangement{section("A", "Alice"), section("B", "Bob")}
	new := Arrangement{section("A", "Alice")}

	changes := Diff(old, new, nil)

	AssertEqual(changes, []Change{
		{Type: Delete, Scope: ScopeEntity, Key: "Bob", From: IndexPath{Section: 1, Row: 0}},
		{Type: Delete, Scope: ScopeSection, Key: "B", From: IndexPath{Section: 1}},
	})
}

func TestDiff_Reorder(t *testing.T) {

	old := Arrangement{section("", "A", "B", "C", "D")}
	new := Arrangement{section("", "D", "A", "B", "C")}

	changes := Diff(old, new, nil)

	AssertEqual(changes, []Change{
		{Type: Move, Scope: ScopeEntity, Key: "D", From: IndexPath{Section: 0, Row: 3}, To: IndexPath{Section: 0, Row: 0}},
	})
}

func TestDiff_SectionMoveAndTitle(t *testing.T) {

	old := Arrangement{section("A", "a"), section("B", "b"), section("C", "c")}
	new := Arrangement{section("C", "c"), section("A", "a"), section("B", "b")}
	new[2].Title = "B (1)"

	changes := Diff(old, new, nil)

	AssertEqual(changes, []Change{
		{Type: Move, Scope: ScopeSection, Key: "C", Title: "C", From: IndexPath{Section: 2}, To: IndexPath{Section: 0}},
		{Type: Update, Scope: ScopeSection, Key: "B", Title: "B (1)", To: IndexPath{Section: 2}},
	})
}

func TestDiff_SectionMovedAndRenamed(t *testing.T) {

	old := Arrangement{section("A", "a"), section("B", "b"), section("C", "c")}
	new := Arrangement{section("C", "c"), section("A", "a"), section("B", "b")}
	new[0].Title = "C (1)"

	changes := Diff(old, new, nil)

	AssertEqual(changes, []Change{
		{Type: Move, Scope: ScopeSection, Key: "C", Title: "C (1)", From: IndexPath{Section: 2}, To: IndexPath{Section: 0}},
		{Type: Update, Scope: ScopeSection, Key: "C", Title: "C (1)", To: IndexPath{Section: 0}},
	})

	replayed, err := Apply(old, changes)
	AssertNil(err)
	AssertTrue(replayed.Equal(new))
}

func TestDiff_Update(t *testing.T) {

	old := Arrangement{section("", "A", "B", "C")}
	new := Arrangement{section("", "A", "C", "B")}

	changes := Diff(old, new, func(key string) bool {
		return key == "A" || key == "B"
	})

	AssertEqual(changes, []Change{
		{Type: Update, Scope: ScopeEntity, Key: "A", From: IndexPath{Section: 0, Row: 0}, To: IndexPath{Section: 0, Row: 0}},
		{Type: Move, Scope: ScopeEntity, Key: "C", From: IndexPath{Section: 0, Row: 2}, To: IndexPath{Section: 0, Row: 1}},
		{Type: Update, Scope: ScopeEntity, Key: "B", From: IndexPath{Section: 0, Row: 1}, To: IndexPath{Section: 0, Row: 2}},
	})
}

func TestSort_ReplayOrder(t *testing.T) {

	old := Arrangement{section("A", "a1", "a2", "a3"), section("B", "b1"), section("C", "c1")}
	new := Arrangement{section("A", "a3", "a0"), section("C", "c1", "c2"), section("D", "d1")}

	changes := Sort(Diff(old, new, nil))

	kinds := []string{}
	for _, c := range changes {
		kinds = append(kinds, c.String())
	}
	AssertEqual(kinds, []string{
		`section delete "B" from [1,0]`,
		`section insert "D" at [2,0]`,
		`entity delete "b1" from [1,0]`,
		`entity delete "a2" from [0,1]`,
		`entity delete "a1" from [0,0]`,
		`entity insert "a0" at [0,1]`,
		`entity insert "c2" at [1,1]`,
		`entity insert "d1" at [2,0]`,
	})
}

func TestLongestIncreasing(t *testing.T) {

	AssertEqual(longestIncreasing(nil), map[int]bool{})
	AssertEqual(longestIncreasing([]int{3, 0, 1, 2}), map[int]bool{0: true, 1: true, 2: true})
	AssertEqual(len(longestIncreasing([]int{5, 4, 3, 2, 1})), 1)
	AssertEqual(longestIncreasing([]int{0, 8, 4, 12, 2, 10, 6, 14}), map[int]bool{0: true, 2: true, 6: true, 14: true})
}

func randomArrangement(r *rand.Rand, keys []string, sections []string) Arrangement {

	shuffled := append([]string(nil), keys...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	shuffled = shuffled[:r.Intn(len(shuffled)+1)]

	bySection := map[string][]string{}
	for _, key := range shuffled {
		s := sections[r.Intn(len(sections))]
		bySection[s] = append(bySection[s], key)
	}

	order := append([]string(nil), sections...)
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	result := Arrangement{}
	for _, s := range order {
		rows, exists := bySection[s]
		if !exists {
			continue
		}
		layout := section(s, rows...)
		if r.Intn(4) == 0 {
			layout.Title = fmt.Sprintf("%s (%d)", s, len(rows))
		}
		result = append(result, layout)
	}
	return result
}

func TestDiff_RoundTrip(t *testing.T) {

	r := rand.New(rand.NewSource(42))
	keys := []string{}
	for i := 0; i < 30; i++ {
		keys = append(keys, fmt.Sprintf("k%02d", i))
	}
	sections := []string{"A", "B", "C", "D", "E"}

	for i := 0; i < 500; i++ {
		old := randomArrangement(r, keys, sections)
		new := randomArrangement(r, keys, sections)

		changes := Diff(old, new, func(key string) bool { return key[len(key)-1]%2 == 0 })

		result, err := Apply(old, Sort(changes))
		AssertNil(err)
		if !AssertTrue(result.Equal(new)) {
			t.Fatalf("round trip %d failed:\nold: %v\nnew: %v\ngot: %v", i, old, new, result)
		}
	}
}

func TestApply_Inconsistent(t *testing.T) {

	old := Arrangement{section("", "A")}

	_, err := Apply(old, []Change{
		{Type: Delete, Scope: ScopeEntity, Key: "A", From: IndexPath{Section: 0, Row: 3}},
	})

	AssertNotNil(err)
}
