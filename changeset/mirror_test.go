package changeset

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/fulldump/biff"
)

func TestMirror(t *testing.T) {

	Alternative("Mirror follows batches", func(a *A) {

		live := Arrangement{section("A", "a1", "a2"), section("B", "b1")}
		mirror := NewMirror(func() Arrangement { return live })
		tracker := NewTracker()

		commit := func(next Arrangement) error {
			batch, err := tracker.Begin()
			if err != nil {
				return err
			}
			batch.Record(Diff(live, next, nil)...)
			live = next
			return tracker.Commit(mirror, nil)
		}

		a.Alternative("Insert section and rows", func(a *A) {
			next := Arrangement{section("A", "a0", "a1", "a2"), section("B", "b1"), section("C", "c1")}
			AssertNil(commit(next))
			AssertNil(mirror.Err())
			AssertTrue(mirror.Arrangement().Equal(next))
			AssertEqual(mirror.Episodes, 1)
		})

		a.Alternative("Move sections and rows", func(a *A) {
			next := Arrangement{section("B", "b1", "a2"), section("A", "a1")}
			AssertNil(commit(next))
			AssertNil(mirror.Err())
			AssertTrue(mirror.Arrangement().Equal(next))
		})

		a.Alternative("Delete everything", func(a *A) {
			AssertNil(commit(Arrangement{}))
			AssertEqual(len(mirror.Arrangement()), 0)
		})

		a.Alternative("Limit falls back to reload", func(a *A) {
			mirror.Limit = 1
			next := Arrangement{section("C", "c1", "c2", "c3")}
			AssertEqual(commit(next), ErrConsumerRejection)
			AssertEqual(mirror.Reloads, 1)
			AssertEqual(mirror.Episodes, 0)
			AssertTrue(mirror.Arrangement().Equal(next))
		})
	})
}

func TestMirror_Random(t *testing.T) {

	r := rand.New(rand.NewSource(7))
	keys := []string{}
	for i := 0; i < 20; i++ {
		keys = append(keys, fmt.Sprintf("k%02d", i))
	}
	sections := []string{"A", "B", "C", "D"}

	live := randomArrangement(r, keys, sections)
	mirror := NewMirror(func() Arrangement { return live })
	tracker := NewTracker()

	for i := 0; i < 200; i++ {
		next := randomArrangement(r, keys, sections)
		batch, err := tracker.Begin()
		AssertNil(err)
		batch.Record(Diff(live, next, nil)...)
		live = next
		AssertNil(tracker.Commit(mirror, nil))
		AssertNil(mirror.Err())
		if !AssertTrue(mirror.Arrangement().Equal(live)) {
			t.Fatalf("mirror diverged at step %d", i)
		}
	}
}
