package changeset

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

// logConsumer writes every call it receives as a line.
type logConsumer struct {
	calls  []string
	hold   bool
	done   func(success bool)
	accept bool
}

func (c *logConsumer) BeginUpdateEpisode() { c.calls = append(c.calls, "begin") }
func (c *logConsumer) ApplyEntityInsert(paths []IndexPath) {
	c.calls = append(c.calls, fmt.Sprint("entity insert ", paths))
}
func (c *logConsumer) ApplyEntityDelete(paths []IndexPath) {
	c.calls = append(c.calls, fmt.Sprint("entity delete ", paths))
}
func (c *logConsumer) ApplyEntityMove(from, to IndexPath) {
	c.calls = append(c.calls, fmt.Sprint("entity move ", from, " ", to))
}
func (c *logConsumer) ApplyEntityUpdate(path IndexPath) {
	c.calls = append(c.calls, fmt.Sprint("entity update ", path))
}
func (c *logConsumer) ApplySectionInsert(indexes []int) {
	c.calls = append(c.calls, fmt.Sprint("section insert ", indexes))
}
func (c *logConsumer) ApplySectionDelete(indexes []int) {
	c.calls = append(c.calls, fmt.Sprint("section delete ", indexes))
}
func (c *logConsumer) ApplySectionMove(from, to int) {
	c.calls = append(c.calls, fmt.Sprint("section move ", from, " ", to))
}
func (c *logConsumer) ApplySectionUpdate(indexes []int) {
	c.calls = append(c.calls, fmt.Sprint("section update ", indexes))
}
func (c *logConsumer) CommitUpdateEpisode(done func(success bool)) {
	c.calls = append(c.calls, "commit")
	if c.hold {
		c.done = done
		return
	}
	done(true)
}

type reloadConsumer struct {
	logConsumer
}

func (c *reloadConsumer) AcceptBatch(batch *Batch) bool { return c.accept }
func (c *reloadConsumer) ReloadData() { c.calls = append(c.calls, "reload") }

func TestTracker_Bracket(t *testing.T) {

	old := Arrangement{section("A", "a1", "a2", "a3"), section("B", "b1"), section("C", "c1")}
	new := Arrangement{section("A", "a3", "a0"), section("C", "c1", "c2"), section("D", "d1")}

	tracker := NewTracker()
	batch, err := tracker.Begin()
	AssertNil(err)
	batch.Record(Diff(old, new, nil)...)

	consumer := &logConsumer{}
	acknowledged := false
	err = tracker.Commit(consumer, func(success bool) {
		acknowledged = success
	})
	AssertNil(err)
	AssertTrue(acknowledged)

	AssertEqual(consumer.calls, []string{
		"begin",
		"section delete [1]",
		"section insert [2]",
		"entity delete [[1,0] [0,1] [0,0]]",
		"entity insert [[0,1] [1,1] [2,0]]",
		"commit",
	})
	AssertEqual(batch.Count(ScopeEntity, Delete), 3)
	AssertEqual(batch.Count(ScopeSection, Move), 0)
}

func TestTracker_EmptyBatch(t *testing.T) {

	tracker := NewTracker()
	_, err := tracker.Begin()
	AssertNil(err)

	consumer := &logConsumer{}
	err = tracker.Commit(consumer, nil)
	AssertNil(err)

	AssertEqual(len(consumer.calls), 0)
	AssertFalse(tracker.Busy())
}

func TestTracker_Conflict(t *testing.T) {

	tracker := NewTracker()
	_, err := tracker.Begin()
	AssertNil(err)

	_, err = tracker.Begin()
	AssertEqual(err, ErrEpisodeConflict)

	tracker.Discard()
	_, err = tracker.Begin()
	AssertNil(err)
}

func TestTracker_AsyncAcknowledge(t *testing.T) {

	tracker := NewTracker()
	batch, _ := tracker.Begin()
	batch.Record(Change{Type: Insert, Scope: ScopeEntity, Key: "a", To: IndexPath{}})

	consumer := &logConsumer{hold: true}
	AssertNil(tracker.Commit(consumer, nil))

	AssertTrue(tracker.Busy())
	_, err := tracker.Begin()
	AssertEqual(err, ErrEpisodeConflict)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	AssertEqual(tracker.Wait(ctx), context.DeadlineExceeded)

	go consumer.done(true)
	AssertNil(tracker.Wait(context.Background()))

	_, err = tracker.Begin()
	AssertNil(err)
}

func TestTracker_Rejection(t *testing.T) {

	tracker := NewTracker()
	batch, _ := tracker.Begin()
	batch.Record(Change{Type: Insert, Scope: ScopeEntity, Key: "a", To: IndexPath{}})

	consumer := &reloadConsumer{}
	err := tracker.Commit(consumer, nil)

	AssertEqual(err, ErrConsumerRejection)
	AssertEqual(consumer.calls, []string{"reload"})
	AssertFalse(tracker.Busy())
}
