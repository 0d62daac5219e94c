package changeset

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrEpisodeConflict = errors.New("another update episode is in progress")
var ErrConsumerRejection = errors.New("consumer rejected the batch, data reloaded")

// Batch collects the changes of one update episode.
type Batch struct {
	ID         string
	log        []Change
	partitions [partitions][]Change
}

func NewBatch() *Batch {
	return &Batch{
		ID: uuid.NewString(),
	}
}

func (b *Batch) Record(changes ...Change) {
	for _, change := range changes {
		b.log = append(b.log, change)
		p := change.partition()
		b.partitions[p] = append(b.partitions[p], change)
	}
}

// Log returns the changes in the order they were recorded.
func (b *Batch) Log() []Change {
	return append([]Change(nil), b.log...)
}

// Changes returns the changes in replay order.
func (b *Batch) Changes() []Change {
	return Sort(b.log)
}

func (b *Batch) Len() int {
	return len(b.log)
}

func (b *Batch) IsEmpty() bool {
	return len(b.log) == 0
}

func (b *Batch) Count(scope Scope, t Type) int {
	return len(b.partitions[Change{Scope: scope, Type: t}.partition()])
}

// Tracker opens update episodes and delivers their batches. Only one episode
// exists at a time: from Begin until the consumer acknowledges the commit.
type Tracker struct {
	mutex     sync.Mutex
	open      *Batch
	delivered chan struct{} // closed when the consumer acknowledges, nil when idle
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Begin() (*Batch, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.open != nil || t.delivered != nil {
		return nil, ErrEpisodeConflict
	}
	t.open = NewBatch()
	return t.open, nil
}

// Busy reports whether an episode is open or its delivery is not acknowledged.
func (t *Tracker) Busy() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.open != nil || t.delivered != nil
}

// Discard drops the open episode without notifying anyone.
func (t *Tracker) Discard() {
	t.mutex.Lock()
	t.open = nil
	t.mutex.Unlock()
}

// Wait blocks until the last delivered batch is acknowledged.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mutex.Lock()
	delivered := t.delivered
	t.mutex.Unlock()

	if delivered == nil {
		return nil
	}

	select {
	case <-delivered:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Commit closes the open episode and replays its batch through consumer inside
// a single begin/commit bracket. done receives the consumer acknowledgment.
//
// An empty batch is committed without calling the consumer. A ReloadConsumer
// that does not accept the batch gets ReloadData instead, and Commit returns
// ErrConsumerRejection.
func (t *Tracker) Commit(consumer Consumer, done func(success bool)) error {

	t.mutex.Lock()
	batch := t.open
	t.open = nil
	if batch == nil {
		t.mutex.Unlock()
		return errors.New("commit: no episode open")
	}
	if consumer == nil || batch.IsEmpty() {
		t.mutex.Unlock()
		if done != nil {
			done(true)
		}
		return nil
	}
	if reloader, ok := consumer.(ReloadConsumer); ok && !reloader.AcceptBatch(batch) {
		t.mutex.Unlock()
		reloader.ReloadData()
		if done != nil {
			done(true)
		}
		return ErrConsumerRejection
	}
	delivered := make(chan struct{})
	t.delivered = delivered
	t.mutex.Unlock()

	once := &sync.Once{}
	acknowledge := func(success bool) {
		once.Do(func() {
			t.mutex.Lock()
			if t.delivered == delivered {
				t.delivered = nil
			}
			t.mutex.Unlock()
			close(delivered)
			if done != nil {
				done(success)
			}
		})
	}

	consumer.BeginUpdateEpisode()
	replay(batch, consumer)
	consumer.CommitUpdateEpisode(acknowledge)

	return nil
}

// Reload notifies consumer that everything changed, when it supports it.
func Reload(consumer Consumer) {
	if reloader, ok := consumer.(ReloadConsumer); ok {
		reloader.ReloadData()
	}
}

func replay(batch *Batch, consumer Consumer) {

	changes := batch.Changes()
	for len(changes) > 0 {
		// group the run of changes sharing a partition
		n := 1
		for n < len(changes) && changes[n].partition() == changes[0].partition() {
			n++
		}
		group := changes[:n]
		changes = changes[n:]

		first := group[0]
		switch {
		case first.Scope == ScopeSection && first.Type == Delete:
			consumer.ApplySectionDelete(sectionIndexes(group, false))
		case first.Scope == ScopeSection && first.Type == Insert:
			consumer.ApplySectionInsert(sectionIndexes(group, true))
		case first.Scope == ScopeSection && first.Type == Update:
			consumer.ApplySectionUpdate(sectionIndexes(group, true))
		case first.Scope == ScopeEntity && first.Type == Delete:
			consumer.ApplyEntityDelete(paths(group, false))
		case first.Scope == ScopeEntity && first.Type == Insert:
			consumer.ApplyEntityInsert(paths(group, true))
		default:
			for _, change := range group {
				switch {
				case change.Scope == ScopeSection && change.Type == Move:
					consumer.ApplySectionMove(change.From.Section, change.To.Section)
				case change.Type == Move:
					consumer.ApplyEntityMove(change.From, change.To)
				default:
					consumer.ApplyEntityUpdate(change.To)
				}
			}
		}
	}
}

func sectionIndexes(changes []Change, after bool) []int {
	result := make([]int, len(changes))
	for i, change := range changes {
		if after {
			result[i] = change.To.Section
		} else {
			result[i] = change.From.Section
		}
	}
	return result
}

func paths(changes []Change, after bool) []IndexPath {
	result := make([]IndexPath, len(changes))
	for i, change := range changes {
		if after {
			result[i] = change.To
		} else {
			result[i] = change.From
		}
	}
	return result
}
