package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/fulldump/listassistant/changeset"
)

// Report describes the outcome of one mutation episode.
type Report struct {
	Batch    *changeset.Batch
	Reloaded bool     // the consumer got ReloadData instead of itemized changes
	Inserted []string // new keys
	Updated  []string // existing keys written again, changed or not
	Deleted  []string
	Missing  []string // keys or paths that did not resolve to an entity
}

// Assistant keeps a sectioned, ordered collection of entities and tells its
// consumer how the arrangement changes after every mutation.
//
// Mutations are single writer: a mutation started while another episode is
// open, or while its batch is not yet acknowledged by the consumer, fails with
// ErrEpisodeConflict. Readers may use the accessors at any time, they always
// see the last committed snapshot.
type Assistant[E Entity] struct {
	consumer changeset.Consumer
	tracker  *changeset.Tracker

	mutex         sync.Mutex
	policy        Policy[E]
	state         *state[E]
	snapshot      atomic.Pointer[Snapshot[E]]
	fetched       bool
	misconfigured bool

	pageSize       int
	pending        []E
	nextFetchIndex int
}

// New returns an empty assistant. A nil consumer discards every batch.
func New[E Entity](consumer changeset.Consumer, policy Policy[E]) *Assistant[E] {

	if consumer == nil {
		consumer = changeset.Discard
	}

	a := &Assistant[E]{
		consumer: consumer,
		tracker:  changeset.NewTracker(),
		policy:   policy,
		state:    newState(policy),
	}
	a.snapshot.Store(emptySnapshot[E]())

	return a
}

// SetPolicy replaces the placement policy. Once the assistant has fetched,
// existing placement is no longer valid and every mutation but Fetch fails
// with ErrPolicyMisconfiguration.
func (a *Assistant[E]) SetPolicy(policy Policy[E]) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.policy = policy
	if a.fetched {
		a.misconfigured = true
		return
	}
	a.state = newState(policy)
}

// SetPageSize enables pagination. Zero disables it.
func (a *Assistant[E]) SetPageSize(size int) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.fetched || size < 0 {
		return ErrPageSize
	}
	a.pageSize = size
	return nil
}

// NextFetchIndex is the number of pages loaded so far when paginated, 0
// otherwise.
func (a *Assistant[E]) NextFetchIndex() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.nextFetchIndex
}

// HasMorePages reports whether Fetch retained records not yet loaded.
func (a *Assistant[E]) HasMorePages() bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.pending) > 0
}

// Wait blocks until the consumer acknowledges the last batch.
func (a *Assistant[E]) Wait(ctx context.Context) error {
	return a.tracker.Wait(ctx)
}

// Busy reports whether a new mutation would fail with ErrEpisodeConflict.
func (a *Assistant[E]) Busy() bool {
	return a.tracker.Busy()
}

// Fetch replaces the whole collection. The consumer is asked to reload instead
// of receiving itemized changes. With a page size only the first page is
// loaded, the rest is kept for FetchNextPage.
func (a *Assistant[E]) Fetch(records []E) (*Report, error) {

	batch, err := a.tracker.Begin()
	if err != nil {
		return nil, err
	}
	defer a.tracker.Discard()

	a.mutex.Lock()

	page, rest := records, []E(nil)
	if a.pageSize > 0 && len(records) > a.pageSize {
		page, rest = records[:a.pageSize], records[a.pageSize:]
	}

	report := &Report{Batch: batch, Reloaded: true}
	working := newState(a.policy)
	for _, record := range page {
		if working.put(record) {
			report.Inserted = append(report.Inserted, record.UniqueValue())
		}
	}

	a.state = working
	a.snapshot.Store(working.freeze())
	a.fetched = true
	a.misconfigured = false
	a.pending = append([]E(nil), rest...)
	a.nextFetchIndex = 0
	if a.pageSize > 0 {
		a.nextFetchIndex = 1
	}
	a.mutex.Unlock()

	changeset.Reload(a.consumer)

	return report, nil
}

// Insert merges records into the collection. A record whose key already exists
// replaces the stored entity. Within one call the last record of a key wins.
// When paginated every call counts as one page.
func (a *Assistant[E]) Insert(records []E) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		a.insert(s, report, records)
		if a.pageSize > 0 {
			a.nextFetchIndex++
		}
		return nil
	})
}

// FetchNextPage inserts the next page retained by Fetch.
func (a *Assistant[E]) FetchNextPage() (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		if len(a.pending) == 0 {
			return ErrNoMorePages
		}
		page := a.pending
		if len(page) > a.pageSize {
			page = page[:a.pageSize]
		}
		a.pending = a.pending[len(page):]
		a.nextFetchIndex++
		a.insert(s, report, page)
		return nil
	})
}

func (a *Assistant[E]) insert(s *state[E], report *Report, records []E) {
	seen := map[string]bool{}
	for _, record := range records {
		key := record.UniqueValue()
		isNew := s.put(record)
		if seen[key] {
			continue
		}
		seen[key] = true
		if isNew {
			report.Inserted = append(report.Inserted, key)
		} else {
			report.Updated = append(report.Updated, key)
		}
	}
}

// Update replaces the entity with the result of mutate. mutate must return a
// new value with the same key instead of modifying its argument, otherwise the
// change can not be detected.
func (a *Assistant[E]) Update(key string, mutate func(E) (E, error)) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		current, exists := s.get(key)
		if !exists {
			return fmt.Errorf("update '%s': %w", key, ErrNotFound)
		}
		return a.update(s, report, current, mutate)
	})
}

// UpdateWhere applies mutate to every entity accepted by match.
func (a *Assistant[E]) UpdateWhere(match func(E) bool, mutate func(E) (E, error)) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		for _, current := range a.Entities() {
			if !match(current) {
				continue
			}
			err := a.update(s, report, current, mutate)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Assistant[E]) update(s *state[E], report *Report, current E, mutate func(E) (E, error)) error {
	key := current.UniqueValue()
	next, err := mutate(current)
	if err != nil {
		return fmt.Errorf("update '%s': %w", key, err)
	}
	if next.UniqueValue() != key {
		return fmt.Errorf("update '%s': %w", key, ErrKeyChanged)
	}
	s.put(next)
	report.Updated = append(report.Updated, key)
	return nil
}

// Delete removes entities by key. Unknown keys are reported as missing.
func (a *Assistant[E]) Delete(keys ...string) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		for _, key := range keys {
			a.remove(s, report, key)
		}
		return nil
	})
}

// DeleteAt removes the entities found at paths of the current snapshot.
func (a *Assistant[E]) DeleteAt(paths ...IndexPath) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		for _, path := range paths {
			entity, found := a.Entity(path)
			if !found {
				report.Missing = append(report.Missing, path.String())
				continue
			}
			a.remove(s, report, entity.UniqueValue())
		}
		return nil
	})
}

// DeleteWhere removes every entity accepted by match.
func (a *Assistant[E]) DeleteWhere(match func(E) bool) (*Report, error) {
	return a.episode(func(s *state[E], report *Report) error {
		for _, entity := range a.Entities() {
			if match(entity) {
				a.remove(s, report, entity.UniqueValue())
			}
		}
		return nil
	})
}

// Clear removes everything, reporting every section and entity as deleted.
func (a *Assistant[E]) Clear() (*Report, error) {
	return a.DeleteWhere(func(E) bool { return true })
}

func (a *Assistant[E]) remove(s *state[E], report *Report, key string) {
	if s.remove(key) {
		report.Deleted = append(report.Deleted, key)
	} else {
		report.Missing = append(report.Missing, key)
	}
}

// episode runs mutate against a copy of the working state, diffs the result
// and commits the batch. Any failure leaves the collection untouched.
func (a *Assistant[E]) episode(mutate func(s *state[E], report *Report) error) (*Report, error) {

	batch, err := a.tracker.Begin()
	if err != nil {
		return nil, err
	}

	a.mutex.Lock()

	if a.misconfigured {
		a.mutex.Unlock()
		a.tracker.Discard()
		return nil, ErrPolicyMisconfiguration
	}

	pending, nextFetchIndex := a.pending, a.nextFetchIndex
	rollback := func() {
		a.pending, a.nextFetchIndex = pending, nextFetchIndex
		a.mutex.Unlock()
		a.tracker.Discard()
	}

	report := &Report{Batch: batch}
	working := a.state.clone()
	err = mutate(working, report)
	if err != nil {
		rollback()
		return nil, err
	}

	previous := a.snapshot.Load()
	next := working.freeze()
	before, after := previous.Arrangement(), next.Arrangement()

	changes := changeset.Diff(before, after, func(key string) bool {
		was, _ := previous.Get(key)
		is, _ := next.Get(key)
		return !a.policy.equal(was, is)
	})

	replayed, err := changeset.Apply(before, changes)
	if err == nil && !replayed.Equal(after) {
		err = ErrInconsistentBatch
	}
	if err != nil {
		log.Println("ERROR: batch", batch.ID, "does not reproduce the new arrangement:", err)
		rollback()
		return nil, err
	}

	batch.Record(changes...)
	a.state = working
	a.snapshot.Store(next)
	a.mutex.Unlock()

	// consumer callbacks run unlocked, the tracker keeps rejecting new episodes
	err = a.tracker.Commit(a.consumer, nil)
	if errors.Is(err, ErrConsumerRejection) {
		report.Reloaded = true
		err = nil
	}

	return report, err
}

// Snapshot returns the last committed snapshot.
func (a *Assistant[E]) Snapshot() *Snapshot[E] {
	return a.snapshot.Load()
}

func (a *Assistant[E]) NumberOfSections() int {
	return a.Snapshot().NumberOfSections()
}

func (a *Assistant[E]) NumberOfEntities(section int) int {
	return a.Snapshot().NumberOfEntities(section)
}

func (a *Assistant[E]) Entity(path IndexPath) (E, bool) {
	return a.Snapshot().Entity(path)
}

func (a *Assistant[E]) Section(i int) (*SectionInfo[E], bool) {
	return a.Snapshot().Section(i)
}

func (a *Assistant[E]) IndexPathOf(key string) (IndexPath, bool) {
	return a.Snapshot().IndexPathOf(key)
}

func (a *Assistant[E]) Get(key string) (E, bool) {
	return a.Snapshot().Get(key)
}

func (a *Assistant[E]) Entities() []E {
	return a.Snapshot().Entities()
}

func (a *Assistant[E]) Count() int {
	return a.Snapshot().Count()
}

func (a *Assistant[E]) IsEmpty() bool {
	return a.Snapshot().IsEmpty()
}

func (a *Assistant[E]) SectionIndexTitles() []string {
	return a.Snapshot().SectionIndexTitles()
}

func (a *Assistant[E]) SectionIndex(title string) (int, bool) {
	return a.Snapshot().SectionIndex(title)
}
