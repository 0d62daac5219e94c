package changeset

// Consumer is the capability a presentation layer offers to receive batches.
//
// BeginUpdateEpisode and CommitUpdateEpisode bracket exactly one batch. Between
// them, deletes and move sources refer to the arrangement before the batch and
// inserts, move destinations and updates refer to the arrangement after it.
// Deletes arrive in descending order and inserts in ascending order, so
// applying removals one by one and then insertions one by one is safe.
// Rows of a deleted section are also listed as row deletes and rows of an
// inserted section as row inserts.
//
// CommitUpdateEpisode may call done asynchronously (an animated UI); no new
// batch is delivered until it does.
type Consumer interface {
	BeginUpdateEpisode()
	ApplyEntityInsert(paths []IndexPath)
	ApplyEntityDelete(paths []IndexPath)
	ApplyEntityMove(from, to IndexPath)
	ApplyEntityUpdate(path IndexPath)
	ApplySectionInsert(indexes []int)
	ApplySectionDelete(indexes []int)
	ApplySectionMove(from, to int)
	ApplySectionUpdate(indexes []int)
	CommitUpdateEpisode(done func(success bool))
}

// ReloadConsumer is a Consumer that can refuse itemized batches and redraw
// everything from the current snapshot instead.
type ReloadConsumer interface {
	Consumer
	AcceptBatch(batch *Batch) bool
	ReloadData()
}

// Discard accepts every batch and does nothing with it.
var Discard Consumer = discard{}

type discard struct{}

func (discard) BeginUpdateEpisode() {}
func (discard) ApplyEntityInsert(paths []IndexPath) {}
func (discard) ApplyEntityDelete(paths []IndexPath) {}
func (discard) ApplyEntityMove(from, to IndexPath) {}
func (discard) ApplyEntityUpdate(path IndexPath) {}
func (discard) ApplySectionInsert(indexes []int) {}
func (discard) ApplySectionDelete(indexes []int) {}
func (discard) ApplySectionMove(from, to int) {}
func (discard) ApplySectionUpdate(indexes []int) {}
func (discard) CommitUpdateEpisode(done func(success bool)) {
	done(true)
}
