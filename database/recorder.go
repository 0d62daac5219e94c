package database

import (
	"sync"

	"github.com/fulldump/listassistant/changeset"
)

// Call is one consumer call as sent to HTTP clients. Paths and indexes follow
// the consumer contract: deletes and move sources are positions before the
// episode, everything else positions after it.
type Call struct {
	Op      string                `json:"op"`
	Paths   []changeset.IndexPath `json:"paths,omitempty"`
	Indexes []int                 `json:"indexes,omitempty"`
	From    any                   `json:"from,omitempty"`
	To      any                   `json:"to,omitempty"`
}

// Recorder is a consumer that keeps the calls of the last episode so they can
// be replayed by a remote client.
type Recorder struct {
	// Limit makes batches with more changes fall back to a reload. Zero
	// accepts any batch.
	Limit int

	mutex    sync.Mutex
	calls    []Call
	reloaded bool
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{
		Limit: limit,
	}
}

// Take returns the recorded calls and forgets them.
func (r *Recorder) Take() (calls []Call, reloaded bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	calls, reloaded = r.calls, r.reloaded
	if calls == nil {
		calls = []Call{}
	}
	r.calls, r.reloaded = nil, false
	return
}

func (r *Recorder) push(call Call) {
	r.mutex.Lock()
	r.calls = append(r.calls, call)
	r.mutex.Unlock()
}

func (r *Recorder) AcceptBatch(batch *changeset.Batch) bool {
	return r.Limit <= 0 || batch.Len() <= r.Limit
}

func (r *Recorder) ReloadData() {
	r.mutex.Lock()
	r.calls = nil
	r.reloaded = true
	r.mutex.Unlock()
}

func (r *Recorder) BeginUpdateEpisode() {
	r.mutex.Lock()
	r.calls = nil
	r.reloaded = false
	r.mutex.Unlock()
}

func (r *Recorder) ApplyEntityInsert(paths []changeset.IndexPath) {
	r.push(Call{Op: "entityInsert", Paths: paths})
}

func (r *Recorder) ApplyEntityDelete(paths []changeset.IndexPath) {
	r.push(Call{Op: "entityDelete", Paths: paths})
}

func (r *Recorder) ApplyEntityMove(from, to changeset.IndexPath) {
	r.push(Call{Op: "entityMove", From: from, To: to})
}

func (r *Recorder) ApplyEntityUpdate(path changeset.IndexPath) {
	r.push(Call{Op: "entityUpdate", Paths: []changeset.IndexPath{path}})
}

func (r *Recorder) ApplySectionInsert(indexes []int) {
	r.push(Call{Op: "sectionInsert", Indexes: indexes})
}

func (r *Recorder) ApplySectionDelete(indexes []int) {
	r.push(Call{Op: "sectionDelete", Indexes: indexes})
}

func (r *Recorder) ApplySectionMove(from, to int) {
	r.push(Call{Op: "sectionMove", From: from, To: to})
}

func (r *Recorder) ApplySectionUpdate(indexes []int) {
	r.push(Call{Op: "sectionUpdate", Indexes: indexes})
}

func (r *Recorder) CommitUpdateEpisode(done func(success bool)) {
	done(true)
}
