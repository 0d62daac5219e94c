package changeset

import "sync"

// Mirror is a ReloadConsumer that keeps its own copy of the arrangement by
// replaying batches the way a list view does: it only receives indexes and
// reads keys and titles of inserted items from source, which already holds
// the arrangement after the episode.
type Mirror struct {
	// Limit makes the mirror refuse batches longer than Limit. Zero accepts any.
	Limit int

	mutex   sync.Mutex
	source  func() Arrangement
	current Arrangement
	pending []Change
	open    bool
	err     error

	Episodes int
	Reloads  int
}

func NewMirror(source func() Arrangement) *Mirror {
	return &Mirror{
		source:  source,
		current: source().Clone(),
	}
}

func (m *Mirror) Arrangement() Arrangement {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current.Clone()
}

// Err returns the error of the last batch that could not be applied.
func (m *Mirror) Err() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.err
}

func (m *Mirror) AcceptBatch(batch *Batch) bool {
	return m.Limit <= 0 || batch.Len() <= m.Limit
}

func (m *Mirror) ReloadData() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.current = m.source().Clone()
	m.Reloads++
}

func (m *Mirror) BeginUpdateEpisode() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pending = nil
	m.open = true
}

func (m *Mirror) ApplyEntityInsert(paths []IndexPath) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	after := m.source()
	for _, p := range paths {
		m.push(Change{Type: Insert, Scope: ScopeEntity, Key: rowKey(after, p), To: p})
	}
}

func (m *Mirror) ApplyEntityDelete(paths []IndexPath) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, p := range paths {
		m.push(Change{Type: Delete, Scope: ScopeEntity, Key: rowKey(m.current, p), From: p})
	}
}

func (m *Mirror) ApplyEntityMove(from, to IndexPath) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.push(Change{Type: Move, Scope: ScopeEntity, Key: rowKey(m.current, from), From: from, To: to})
}

func (m *Mirror) ApplyEntityUpdate(path IndexPath) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.push(Change{Type: Update, Scope: ScopeEntity, Key: rowKey(m.source(), path), To: path})
}

func (m *Mirror) ApplySectionInsert(indexes []int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	after := m.source()
	for _, i := range indexes {
		key, title := sectionKey(after, i)
		m.push(Change{Type: Insert, Scope: ScopeSection, Key: key, Title: title, To: IndexPath{Section: i}})
	}
}

func (m *Mirror) ApplySectionDelete(indexes []int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, i := range indexes {
		key, _ := sectionKey(m.current, i)
		m.push(Change{Type: Delete, Scope: ScopeSection, Key: key, From: IndexPath{Section: i}})
	}
}

func (m *Mirror) ApplySectionMove(from, to int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	key, _ := sectionKey(m.current, from)
	_, title := sectionKey(m.source(), to)
	m.push(Change{Type: Move, Scope: ScopeSection, Key: key, Title: title, From: IndexPath{Section: from}, To: IndexPath{Section: to}})
}

func (m *Mirror) ApplySectionUpdate(indexes []int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	after := m.source()
	for _, i := range indexes {
		key, title := sectionKey(after, i)
		m.push(Change{Type: Update, Scope: ScopeSection, Key: key, Title: title, To: IndexPath{Section: i}})
	}
}

func (m *Mirror) CommitUpdateEpisode(done func(success bool)) {
	m.mutex.Lock()
	result, err := Apply(m.current, m.pending)
	m.pending = nil
	m.open = false
	m.err = err
	if err == nil {
		m.current = result
		m.Episodes++
	}
	m.mutex.Unlock()

	done(err == nil)
}

func (m *Mirror) push(change Change) {
	if !m.open {
		m.err = ErrInconsistentBatch
		return
	}
	m.pending = append(m.pending, change)
}

func rowKey(a Arrangement, p IndexPath) string {
	if !validRow(a, p) {
		return ""
	}
	return a[p.Section].Rows[p.Row]
}

func sectionKey(a Arrangement, i int) (key, title string) {
	if !validSection(a, i) {
		return "", ""
	}
	return a[i].Key, a[i].Title
}
