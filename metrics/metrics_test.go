package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/fulldump/biff"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fulldump/listassistant/assistant"
	"github.com/fulldump/listassistant/changeset"
)

func TestObserveEpisode(t *testing.T) {

	m := New()

	batch := changeset.NewBatch()
	batch.Record(
		changeset.Change{Type: changeset.Insert, Scope: changeset.ScopeEntity, Key: "a"},
		changeset.Change{Type: changeset.Insert, Scope: changeset.ScopeEntity, Key: "b"},
		changeset.Change{Type: changeset.Insert, Scope: changeset.ScopeSection, Key: "A"},
	)

	m.ObserveEpisode("insert", time.Now(), &assistant.Report{Batch: batch}, nil)
	m.ObserveEpisode("insert", time.Now(), nil, assistant.ErrEpisodeConflict)
	m.ObserveEpisode("patch", time.Now(), nil, errors.New("boom"))
	m.ObserveEpisode("fetch", time.Now(), &assistant.Report{Reloaded: true}, nil)

	AssertEqual(testutil.ToFloat64(m.Episodes.WithLabelValues("insert", "ok")), 1.0)
	AssertEqual(testutil.ToFloat64(m.Episodes.WithLabelValues("insert", "conflict")), 1.0)
	AssertEqual(testutil.ToFloat64(m.Episodes.WithLabelValues("patch", "error")), 1.0)
	AssertEqual(testutil.ToFloat64(m.Episodes.WithLabelValues("fetch", "reload")), 1.0)
	AssertEqual(testutil.ToFloat64(m.Changes.WithLabelValues("entity", "insert")), 2.0)
	AssertEqual(testutil.ToFloat64(m.Changes.WithLabelValues("section", "insert")), 1.0)
}

func TestHandler(t *testing.T) {

	m := New()
	m.Lists.Set(3)
	m.SetEntities("fruits", 12)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	AssertTrue(strings.Contains(body, "listassistant_lists 3"))
	AssertTrue(strings.Contains(body, `listassistant_entities{list="fruits"} 12`))

	m.Forget("fruits")
	AssertEqual(testutil.CollectAndCount(m.Entities), 0)
}
