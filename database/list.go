package database

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fulldump/listassistant/assistant"
	"github.com/fulldump/listassistant/document"
	"github.com/fulldump/listassistant/metrics"
)

var ErrKeyImmutable = errors.New("list key can not be changed")
var ErrRemoveCriteria = errors.New("remove needs keys or a filter, use all to clear the list")

type Documents = assistant.Assistant[*document.Document]

// List is a named collection of JSON documents kept in order and sections by
// its options. Mutations are queued, one episode at a time.
type List struct {
	Name     string
	Options  *document.Options
	PageSize int

	mutex     sync.Mutex
	documents *Documents
	recorder  *Recorder
	metrics   *metrics.Metrics
}

// Episode is the result of one mutation as seen by HTTP clients.
type Episode struct {
	ID       string   `json:"id"`
	Reloaded bool     `json:"reloaded"`
	Changes  []Call   `json:"changes"`
	Inserted []string `json:"inserted"`
	Updated  []string `json:"updated"`
	Deleted  []string `json:"deleted"`
	Missing  []string `json:"missing"`
}

type SectionSummary struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	IndexTitle string `json:"indexTitle"`
	Total      int    `json:"total"`
}

func NewList(name string, options *document.Options, pageSize, reloadLimit int, m *metrics.Metrics) (*List, error) {

	if options == nil {
		options = document.NewOptions()
	}
	if options.Key == "" {
		options.Key = "id"
	}
	err := options.Validate()
	if err != nil {
		return nil, err
	}

	recorder := NewRecorder(reloadLimit)
	documents := assistant.New[*document.Document](recorder, options.Policy())
	err = documents.SetPageSize(pageSize)
	if err != nil {
		return nil, err
	}

	return &List{
		Name:      name,
		Options:   options,
		PageSize:  pageSize,
		documents: documents,
		recorder:  recorder,
		metrics:   m,
	}, nil
}

// Documents gives read access to the underlying assistant.
func (l *List) Documents() *Documents {
	return l.documents
}

func (l *List) run(operation string, f func() (*assistant.Report, error)) (*Episode, error) {

	l.mutex.Lock()
	defer l.mutex.Unlock()

	started := time.Now()
	report, err := f()
	if l.metrics != nil {
		l.metrics.ObserveEpisode(operation, started, report, err)
		l.metrics.SetEntities(l.Name, l.documents.Count())
	}
	calls, _ := l.recorder.Take()
	if err != nil {
		return nil, err
	}

	return &Episode{
		ID:       report.Batch.ID,
		Reloaded: report.Reloaded,
		Changes:  calls,
		Inserted: nonNil(report.Inserted),
		Updated:  nonNil(report.Updated),
		Deleted:  nonNil(report.Deleted),
		Missing:  nonNil(report.Missing),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (l *List) parse(r io.Reader) ([]*document.Document, error) {
	return document.ParseStream(l.Options.Key, r)
}

// Fetch replaces every document with the ones read from r.
func (l *List) Fetch(r io.Reader) (*Episode, error) {
	docs, err := l.parse(r)
	if err != nil {
		return nil, err
	}
	return l.run("fetch", func() (*assistant.Report, error) {
		return l.documents.Fetch(docs)
	})
}

// Insert merges the documents read from r.
func (l *List) Insert(r io.Reader) (*Episode, error) {
	docs, err := l.parse(r)
	if err != nil {
		return nil, err
	}
	return l.InsertDocuments(docs)
}

func (l *List) InsertDocuments(docs []*document.Document) (*Episode, error) {
	return l.run("insert", func() (*assistant.Report, error) {
		return l.documents.Insert(docs)
	})
}

func (l *List) NextPage() (*Episode, error) {
	return l.run("nextPage", func() (*assistant.Report, error) {
		return l.documents.FetchNextPage()
	})
}

// Patch merges patch into every document matching filter.
func (l *List) Patch(filter map[string]any, patch any) (*Episode, error) {
	return l.run("patch", func() (*assistant.Report, error) {
		var matchErr error
		report, err := l.documents.UpdateWhere(func(doc *document.Document) bool {
			if matchErr != nil {
				return false
			}
			match, err := doc.Match(filter)
			if err != nil {
				matchErr = err
			}
			return match
		}, func(doc *document.Document) (*document.Document, error) {
			return doc.Patch(l.Options.Key, patch)
		})
		if matchErr != nil {
			return nil, matchErr
		}
		return report, err
	})
}

// Set writes value at path, gjson syntax, in every document matching filter.
func (l *List) Set(filter map[string]any, path string, value any) (*Episode, error) {
	return l.run("set", func() (*assistant.Report, error) {
		var matchErr error
		report, err := l.documents.UpdateWhere(func(doc *document.Document) bool {
			if matchErr != nil {
				return false
			}
			match, err := doc.Match(filter)
			if err != nil {
				matchErr = err
			}
			return match
		}, func(doc *document.Document) (*document.Document, error) {
			return doc.Set(l.Options.Key, path, value)
		})
		if matchErr != nil {
			return nil, matchErr
		}
		return report, err
	})
}

// Remove deletes documents by key, or every document matching filter when no
// keys are given. Without keys or filter it fails with ErrRemoveCriteria;
// Clear removes everything.
func (l *List) Remove(filter map[string]any, keys []string) (*Episode, error) {
	if len(keys) == 0 && len(filter) == 0 {
		return nil, ErrRemoveCriteria
	}
	return l.run("remove", func() (*assistant.Report, error) {
		if len(keys) > 0 {
			return l.documents.Delete(keys...)
		}
		var matchErr error
		report, err := l.documents.DeleteWhere(func(doc *document.Document) bool {
			if matchErr != nil {
				return false
			}
			match, err := doc.Match(filter)
			if err != nil {
				matchErr = err
			}
			return match
		})
		if matchErr != nil {
			return nil, matchErr
		}
		return report, err
	})
}

// Clear removes every document, reporting each one as deleted.
func (l *List) Clear() (*Episode, error) {
	return l.run("clear", func() (*assistant.Report, error) {
		return l.documents.Clear()
	})
}

// SetOptions changes sorting and sections. Until the next Fetch every other
// mutation fails with assistant.ErrPolicyMisconfiguration.
func (l *List) SetOptions(options *document.Options) error {

	if options.Key == "" {
		options.Key = l.Options.Key
	}
	if options.Key != l.Options.Key {
		return fmt.Errorf("%w: from '%s' to '%s'", ErrKeyImmutable, l.Options.Key, options.Key)
	}
	err := options.Validate()
	if err != nil {
		return err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.Options = options
	l.documents.SetPolicy(options.Policy())

	return nil
}

// Find returns documents in display order. An empty section searches all of
// them.
func (l *List) Find(section string, filter map[string]any, skip, limit int) ([]*document.Document, error) {

	result := []*document.Document{}
	for _, info := range l.documents.Snapshot().Sections {
		if section != "" && info.Name != section {
			continue
		}
		for _, doc := range info.Entities {
			if limit == 0 {
				return result, nil
			}
			match, err := doc.Match(filter)
			if err != nil {
				return nil, err
			}
			if !match {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			limit--
			result = append(result, doc)
		}
	}

	return result, nil
}

func (l *List) Sections() []*SectionSummary {
	result := []*SectionSummary{}
	for _, info := range l.documents.Snapshot().Sections {
		result = append(result, &SectionSummary{
			Name:       info.Name,
			Title:      info.Title,
			IndexTitle: info.IndexTitle,
			Total:      len(info.Entities),
		})
	}
	return result
}

func (l *List) Count() int {
	return l.documents.Count()
}
