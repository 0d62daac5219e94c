package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/fulldump/listassistant/document"
	"github.com/fulldump/listassistant/metrics"
	"github.com/fulldump/listassistant/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var ErrListNotFound = errors.New("list not found")
var ErrListAlreadyExists = errors.New("list already exists")

type Config struct {
	// Dir holds JSON lines files loaded as lists on start, one list per file.
	// Lists are never written back.
	Dir         string
	PageSize    int
	ReloadLimit int
	Metrics     *metrics.Metrics
}

type Database struct {
	Config *Config
	status string
	lists  *xsync.MapOf[string, *List]
	exit   chan struct{}
}

func NewDatabase(config *Config) *Database {
	if config.Metrics == nil {
		config.Metrics = metrics.New()
	}
	return &Database{
		Config: config,
		status: StatusOpening,
		lists:  xsync.NewMapOf[string, *List](),
		exit:   make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	return db.status
}

// CreateList registers an empty list. A negative pageSize takes the configured
// default.
func (db *Database) CreateList(name string, options *document.Options, pageSize int) (*List, error) {

	if pageSize < 0 {
		pageSize = db.Config.PageSize
	}

	list, err := NewList(name, options, pageSize, db.Config.ReloadLimit, db.Config.Metrics)
	if err != nil {
		return nil, err
	}

	_, exists := db.lists.LoadOrStore(name, list)
	if exists {
		return nil, fmt.Errorf("list '%s': %w", name, ErrListAlreadyExists)
	}
	db.Config.Metrics.Lists.Set(float64(db.lists.Size()))

	return list, nil
}

func (db *Database) GetList(name string) (*List, error) {
	list, exists := db.lists.Load(name)
	if !exists {
		return nil, fmt.Errorf("list '%s': %w", name, ErrListNotFound)
	}
	return list, nil
}

func (db *Database) DropList(name string) error {
	_, exists := db.lists.LoadAndDelete(name)
	if !exists {
		return fmt.Errorf("list '%s': %w", name, ErrListNotFound)
	}
	db.Config.Metrics.Lists.Set(float64(db.lists.Size()))
	db.Config.Metrics.Forget(name)
	return nil
}

// Lists returns every list sorted by name.
func (db *Database) Lists() []*List {
	byName := map[string]*List{}
	db.lists.Range(func(name string, list *List) bool {
		byName[name] = list
		return true
	})

	result := make([]*List, 0, len(byName))
	for _, name := range utils.GetKeys(byName) {
		result = append(result, byName[name])
	}
	return result
}

// Load creates one list per file found in Dir, named after the file without
// extension, and fetches its documents.
func (db *Database) Load() error {

	dir := db.Config.Dir
	if dir == "" {
		db.status = StatusOperating
		return nil
	}

	fmt.Printf("Loading lists from %s...\n", dir) // todo: move to logger
	err := filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.TrimPrefix(filename, dir)
		name = strings.TrimPrefix(name, "/")
		name = strings.TrimSuffix(name, filepath.Ext(name))

		t0 := time.Now()
		list, err := db.CreateList(name, nil, -1)
		if err != nil {
			return err
		}

		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = list.Fetch(f)
		if err != nil {
			fmt.Printf("ERROR: load list '%s': %s\n", filename, err.Error())
			return err
		}
		fmt.Println(name, list.Count(), time.Since(t0)) // todo: move to logger

		return nil
	})

	if err != nil {
		db.status = StatusClosing
		return err
	}

	db.status = StatusOperating

	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.status = StatusClosing

	// let consumers acknowledge their last batch
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var lastErr error
	for _, list := range db.Lists() {
		fmt.Printf("Closing '%s'...\n", list.Name)
		err := list.Documents().Wait(ctx)
		if err != nil {
			fmt.Printf("ERROR: close(%s): %s\n", list.Name, err.Error())
			lastErr = err
		}
	}

	return lastErr
}
