package service

import (
	"github.com/fulldump/listassistant/database"
	"github.com/fulldump/listassistant/document"
	"github.com/fulldump/listassistant/metrics"
)

var ErrorListNotFound = database.ErrListNotFound
var ErrorListAlreadyExists = database.ErrListAlreadyExists

type Servicer interface {
	CreateList(name string, options *document.Options, pageSize int) (*database.List, error)
	GetList(name string) (*database.List, error)
	ListLists() []*database.List
	DropList(name string) error
	Metrics() *metrics.Metrics
}
