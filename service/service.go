package service

import (
	"github.com/fulldump/listassistant/database"
	"github.com/fulldump/listassistant/document"
	"github.com/fulldump/listassistant/metrics"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateList(name string, options *document.Options, pageSize int) (*database.List, error) {
	return s.db.CreateList(name, options, pageSize)
}

func (s *Service) GetList(name string) (*database.List, error) {
	return s.db.GetList(name)
}

func (s *Service) ListLists() []*database.List {
	return s.db.Lists()
}

func (s *Service) DropList(name string) error {
	return s.db.DropList(name)
}

func (s *Service) Metrics() *metrics.Metrics {
	return s.db.Config.Metrics
}
