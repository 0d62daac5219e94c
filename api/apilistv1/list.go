package apilistv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/listassistant/database"
	"github.com/fulldump/listassistant/document"
)

type ListResponse struct {
	Name           string            `json:"name"`
	Options        *document.Options `json:"options"`
	PageSize       int               `json:"pageSize"`
	Total          int               `json:"total"`
	Sections       int               `json:"sections"`
	NextFetchIndex int               `json:"nextFetchIndex"`
	HasMorePages   bool              `json:"hasMorePages"`
}

func newListResponse(l *database.List) *ListResponse {
	documents := l.Documents()
	return &ListResponse{
		Name:           l.Name,
		Options:        l.Options,
		PageSize:       l.PageSize,
		Total:          documents.Count(),
		Sections:       documents.NumberOfSections(),
		NextFetchIndex: documents.NextFetchIndex(),
		HasMorePages:   documents.HasMorePages(),
	}
}

// getListFromUrl resolves the {listName} parameter.
func getListFromUrl(ctx context.Context) (*database.List, error) {
	listName := box.GetUrlParameter(ctx, "listName")
	return GetServicer(ctx).GetList(listName)
}
