package apilistv1

import (
	"context"
	"errors"
	"net/http"

	"github.com/fulldump/listassistant/document"
)

var ErrNameRequired = errors.New("name is required")

type createListRequest struct {
	Name     string            `json:"name"`
	Options  *document.Options `json:"options"`
	PageSize *int              `json:"pageSize"` // omitted takes the server default
}

func createList(ctx context.Context, w http.ResponseWriter, input *createListRequest) (*ListResponse, error) {

	if input.Name == "" {
		return nil, ErrNameRequired
	}

	pageSize := -1
	if input.PageSize != nil {
		pageSize = *input.PageSize
	}

	list, err := GetServicer(ctx).CreateList(input.Name, input.Options, pageSize)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newListResponse(list), nil
}
