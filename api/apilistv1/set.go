package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/database"
)

type setRequest struct {
	Filter map[string]any `json:"filter"`
	Path   string         `json:"path"`
	Value  any            `json:"value"`
}

// set writes Value at Path in every document matching Filter.
func set(ctx context.Context, input *setRequest) (*database.Episode, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return list.Set(input.Filter, input.Path, input.Value)
}
