package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/database"
)

type patchRequest struct {
	Filter map[string]any `json:"filter"`
	Patch  map[string]any `json:"patch"`
}

// patch merges Patch into every document matching Filter.
func patch(ctx context.Context, input *patchRequest) (*database.Episode, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return list.Patch(input.Filter, input.Patch)
}
