package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/database"
)

type removeRequest struct {
	Filter map[string]any `json:"filter"`
	Keys   []string       `json:"keys"`
	All    bool           `json:"all"` // removes every document, ignores Filter and Keys
}

func remove(ctx context.Context, input *removeRequest) (*database.Episode, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	if input.All {
		return list.Clear()
	}

	return list.Remove(input.Filter, input.Keys)
}
