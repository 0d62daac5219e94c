package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/document"
)

// setOptions changes sorting and sections. The list must be fetched again
// before any other mutation.
func setOptions(ctx context.Context, input *document.Options) (*ListResponse, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	err = list.SetOptions(input)
	if err != nil {
		return nil, err
	}

	return newListResponse(list), nil
}
