package apilistv1

import (
	"context"
)

func getList(ctx context.Context) (*ListResponse, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return newListResponse(list), nil
}
