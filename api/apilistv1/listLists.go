package apilistv1

import (
	"context"
)

func listLists(ctx context.Context) ([]*ListResponse, error) {

	result := []*ListResponse{}
	for _, list := range GetServicer(ctx).ListLists() {
		result = append(result, newListResponse(list))
	}

	return result, nil
}
