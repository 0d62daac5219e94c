package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/database"
)

func nextPage(ctx context.Context) (*database.Episode, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return list.NextPage()
}
