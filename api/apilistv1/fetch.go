package apilistv1

import (
	"context"
	"net/http"

	"github.com/fulldump/listassistant/database"
)

// fetch replaces the documents of the list with the JSON objects of the body.
func fetch(ctx context.Context, r *http.Request) (*database.Episode, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return list.Fetch(r.Body)
}
