package apilistv1

import (
	"context"
	"errors"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/listassistant/database"
	"github.com/fulldump/listassistant/service"
)

// insert merges the JSON objects of the body. The list is created with default
// options when it does not exist.
func insert(ctx context.Context, r *http.Request) (*database.Episode, error) {

	s := GetServicer(ctx)
	listName := box.GetUrlParameter(ctx, "listName")
	list, err := s.GetList(listName)
	if errors.Is(err, service.ErrorListNotFound) {
		list, err = s.CreateList(listName, nil, -1)
	}
	if err != nil {
		return nil, err
	}

	return list.Insert(r.Body)
}
