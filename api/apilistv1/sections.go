package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/database"
)

func sections(ctx context.Context) ([]*database.SectionSummary, error) {

	list, err := getListFromUrl(ctx)
	if err != nil {
		return nil, err
	}

	return list.Sections(), nil
}
