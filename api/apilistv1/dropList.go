package apilistv1

import (
	"context"

	"github.com/fulldump/box"
)

func dropList(ctx context.Context) error {

	listName := box.GetUrlParameter(ctx, "listName")

	return GetServicer(ctx).DropList(listName)
}
