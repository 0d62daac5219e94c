package apilistv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/listassistant/service"
)

func BuildV1List(v1 *box.R, s service.Servicer) *box.R {

	lists := v1.Resource("/lists").
		WithActions(
			box.Get(listLists),
			box.Post(createList),
		)

	v1.Resource("/lists/{listName}").
		WithActions(
			box.Get(getList),
			box.ActionPost(fetch),
			box.ActionPost(insert),
			box.ActionPost(nextPage),
			box.ActionPost(patch),
			box.ActionPost(set),
			box.ActionPost(remove),
			box.ActionPost(find),
			box.ActionPost(sections),
			box.ActionPost(setOptions),
			box.ActionPost(dropList),
		)

	return lists
}
