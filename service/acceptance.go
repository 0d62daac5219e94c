package service

import (
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// episodeBody drops the batch id, which is random.
func episodeBody(resp *apitest.Response) JSON {
	body := bodyMap(resp)
	delete(body, "id")
	return body
}

func bodyMap(resp *apitest.Response) JSON {
	body, _ := resp.BodyJson().(JSON)
	return body
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create list", func(a *biff.A) {
		resp := apiRequest("POST", "/lists").
			WithBodyJson(JSON{
				"name": "contacts",
				"options": JSON{
					"key":            "id",
					"sort":           []string{"name"},
					"section":        "name",
					"sectionInitial": true,
				},
			}).Do()
		Save(resp, "Create list", `
			Options choose the key, the sort fields and the field used to group
			documents in sections. With sectionInitial documents are grouped by
			the first letter of the section field.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		emptyList := JSON{
			"name": "contacts",
			"options": JSON{
				"key":            "id",
				"sort":           []string{"name"},
				"section":        "name",
				"sectionInitial": true,
				"sectionOrder":   "",
			},
			"pageSize":       0,
			"total":          0,
			"sections":       0,
			"nextFetchIndex": 0,
			"hasMorePages":   false,
		}
		biff.AssertEqualJson(resp.BodyJson(), emptyList)

		a.Alternative("Retrieve list", func(a *biff.A) {
			resp := apiRequest("GET", "/lists/contacts").Do()
			Save(resp, "Retrieve list", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), emptyList)
		})

		a.Alternative("List lists", func(a *biff.A) {
			resp := apiRequest("GET", "/lists").Do()
			Save(resp, "List lists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{emptyList})
		})

		a.Alternative("Create list twice", func(a *biff.A) {
			resp := apiRequest("POST", "/lists").
				WithBodyJson(JSON{
					"name": "contacts",
				}).Do()
			Save(resp, "Create list - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Drop list", func(a *biff.A) {
			resp := apiRequest("POST", "/lists/contacts:dropList").Do()
			Save(resp, "Drop list", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped list", func(a *biff.A) {
				resp := apiRequest("GET", "/lists/contacts").Do()
				Save(resp, "Get list - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"error": JSON{
						"message":     "list 'contacts': list not found",
						"description": "list not found",
					},
				})
			})
		})

		a.Alternative("Fetch", func(a *biff.A) {
			resp := apiRequest("POST", "/lists/contacts:fetch").
				WithBodyString(strings.Join([]string{
					`{"id":"1","name":"Bob"}`,
					`{"id":"2","name":"Alice"}`,
					`{"id":"3","name":"Carol"}`,
				}, "\n")).Do()
			Save(resp, "Fetch", `
				Fetch replaces every document of the list. Clients get no
				itemized changes, they must reload the whole list.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(episodeBody(resp), JSON{
				"reloaded": true,
				"changes":  []JSON{},
				"inserted": []string{"1", "2", "3"},
				"updated":  []string{},
				"deleted":  []string{},
				"missing":  []string{},
			})

			a.Alternative("Insert", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:insert").
					WithBodyJson(JSON{"id": "4", "name": "Aaron"}).Do()
				Save(resp, "Insert", `
					Every mutation answers with the changes a list view needs to
					apply, positions after the change.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp), JSON{
					"reloaded": false,
					"changes": []JSON{
						{"op": "entityInsert", "paths": []JSON{{"section": 0, "row": 0}}},
					},
					"inserted": []string{"4"},
					"updated":  []string{},
					"deleted":  []string{},
					"missing":  []string{},
				})

				a.Alternative("Find in section", func(a *biff.A) {
					resp := apiRequest("POST", "/lists/contacts:find").
						WithBodyJson(JSON{"section": "A"}).Do()
					Save(resp, "Find", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqual(resp.BodyString(), `{"id":"4","name":"Aaron"}`+"\n"+`{"id":"2","name":"Alice"}`+"\n")
				})

				a.Alternative("Find with filter", func(a *biff.A) {
					resp := apiRequest("POST", "/lists/contacts:find").
						WithBodyJson(JSON{
							"filter": JSON{"name": "Carol"},
						}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqual(resp.BodyString(), `{"id":"3","name":"Carol"}`+"\n")
				})

				a.Alternative("Sections", func(a *biff.A) {
					resp := apiRequest("POST", "/lists/contacts:sections").Do()
					Save(resp, "Sections", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), []JSON{
						{"name": "A", "title": "A", "indexTitle": "A", "total": 2},
						{"name": "B", "title": "B", "indexTitle": "B", "total": 1},
						{"name": "C", "title": "C", "indexTitle": "C", "total": 1},
					})
				})
			})

			a.Alternative("Patch moving to a new section", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:patch").
					WithBodyJson(JSON{
						"filter": JSON{"id": "3"},
						"patch":  JSON{"name": "Dave"},
					}).Do()
				Save(resp, "Patch", `
					Section C is left empty and removed, section D is created.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp), JSON{
					"reloaded": false,
					"changes": []JSON{
						{"op": "sectionDelete", "indexes": []int{2}},
						{"op": "sectionInsert", "indexes": []int{2}},
						{"op": "entityDelete", "paths": []JSON{{"section": 2, "row": 0}}},
						{"op": "entityInsert", "paths": []JSON{{"section": 2, "row": 0}}},
					},
					"inserted": []string{},
					"updated":  []string{"3"},
					"deleted":  []string{},
					"missing":  []string{},
				})
			})

			a.Alternative("Patch without changes", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:patch").
					WithBodyJson(JSON{
						"filter": JSON{"id": "3"},
						"patch":  JSON{"name": "Carol"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp)["changes"], []JSON{})
			})

			a.Alternative("Patch the key", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:patch").
					WithBodyJson(JSON{
						"filter": JSON{"id": "3"},
						"patch":  JSON{"id": "33"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Remove last of a section", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:remove").
					WithBodyJson(JSON{
						"keys": []string{"1", "99"},
					}).Do()
				Save(resp, "Remove", `
					Deletes are expressed with positions before the change.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp), JSON{
					"reloaded": false,
					"changes": []JSON{
						{"op": "sectionDelete", "indexes": []int{1}},
						{"op": "entityDelete", "paths": []JSON{{"section": 1, "row": 0}}},
					},
					"inserted": []string{},
					"updated":  []string{},
					"deleted":  []string{"1"},
					"missing":  []string{"99"},
				})
			})

			a.Alternative("Remove by filter", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:remove").
					WithBodyJson(JSON{
						"filter": JSON{"name": "Alice"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp)["deleted"], []string{"2"})
			})

			a.Alternative("Remove without criteria", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:remove").
					WithBodyJson(JSON{}).Do()
				Save(resp, "Remove - nothing to remove", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)

				resp = apiRequest("GET", "/lists/contacts").Do()
				biff.AssertEqualJson(bodyMap(resp)["total"], 3)
			})

			a.Alternative("Remove all", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:remove").
					WithBodyJson(JSON{"all": true}).Do()
				Save(resp, "Remove all", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(episodeBody(resp)["deleted"], []string{"2", "1", "3"})
			})

			a.Alternative("Set options", func(a *biff.A) {
				resp := apiRequest("POST", "/lists/contacts:setOptions").
					WithBodyJson(JSON{
						"sort":    []string{"-name"},
						"section": "",
					}).Do()
				Save(resp, "Set options", `
					Changing options invalidates the arrangement, the list must be
					fetched again before any other mutation.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)

				a.Alternative("Insert before fetch", func(a *biff.A) {
					resp := apiRequest("POST", "/lists/contacts:insert").
						WithBodyJson(JSON{"id": "5", "name": "Eve"}).Do()
					Save(resp, "Insert - options changed", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusUnprocessableEntity)
				})

				a.Alternative("Fetch again", func(a *biff.A) {
					resp := apiRequest("POST", "/lists/contacts:fetch").
						WithBodyString(`{"id":"1","name":"Bob"} {"id":"2","name":"Alice"}`).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusOK)

					resp = apiRequest("POST", "/lists/contacts:find").Do()
					biff.AssertEqual(resp.BodyString(), `{"id":"1","name":"Bob"}`+"\n"+`{"id":"2","name":"Alice"}`+"\n")
				})
			})
		})

		a.Alternative("Fetch invalid JSON", func(a *biff.A) {
			resp := apiRequest("POST", "/lists/contacts:fetch").
				WithBodyString(`{"id":"1",`).Do()
			Save(resp, "Fetch - invalid JSON", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Fetch without key", func(a *biff.A) {
			resp := apiRequest("POST", "/lists/contacts:fetch").
				WithBodyString(`{"name":"Nobody"}`).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Next page without pages", func(a *biff.A) {
			resp := apiRequest("POST", "/lists/contacts:nextPage").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})

	a.Alternative("Paginated list", func(a *biff.A) {
		resp := apiRequest("POST", "/lists").
			WithBodyJson(JSON{
				"name":     "numbers",
				"pageSize": 2,
			}).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		resp = apiRequest("POST", "/lists/numbers:fetch").
			WithBodyString(`{"id":"1"} {"id":"2"} {"id":"3"}`).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(episodeBody(resp)["inserted"], []string{"1", "2"})

		resp = apiRequest("GET", "/lists/numbers").Do()
		biff.AssertEqual(bodyMap(resp)["hasMorePages"], true)

		resp = apiRequest("POST", "/lists/numbers:nextPage").Do()
		Save(resp, "Next page", `
			Lists with a page size only load the first page on fetch.
		`)
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(episodeBody(resp)["changes"], []JSON{
			{"op": "entityInsert", "paths": []JSON{{"section": 0, "row": 2}}},
		})

		resp = apiRequest("GET", "/lists/numbers").Do()
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name":           "numbers",
			"options":        JSON{"key": "id", "sort": nil, "section": "", "sectionInitial": false, "sectionOrder": ""},
			"pageSize":       2,
			"total":          3,
			"sections":       1,
			"nextFetchIndex": 2,
			"hasMorePages":   false,
		})
	})

	a.Alternative("Insert creates the list", func(a *biff.A) {
		resp := apiRequest("POST", "/lists/auto:insert").
			WithBodyString(`{"id":"a"}`).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)

		resp = apiRequest("GET", "/lists/auto").Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(bodyMap(resp)["total"], 1)
	})
}
