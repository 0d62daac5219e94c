package apilistv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type findRequest struct {
	Section string         `json:"section"`
	Filter  map[string]any `json:"filter"`
	Skip    int            `json:"skip"`
	Limit   int            `json:"limit"`
}

// find writes the matching documents in display order, one per line.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &findRequest{
		Limit: 100,
	}
	err := json.NewDecoder(r.Body).Decode(input)
	if err != nil && err != io.EOF {
		return err
	}

	list, err := getListFromUrl(ctx)
	if err != nil {
		return err
	}

	docs, err := list.Find(input.Section, input.Filter, input.Skip, input.Limit)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		w.Write(doc.Payload)
		w.Write([]byte("\n"))
	}

	return nil
}
