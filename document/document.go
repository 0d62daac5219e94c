package document

import (
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	jsonpatch "github.com/evanphx/json-patch"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrInvalidJSON = errors.New("invalid json document")
var ErrMissingKey = errors.New("document has no key")

// Document is a JSON object stored in a list. Payload is kept in canonical
// form so Sum only changes when the content does.
type Document struct {
	Key     string
	Payload jsontext.Value
	Sum     uint64
}

func (d *Document) UniqueValue() string {
	return d.Key
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Payload, nil
}

// Get reads a field using gjson path syntax.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.Payload, path)
}

// Map decodes the payload into a generic map.
func (d *Document) Map() (map[string]any, error) {
	result := map[string]any{}
	err := json2.Unmarshal(d.Payload, &result)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", d.Key, err)
	}
	return result, nil
}

// Parse builds a document from raw JSON. The key is read from keyPath.
func Parse(keyPath string, raw []byte) (*Document, error) {

	payload := jsontext.Value(append([]byte(nil), raw...))
	if err := payload.Canonicalize(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, err.Error())
	}
	if payload.Kind() != '{' {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrInvalidJSON, payload.Kind())
	}

	key := gjson.GetBytes(payload, keyPath)
	if !key.Exists() || key.String() == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrMissingKey, keyPath)
	}

	return &Document{
		Key:     key.String(),
		Payload: payload,
		Sum:     xxhash.Sum64(payload),
	}, nil
}

// ParseStream reads a sequence of JSON objects, one after the other, as sent
// by streaming clients.
func ParseStream(keyPath string, r io.Reader) ([]*Document, error) {

	decoder := jsontext.NewDecoder(r)
	result := []*Document{}
	for {
		value, err := decoder.ReadValue()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, err.Error())
		}
		doc, err := Parse(keyPath, value)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(result), err)
		}
		result = append(result, doc)
	}
}

// Patch returns a new document with patch merged into it (RFC 7386). The key
// can not be changed.
func (d *Document) Patch(keyPath string, patch any) (*Document, error) {

	patchBytes, err := json2.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	payload, err := jsonpatch.MergePatch(d.Payload, patchBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot apply patch: %w", err)
	}

	return Parse(keyPath, payload)
}

// Set returns a new document with one field replaced.
func (d *Document) Set(keyPath, path string, value any) (*Document, error) {

	payload, err := sjson.SetBytes(d.Payload, path, value)
	if err != nil {
		return nil, fmt.Errorf("set '%s': %w", path, err)
	}

	return Parse(keyPath, payload)
}
