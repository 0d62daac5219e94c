package document

import (
	"fmt"

	"github.com/SierraSoftworks/connor"
)

// Match evaluates a mongo like filter against the document. An empty filter
// matches everything.
func (d *Document) Match(filter map[string]any) (bool, error) {

	if len(filter) == 0 {
		return true, nil
	}

	data, err := d.Map()
	if err != nil {
		return false, err
	}

	match, err := connor.Match(filter, data)
	if err != nil {
		return false, fmt.Errorf("match: %w", err)
	}

	return match, nil
}
