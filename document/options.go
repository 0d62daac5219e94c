package document

import (
	"errors"
	"strings"

	"github.com/fulldump/listassistant/assistant"
)

var ErrSectionOrder = errors.New("section order must be 'asc' or 'desc'")

// Options configure how documents of a list are keyed, sorted and grouped.
// Paths use gjson syntax.
type Options struct {
	Key            string   `json:"key"`
	Sort           []string `json:"sort"` // "-field" sorts descending
	Section        string   `json:"section"`
	SectionInitial bool     `json:"sectionInitial"` // group by the first letter of Section
	SectionOrder   string   `json:"sectionOrder"`
}

func NewOptions() *Options {
	return &Options{
		Key: "id",
	}
}

func (o *Options) Validate() error {
	switch o.SectionOrder {
	case "", "asc", "desc":
	default:
		return ErrSectionOrder
	}
	return nil
}

type sortField struct {
	path    string
	reverse bool
}

// Policy translates the options into an assistant policy.
func (o *Options) Policy() assistant.Policy[*Document] {

	policy := assistant.Policy[*Document]{
		Equal: func(a, b *Document) bool {
			return a.Sum == b.Sum
		},
	}

	fields := []sortField{}
	for _, field := range o.Sort {
		if strings.HasPrefix(field, "-") {
			fields = append(fields, sortField{path: field[1:], reverse: true})
			continue
		}
		fields = append(fields, sortField{path: field})
	}
	if len(fields) > 0 {
		policy.SortEntities = func(a, b *Document) bool {
			for _, field := range fields {
				x, y := a.Get(field.path), b.Get(field.path)
				if field.reverse {
					x, y = y, x
				}
				if x.Less(y, true) {
					return true
				}
				if y.Less(x, true) {
					return false
				}
			}
			return false
		}
	}

	if o.Section != "" {
		path, initial := o.Section, o.SectionInitial
		policy.SectionKey = func(d *Document) string {
			name := d.Get(path).String()
			if initial {
				return assistant.IndexTitle(name)
			}
			return name
		}
		if o.SectionOrder == "desc" {
			policy.SortSections = func(a, b string) bool { return a > b }
		} else {
			policy.SortSections = func(a, b string) bool { return a < b }
		}
	}

	return policy
}
