package data

import (
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric Kind = "numeric"
	Text    Kind = "text"
)

// Schema describes the structure of a table.
type Schema struct {
	Names []string
	Kinds []Kind
}

// InferSchema marks a column numeric when every non-missing cell parses as a
// float. A column with no values at all is numeric (all NaN).
func InferSchema(t *Table) Schema {
	s := Schema{Names: append([]string(nil), t.Columns...), Kinds: make([]Kind, len(t.Columns))}
	for c := range t.Columns {
		s.Kinds[c] = Numeric
		for _, rec := range t.Records {
			if IsMissing(rec[c]) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64); err != nil {
				s.Kinds[c] = Text
				break
			}
		}
	}
	return s
}

// NumericColumns returns the names of numeric columns in table order.
func (s Schema) NumericColumns() []string {
	var out []string
	for i, k := range s.Kinds {
		if k == Numeric {
			out = append(out, s.Names[i])
		}
	}
	return out
}
