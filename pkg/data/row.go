package data

// FilenameColumn is the provenance column every feature row carries.
const FilenameColumn = "filename"

// Row is one featurized record: feature name -> value, plus the source file name.
// Names keep their insertion order so tables built from rows have a stable column order.
type Row struct {
	Filename string
	names    []string
	values   map[string]float64
}

// NewRow returns an empty row for the given source file base name.
func NewRow(filename string) *Row {
	return &Row{Filename: filename, values: make(map[string]float64)}
}

// Set stores a feature value. Setting an existing name overwrites it in place.
func (r *Row) Set(name string, v float64) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Value returns the feature stored under name.
func (r *Row) Value(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns feature names in insertion order.
func (r *Row) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of features, excluding filename.
func (r *Row) Len() int { return len(r.names) }
