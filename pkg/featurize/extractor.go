package featurize

import (
	"fmt"
	"path/filepath"
	"strconv"

	"matfeat/pkg/crystal"
	"matfeat/pkg/data"
)

// ParseFunc reads one structure file.
type ParseFunc func(path string) (*crystal.Structure, error)

// Extractor applies an ordered descriptor list to structure files.
type Extractor struct {
	Descriptors []Descriptor
	Parse       ParseFunc
}

// NewExtractor returns an extractor that parses CIF files.
func NewExtractor(descriptors []Descriptor) *Extractor {
	return &Extractor{Descriptors: descriptors, Parse: crystal.ReadFile}
}

// Extract parses path and computes every descriptor. Any failure, including a
// panic inside a descriptor, discards the whole row.
func (e *Extractor) Extract(path string) (row *data.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			row = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	parse := e.Parse
	if parse == nil {
		parse = crystal.ReadFile
	}
	s, err := parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	row = data.NewRow(filepath.Base(path))
	for _, d := range e.Descriptors {
		out, err := d.compute(s)
		if err != nil {
			return nil, fmt.Errorf("descriptor %q on %s: %w", d.Name, s.Composition().Formula(), err)
		}
		if !out.IsVector() {
			if len(out.values) != 1 {
				return nil, fmt.Errorf("descriptor %q: empty result", d.Name)
			}
			row.Set(d.Name, out.values[0])
			continue
		}
		for i, v := range out.values {
			row.Set(d.Name+"_"+strconv.Itoa(i), v)
		}
	}
	return row, nil
}
