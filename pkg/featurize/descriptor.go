// Package featurize turns one structure file into a flat row of named numeric
// descriptors.
package featurize

import (
	"fmt"
	"strconv"

	"matfeat/pkg/crystal"
)

// Level says whether a descriptor reads the chemical composition or the full structure.
type Level int

const (
	CompositionLevel Level = iota
	StructureLevel
)

func (l Level) String() string {
	switch l {
	case CompositionLevel:
		return "composition"
	case StructureLevel:
		return "structure"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Output is the result of one descriptor: a single scalar or an ordered vector.
type Output struct {
	values []float64
	vector bool
}

// Scalar wraps a single value, stored under the descriptor name.
func Scalar(v float64) Output { return Output{values: []float64{v}} }

// Vector wraps an ordered sequence, stored under "{name}_{index}".
func Vector(v []float64) Output { return Output{values: v, vector: true} }

// Values returns the raw values.
func (o Output) Values() []float64 { return o.values }

// IsVector reports whether the output is a sequence.
func (o Output) IsVector() bool { return o.vector }

// CompositionFeaturizer computes a descriptor from a composition.
type CompositionFeaturizer interface {
	FeaturizeComposition(c crystal.Composition) (Output, error)
}

// StructureFeaturizer computes a descriptor from a full structure.
type StructureFeaturizer interface {
	FeaturizeStructure(s *crystal.Structure) (Output, error)
}

// CompositionFunc adapts a function to CompositionFeaturizer.
type CompositionFunc func(c crystal.Composition) (Output, error)

func (f CompositionFunc) FeaturizeComposition(c crystal.Composition) (Output, error) { return f(c) }

// StructureFunc adapts a function to StructureFeaturizer.
type StructureFunc func(s *crystal.Structure) (Output, error)

func (f StructureFunc) FeaturizeStructure(s *crystal.Structure) (Output, error) { return f(s) }

// Descriptor is one named entry of the featurizer list. Featurizer must
// implement the interface matching Level.
type Descriptor struct {
	Name       string
	Level      Level
	Featurizer any
}

func (d Descriptor) compute(s *crystal.Structure) (Output, error) {
	switch d.Level {
	case CompositionLevel:
		f, ok := d.Featurizer.(CompositionFeaturizer)
		if !ok {
			return Output{}, fmt.Errorf("featurizer %T does not accept a composition", d.Featurizer)
		}
		return f.FeaturizeComposition(s.Composition())
	case StructureLevel:
		f, ok := d.Featurizer.(StructureFeaturizer)
		if !ok {
			return Output{}, fmt.Errorf("featurizer %T does not accept a structure", d.Featurizer)
		}
		return f.FeaturizeStructure(s)
	default:
		return Output{}, fmt.Errorf("unsupported level %s", d.Level)
	}
}

// Labeler is implemented by vector descriptors that can describe each
// position of their output.
type Labeler interface {
	Labels() []string
}

// Feature names one table column and what it measures.
type Feature struct {
	Column string
	Label  string
}

// FeatureLabels lists the table columns produced by descriptors that
// implement Labeler, in extraction order.
func FeatureLabels(descriptors []Descriptor) []Feature {
	var out []Feature
	for _, d := range descriptors {
		l, ok := d.Featurizer.(Labeler)
		if !ok {
			continue
		}
		for i, label := range l.Labels() {
			out = append(out, Feature{Column: d.Name + "_" + strconv.Itoa(i), Label: label})
		}
	}
	return out
}
