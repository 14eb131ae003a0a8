package featurize

import (
	"errors"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"matfeat/pkg/crystal"
)

var errEmptyComposition = errors.New("empty composition")

// Stoichiometry computes L_p norms of the atomic fractions. p = 0 counts the
// elements present.
type Stoichiometry struct {
	PNorms []int
}

// NewStoichiometry uses the norms 0, 2, 3, 5, 7 and 10.
func NewStoichiometry() *Stoichiometry {
	return &Stoichiometry{PNorms: []int{0, 2, 3, 5, 7, 10}}
}

// Labels names each norm, e.g. "2-norm".
func (st *Stoichiometry) Labels() []string {
	out := make([]string, len(st.PNorms))
	for i, p := range st.PNorms {
		out[i] = strconv.Itoa(p) + "-norm"
	}
	return out
}

func (st *Stoichiometry) FeaturizeComposition(c crystal.Composition) (Output, error) {
	if c.NumAtoms() == 0 {
		return Output{}, errEmptyComposition
	}
	out := make([]float64, len(st.PNorms))
	for i, p := range st.PNorms {
		if p == 0 {
			out[i] = float64(len(c.Elements()))
			continue
		}
		sum := 0.0
		for _, el := range c.Elements() {
			sum += math.Pow(c.Fraction(el), float64(p))
		}
		out[i] = math.Pow(sum, 1/float64(p))
	}
	return Vector(out), nil
}

// ElementProperty computes fraction-weighted statistics of tabulated elemental
// properties. Values are ordered property-major: for each property, every statistic.
type ElementProperty struct {
	Properties []ElementalProperty
	Stats      []string
}

// ElementalProperty reads one tabulated quantity from an element.
type ElementalProperty struct {
	Name  string
	Value func(el *crystal.Element) float64
}

// PropertyStats lists the supported statistics in output order.
var PropertyStats = []string{"minimum", "maximum", "range", "mean", "avg_dev", "mode"}

// NewElementProperty uses atomic number, weight, period, group, Pauling
// electronegativity and covalent radius.
func NewElementProperty() *ElementProperty {
	return &ElementProperty{
		Properties: []ElementalProperty{
			{"Number", func(el *crystal.Element) float64 { return float64(el.Number) }},
			{"AtomicWeight", func(el *crystal.Element) float64 { return el.AtomicWeight }},
			{"Row", func(el *crystal.Element) float64 { return float64(el.Period) }},
			{"Column", func(el *crystal.Element) float64 { return float64(el.Group) }},
			{"Electronegativity", func(el *crystal.Element) float64 { return el.Electronegativity }},
			{"CovalentRadius", func(el *crystal.Element) float64 { return el.CovalentRadius }},
		},
		Stats: PropertyStats,
	}
}

// Labels returns "{stat} {property}" for every output position.
func (ep *ElementProperty) Labels() []string {
	var out []string
	for _, p := range ep.Properties {
		for _, s := range ep.Stats {
			out = append(out, s+" "+p.Name)
		}
	}
	return out
}

func (ep *ElementProperty) FeaturizeComposition(c crystal.Composition) (Output, error) {
	if c.NumAtoms() == 0 {
		return Output{}, errEmptyComposition
	}
	elements := c.Elements()
	weights := make([]float64, len(elements))
	for i, el := range elements {
		weights[i] = c.Fraction(el)
	}

	out := make([]float64, 0, len(ep.Properties)*len(ep.Stats))
	values := make([]float64, len(elements))
	for _, p := range ep.Properties {
		for i, el := range elements {
			values[i] = p.Value(el)
		}
		for _, s := range ep.Stats {
			v, err := weightedStat(s, values, weights)
			if err != nil {
				return Output{}, err
			}
			out = append(out, v)
		}
	}
	return Vector(out), nil
}

// weightedStat computes one statistic. A NaN input value propagates to the result.
func weightedStat(name string, values, weights []float64) (float64, error) {
	switch name {
	case "minimum":
		m := math.Inf(1)
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m, nil
	case "maximum":
		m := math.Inf(-1)
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m, nil
	case "range":
		lo, _ := weightedStat("minimum", values, weights)
		hi, _ := weightedStat("maximum", values, weights)
		return hi - lo, nil
	case "mean":
		return stat.Mean(values, weights), nil
	case "avg_dev":
		mean := stat.Mean(values, weights)
		dev := make([]float64, len(values))
		for i, v := range values {
			dev[i] = math.Abs(v - mean)
		}
		return stat.Mean(dev, weights), nil
	case "mode":
		// Value of the most abundant element; ties resolve to the smallest value.
		maxW := math.Inf(-1)
		for _, w := range weights {
			maxW = math.Max(maxW, w)
		}
		mode := math.Inf(1)
		for i, v := range values {
			if weights[i] == maxW {
				mode = math.Min(mode, v)
			}
		}
		return mode, nil
	default:
		return 0, errors.New("unknown statistic " + name)
	}
}
