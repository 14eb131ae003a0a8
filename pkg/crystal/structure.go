// Package crystal parses crystallographic structure files into an in-memory
// structure with lattice, sites and composition.
package crystal

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Site is one (possibly partially occupied) atomic position.
type Site struct {
	Element   *Element
	Frac      r3.Vec
	Occupancy float64
}

// Structure is a periodic crystal structure.
type Structure struct {
	Lattice Lattice
	Sites   []Site
}

// NumSites returns the number of sites in the cell.
func (s *Structure) NumSites() int { return len(s.Sites) }

// Volume returns the cell volume in cubic Angstrom.
func (s *Structure) Volume() float64 { return s.Lattice.Volume() }

// Composition sums site occupancies per element.
func (s *Structure) Composition() Composition {
	c := Composition{amounts: make(map[string]float64)}
	for _, site := range s.Sites {
		if _, ok := c.amounts[site.Element.Symbol]; !ok {
			c.elements = append(c.elements, site.Element)
		}
		c.amounts[site.Element.Symbol] += site.Occupancy
	}
	sort.Slice(c.elements, func(i, j int) bool { return c.elements[i].Number < c.elements[j].Number })
	return c
}

// Composition is the element -> amount map of a structure.
type Composition struct {
	elements []*Element
	amounts  map[string]float64
}

// Elements returns the elements present, ordered by atomic number.
func (c Composition) Elements() []*Element { return c.elements }

// Amount returns the number of atoms of el in the cell.
func (c Composition) Amount(el *Element) float64 { return c.amounts[el.Symbol] }

// NumAtoms returns the total number of atoms.
func (c Composition) NumAtoms() float64 {
	total := 0.0
	for _, v := range c.amounts {
		total += v
	}
	return total
}

// Fraction returns the atomic fraction of el.
func (c Composition) Fraction(el *Element) float64 {
	n := c.NumAtoms()
	if n == 0 {
		return 0
	}
	return c.Amount(el) / n
}

// Weight returns the formula weight of the cell in atomic mass units.
func (c Composition) Weight() float64 {
	w := 0.0
	for _, el := range c.elements {
		w += el.AtomicWeight * c.Amount(el)
	}
	return w
}

// Formula renders the composition as e.g. "Na4 Cl4".
func (c Composition) Formula() string {
	parts := make([]string, 0, len(c.elements))
	for _, el := range c.elements {
		amt := c.Amount(el)
		if amt == math.Trunc(amt) {
			parts = append(parts, el.Symbol+strconv.Itoa(int(amt)))
		} else {
			parts = append(parts, el.Symbol+strconv.FormatFloat(amt, 'g', 4, 64))
		}
	}
	return strings.Join(parts, " ")
}
