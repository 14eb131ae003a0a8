package crystal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Lattice is a periodic cell described by its three row vectors (Angstrom).
type Lattice struct {
	A, B, C r3.Vec
}

// NewLattice builds a lattice from cell lengths (Angstrom) and angles (degrees).
// The c vector is aligned with z and a lies in the xz plane.
func NewLattice(a, b, c, alpha, beta, gamma float64) (Lattice, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return Lattice{}, fmt.Errorf("cell lengths must be positive, got %g %g %g", a, b, c)
	}
	alphaR, betaR, gammaR := radians(alpha), radians(beta), radians(gamma)
	cosA, cosB, cosG := math.Cos(alphaR), math.Cos(betaR), math.Cos(gammaR)
	sinA, sinB := math.Sin(alphaR), math.Sin(betaR)

	val := (cosA*cosB - cosG) / (sinA * sinB)
	val = math.Max(-1, math.Min(1, val))
	gammaStar := math.Acos(val)

	l := Lattice{
		A: r3.Vec{X: a * sinB, Y: 0, Z: a * cosB},
		B: r3.Vec{X: -b * sinA * math.Cos(gammaStar), Y: b * sinA * math.Sin(gammaStar), Z: b * cosA},
		C: r3.Vec{X: 0, Y: 0, Z: c},
	}
	if v := l.Volume(); !(v > 1e-8) {
		return Lattice{}, errors.New("cell volume is zero")
	}
	return l, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Volume returns the cell volume in cubic Angstrom.
func (l Lattice) Volume() float64 {
	return math.Abs(r3.Dot(l.A, r3.Cross(l.B, l.C)))
}

// Cartesian converts fractional coordinates to Cartesian ones.
func (l Lattice) Cartesian(f r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(f.X, l.A), r3.Scale(f.Y, l.B)), r3.Scale(f.Z, l.C))
}

// Widths returns the perpendicular distance between opposite faces along each axis.
func (l Lattice) Widths() [3]float64 {
	v := l.Volume()
	return [3]float64{
		v / r3.Norm(r3.Cross(l.B, l.C)),
		v / r3.Norm(r3.Cross(l.C, l.A)),
		v / r3.Norm(r3.Cross(l.A, l.B)),
	}
}
