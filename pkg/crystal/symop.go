package crystal

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SymOp is an affine symmetry operation on fractional coordinates.
type SymOp struct {
	Rot   [3][3]float64
	Trans [3]float64
}

// Identity is the operation x,y,z.
var Identity = SymOp{Rot: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

// Apply transforms a fractional coordinate.
func (op SymOp) Apply(f r3.Vec) r3.Vec {
	in := [3]float64{f.X, f.Y, f.Z}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = op.Trans[i]
		for j := 0; j < 3; j++ {
			out[i] += op.Rot[i][j] * in[j]
		}
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}

// ParseSymOp parses an operation in xyz notation such as "-x+1/2, y, z-1/4".
func ParseSymOp(s string) (SymOp, error) {
	parts := strings.Split(strings.ToLower(strings.ReplaceAll(s, " ", "")), ",")
	if len(parts) != 3 {
		return SymOp{}, fmt.Errorf("symmetry operation %q: want 3 components", s)
	}
	var op SymOp
	for i, p := range parts {
		if p == "" {
			return SymOp{}, fmt.Errorf("symmetry operation %q: empty component", s)
		}
		for _, term := range splitTerms(p) {
			sign := 1.0
			switch term[0] {
			case '-':
				sign = -1
				term = term[1:]
			case '+':
				term = term[1:]
			}
			switch term {
			case "x":
				op.Rot[i][0] += sign
			case "y":
				op.Rot[i][1] += sign
			case "z":
				op.Rot[i][2] += sign
			default:
				v, err := parseFraction(term)
				if err != nil {
					return SymOp{}, fmt.Errorf("symmetry operation %q: %w", s, err)
				}
				op.Trans[i] += sign * v
			}
		}
	}
	return op, nil
}

// splitTerms splits "x-y+1/2" into "x", "-y", "+1/2".
func splitTerms(s string) []string {
	var terms []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			terms = append(terms, s[start:i])
			start = i
		}
	}
	return append(terms, s[start:])
}

func parseFraction(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("bad term %q", s)
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("bad term %q", s)
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad term %q", s)
	}
	return v, nil
}

// wrap maps a fractional coordinate into [0, 1).
func wrap(f r3.Vec) r3.Vec {
	w := func(v float64) float64 {
		v -= math.Floor(v)
		if v >= 1-1e-10 {
			v = 0
		}
		return v
	}
	return r3.Vec{X: w(f.X), Y: w(f.Y), Z: w(f.Z)}
}

// samePosition reports whether two fractional coordinates coincide modulo lattice translations.
func samePosition(a, b r3.Vec, tol float64) bool {
	d := func(v float64) float64 {
		v -= math.Round(v)
		return math.Abs(v)
	}
	return d(a.X-b.X) < tol && d(a.Y-b.Y) < tol && d(a.Z-b.Z) < tol
}

// expandSites applies every operation to every asymmetric-unit site and removes duplicates.
func expandSites(asym []Site, ops []SymOp) []Site {
	const tol = 1e-3
	var sites []Site
	for _, s := range asym {
		for _, op := range ops {
			pos := wrap(op.Apply(s.Frac))
			dup := false
			for _, existing := range sites {
				if existing.Element == s.Element && samePosition(existing.Frac, pos, tol) {
					dup = true
					break
				}
			}
			if !dup {
				sites = append(sites, Site{Element: s.Element, Frac: pos, Occupancy: s.Occupancy})
			}
		}
	}
	return sites
}
