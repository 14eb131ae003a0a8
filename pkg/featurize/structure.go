package featurize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"matfeat/pkg/crystal"
)

// amuPerCubicAngstrom converts amu/A^3 to g/cm^3.
const amuPerCubicAngstrom = 1.66053906660

// DensityFeatures computes density (g/cm^3), volume per atom (A^3) and packing
// fraction (sphere volume of covalent radii over cell volume).
type DensityFeatures struct{}

// Labels names the three outputs.
func (DensityFeatures) Labels() []string {
	return []string{"density", "vpa", "packing fraction"}
}

func (DensityFeatures) FeaturizeStructure(s *crystal.Structure) (Output, error) {
	if s.NumSites() == 0 {
		return Output{}, errors.New("structure has no sites")
	}
	vol := s.Volume()
	comp := s.Composition()

	spheres := 0.0
	for _, site := range s.Sites {
		r := site.Element.CovalentRadius
		spheres += site.Occupancy * 4.0 / 3.0 * math.Pi * r * r * r
	}
	return Vector([]float64{
		comp.Weight() * amuPerCubicAngstrom / vol,
		vol / float64(s.NumSites()),
		spheres / vol,
	}), nil
}

// RadialDistribution computes a histogram of all interatomic distances up to
// Cutoff, in bins of BinSize, normalised by shell volume and number density.
type RadialDistribution struct {
	Cutoff  float64
	BinSize float64
}

// NewRadialDistribution uses a 20 A cutoff and 0.1 A bins.
func NewRadialDistribution() *RadialDistribution {
	return &RadialDistribution{Cutoff: 20, BinSize: 0.1}
}

// NumBins returns the length of the output vector.
func (rd *RadialDistribution) NumBins() int {
	return int(math.Round(rd.Cutoff / rd.BinSize))
}

// Labels gives the radial range of each bin, e.g. "[0.1 - 0.2]".
func (rd *RadialDistribution) Labels() []string {
	out := make([]string, rd.NumBins())
	for b := range out {
		out[b] = fmt.Sprintf("[%.4g - %.4g]", float64(b)*rd.BinSize, float64(b+1)*rd.BinSize)
	}
	return out
}

func (rd *RadialDistribution) FeaturizeStructure(s *crystal.Structure) (Output, error) {
	if rd.Cutoff <= 0 || rd.BinSize <= 0 {
		return Output{}, fmt.Errorf("invalid cutoff %g or bin size %g", rd.Cutoff, rd.BinSize)
	}
	if s.NumSites() == 0 {
		return Output{}, errors.New("structure has no sites")
	}
	nbins := rd.NumBins()
	hist := make([]float64, nbins)

	widths := s.Lattice.Widths()
	var reach [3]int
	for k := range reach {
		reach[k] = int(math.Ceil(rd.Cutoff/widths[k])) + 1
	}

	cart := make([]r3.Vec, len(s.Sites))
	for i, site := range s.Sites {
		cart[i] = s.Lattice.Cartesian(site.Frac)
	}

	for i := range s.Sites {
		for j := range s.Sites {
			for na := -reach[0]; na <= reach[0]; na++ {
				for nb := -reach[1]; nb <= reach[1]; nb++ {
					for nc := -reach[2]; nc <= reach[2]; nc++ {
						shift := s.Lattice.Cartesian(r3.Vec{X: float64(na), Y: float64(nb), Z: float64(nc)})
						d := r3.Norm(r3.Sub(r3.Add(cart[j], shift), cart[i]))
						if d < 1e-8 || d > rd.Cutoff {
							continue
						}
						bin := int(d / rd.BinSize)
						if bin >= nbins {
							bin = nbins - 1
						}
						hist[bin]++
					}
				}
			}
		}
	}

	density := float64(s.NumSites()) / s.Volume()
	rdf := make([]float64, nbins)
	for b := range rdf {
		lo, hi := float64(b)*rd.BinSize, float64(b+1)*rd.BinSize
		shell := 4.0 / 3.0 * math.Pi * (hi*hi*hi - lo*lo*lo)
		rdf[b] = hist[b] / shell / density
	}
	return Vector(rdf), nil
}
