package crystal

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Element holds the tabulated properties used by the composition descriptors.
// Electronegativity is NaN where no Pauling value exists.
type Element struct {
	Symbol            string
	Number            int
	AtomicWeight      float64
	Period            int
	Group             int
	Electronegativity float64
	CovalentRadius    float64 // Angstrom
}

var nan = math.NaN()

// periodicTable lists elements by atomic number. Lanthanides and actinides are placed in group 3.
var periodicTable = []Element{
	{"H", 1, 1.008, 1, 1, 2.20, 0.31},
	{"He", 2, 4.0026, 1, 18, nan, 0.28},
	{"Li", 3, 6.94, 2, 1, 0.98, 1.28},
	{"Be", 4, 9.0122, 2, 2, 1.57, 0.96},
	{"B", 5, 10.81, 2, 13, 2.04, 0.84},
	{"C", 6, 12.011, 2, 14, 2.55, 0.76},
	{"N", 7, 14.007, 2, 15, 3.04, 0.71},
	{"O", 8, 15.999, 2, 16, 3.44, 0.66},
	{"F", 9, 18.998, 2, 17, 3.98, 0.57},
	{"Ne", 10, 20.180, 2, 18, nan, 0.58},
	{"Na", 11, 22.990, 3, 1, 0.93, 1.66},
	{"Mg", 12, 24.305, 3, 2, 1.31, 1.41},
	{"Al", 13, 26.982, 3, 13, 1.61, 1.21},
	{"Si", 14, 28.085, 3, 14, 1.90, 1.11},
	{"P", 15, 30.974, 3, 15, 2.19, 1.07},
	{"S", 16, 32.06, 3, 16, 2.58, 1.05},
	{"Cl", 17, 35.45, 3, 17, 3.16, 1.02},
	{"Ar", 18, 39.948, 3, 18, nan, 1.06},
	{"K", 19, 39.098, 4, 1, 0.82, 2.03},
	{"Ca", 20, 40.078, 4, 2, 1.00, 1.76},
	{"Sc", 21, 44.956, 4, 3, 1.36, 1.70},
	{"Ti", 22, 47.867, 4, 4, 1.54, 1.60},
	{"V", 23, 50.942, 4, 5, 1.63, 1.53},
	{"Cr", 24, 51.996, 4, 6, 1.66, 1.39},
	{"Mn", 25, 54.938, 4, 7, 1.55, 1.39},
	{"Fe", 26, 55.845, 4, 8, 1.83, 1.32},
	{"Co", 27, 58.933, 4, 9, 1.88, 1.26},
	{"Ni", 28, 58.693, 4, 10, 1.91, 1.24},
	{"Cu", 29, 63.546, 4, 11, 1.90, 1.32},
	{"Zn", 30, 65.38, 4, 12, 1.65, 1.22},
	{"Ga", 31, 69.723, 4, 13, 1.81, 1.22},
	{"Ge", 32, 72.630, 4, 14, 2.01, 1.20},
	{"As", 33, 74.922, 4, 15, 2.18, 1.19},
	{"Se", 34, 78.971, 4, 16, 2.55, 1.20},
	{"Br", 35, 79.904, 4, 17, 2.96, 1.20},
	{"Kr", 36, 83.798, 4, 18, 3.00, 1.16},
	{"Rb", 37, 85.468, 5, 1, 0.82, 2.20},
	{"Sr", 38, 87.62, 5, 2, 0.95, 1.95},
	{"Y", 39, 88.906, 5, 3, 1.22, 1.90},
	{"Zr", 40, 91.224, 5, 4, 1.33, 1.75},
	{"Nb", 41, 92.906, 5, 5, 1.6, 1.64},
	{"Mo", 42, 95.95, 5, 6, 2.16, 1.54},
	{"Tc", 43, 98, 5, 7, 1.9, 1.47},
	{"Ru", 44, 101.07, 5, 8, 2.2, 1.46},
	{"Rh", 45, 102.91, 5, 9, 2.28, 1.42},
	{"Pd", 46, 106.42, 5, 10, 2.20, 1.39},
	{"Ag", 47, 107.87, 5, 11, 1.93, 1.45},
	{"Cd", 48, 112.41, 5, 12, 1.69, 1.44},
	{"In", 49, 114.82, 5, 13, 1.78, 1.42},
	{"Sn", 50, 118.71, 5, 14, 1.96, 1.39},
	{"Sb", 51, 121.76, 5, 15, 2.05, 1.39},
	{"Te", 52, 127.60, 5, 16, 2.1, 1.38},
	{"I", 53, 126.90, 5, 17, 2.66, 1.39},
	{"Xe", 54, 131.29, 5, 18, 2.6, 1.40},
	{"Cs", 55, 132.91, 6, 1, 0.79, 2.44},
	{"Ba", 56, 137.33, 6, 2, 0.89, 2.15},
	{"La", 57, 138.91, 6, 3, 1.10, 2.07},
	{"Ce", 58, 140.12, 6, 3, 1.12, 2.04},
	{"Pr", 59, 140.91, 6, 3, 1.13, 2.03},
	{"Nd", 60, 144.24, 6, 3, 1.14, 2.01},
	{"Pm", 61, 145, 6, 3, 1.13, 1.99},
	{"Sm", 62, 150.36, 6, 3, 1.17, 1.98},
	{"Eu", 63, 151.96, 6, 3, 1.2, 1.98},
	{"Gd", 64, 157.25, 6, 3, 1.2, 1.96},
	{"Tb", 65, 158.93, 6, 3, 1.1, 1.94},
	{"Dy", 66, 162.50, 6, 3, 1.22, 1.92},
	{"Ho", 67, 164.93, 6, 3, 1.23, 1.92},
	{"Er", 68, 167.26, 6, 3, 1.24, 1.89},
	{"Tm", 69, 168.93, 6, 3, 1.25, 1.90},
	{"Yb", 70, 173.05, 6, 3, 1.1, 1.87},
	{"Lu", 71, 174.97, 6, 3, 1.27, 1.87},
	{"Hf", 72, 178.49, 6, 4, 1.3, 1.75},
	{"Ta", 73, 180.95, 6, 5, 1.5, 1.70},
	{"W", 74, 183.84, 6, 6, 2.36, 1.62},
	{"Re", 75, 186.21, 6, 7, 1.9, 1.51},
	{"Os", 76, 190.23, 6, 8, 2.2, 1.44},
	{"Ir", 77, 192.22, 6, 9, 2.20, 1.41},
	{"Pt", 78, 195.08, 6, 10, 2.28, 1.36},
	{"Au", 79, 196.97, 6, 11, 2.54, 1.36},
	{"Hg", 80, 200.59, 6, 12, 2.00, 1.32},
	{"Tl", 81, 204.38, 6, 13, 1.62, 1.45},
	{"Pb", 82, 207.2, 6, 14, 2.33, 1.46},
	{"Bi", 83, 208.98, 6, 15, 2.02, 1.48},
	{"Po", 84, 209, 6, 16, 2.0, 1.40},
	{"At", 85, 210, 6, 17, 2.2, 1.50},
	{"Rn", 86, 222, 6, 18, 2.2, 1.50},
	{"Th", 90, 232.04, 7, 3, 1.3, 2.06},
	{"U", 92, 238.03, 7, 3, 1.38, 1.96},
}

var elementsBySymbol = func() map[string]*Element {
	m := make(map[string]*Element, len(periodicTable))
	for i := range periodicTable {
		m[periodicTable[i].Symbol] = &periodicTable[i]
	}
	return m
}()

// LookupElement returns the tabulated element for symbol.
func LookupElement(symbol string) (*Element, error) {
	el, ok := elementsBySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown element %q", symbol)
	}
	return el, nil
}

// SymbolFromLabel extracts an element symbol from a CIF type symbol or site label,
// e.g. "Fe2+" -> "Fe", "O1" -> "O", "Cl_a" -> "Cl".
func SymbolFromLabel(label string) string {
	runes := []rune(strings.TrimSpace(label))
	if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
		return ""
	}
	sym := string(unicode.ToUpper(runes[0]))
	if len(runes) > 1 && unicode.IsLower(runes[1]) {
		candidate := sym + string(runes[1])
		if _, ok := elementsBySymbol[candidate]; ok {
			return candidate
		}
	}
	return sym
}
