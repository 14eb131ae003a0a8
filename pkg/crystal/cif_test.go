package crystal

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csclCIF = `# CsCl, primitive cubic
data_CsCl
_symmetry_space_group_name_H-M   'P 1'
_cell_length_a   4.12(3)
_cell_length_b   4.12
_cell_length_c   4.12
_cell_angle_alpha   90
_cell_angle_beta    90
_cell_angle_gamma   90
loop_
 _atom_site_label
 _atom_site_type_symbol
 _atom_site_fract_x
 _atom_site_fract_y
 _atom_site_fract_z
 _atom_site_occupancy
  Cs1  Cs+  0.0  0.0  0.0  1
  Cl1  Cl-  0.5  0.5  0.5  1
`

const bccIronCIF = `data_Fe
_cell_length_a 2.87
_cell_length_b 2.87
_cell_length_c 2.87
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_symmetry_equiv_pos_site_id
_symmetry_equiv_pos_as_xyz
1 'x, y, z'
2 'x+1/2, y+1/2, z+1/2'
3 '-x, -y, -z'
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 0 0 0
`

func TestParseCIF_PrimitiveCell(t *testing.T) {
	s, err := ParseCIF(strings.NewReader(csclCIF))
	require.NoError(t, err)

	require.Equal(t, 2, s.NumSites())
	assert.Equal(t, "Cs", s.Sites[0].Element.Symbol)
	assert.Equal(t, "Cl", s.Sites[1].Element.Symbol)
	assert.InDelta(t, 4.12*4.12*4.12, s.Volume(), 1e-9)

	comp := s.Composition()
	require.Len(t, comp.Elements(), 2)
	assert.Equal(t, "Cl", comp.Elements()[0].Symbol, "elements are ordered by atomic number")
	assert.InDelta(t, 0.5, comp.Fraction(comp.Elements()[1]), 1e-12)
	assert.Equal(t, "Cl1 Cs1", comp.Formula())
}

func TestParseCIF_ExpandsSymmetryOperations(t *testing.T) {
	s, err := ParseCIF(strings.NewReader(bccIronCIF))
	require.NoError(t, err)

	// -x,-y,-z maps the origin onto itself, so only the body centre is added.
	require.Equal(t, 2, s.NumSites())
	assert.InDelta(t, 0.5, s.Sites[1].Frac.X, 1e-12)
	assert.InDelta(t, 2.0, s.Composition().NumAtoms(), 1e-12)
}

func TestParseCIF_TextFieldAndComments(t *testing.T) {
	doc := `data_test
_publ_section_title
;
A multi-line
title with _fake_tag inside
;
` + strings.SplitN(bccIronCIF, "\n", 2)[1]
	s, err := ParseCIF(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumSites())
}

func TestParseCIF_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "no data block"},
		{"not a cif", "hello world\n", "no data block"},
		{"missing cell", "data_x\n_cell_length_a 3\n", "_cell_length_b"},
		{"unknown element", strings.Replace(csclCIF, "Cs+", "Qx", 1), "unknown element"},
		{"no sites", strings.SplitN(csclCIF, "loop_", 2)[0], "no atom sites"},
		{"ragged loop", csclCIF + "  Cl2 Cl 0.1\n", "loop with 6 tags"},
		{"bad symop", strings.Replace(bccIronCIF, "'-x, -y, -z'", "'-x, -q, -z'", 1), "bad term"},
		{"unterminated quote", "data_x\n_title 'oops\n", "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCIF(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cscl.cif")
	require.NoError(t, os.WriteFile(path, []byte(csclCIF), 0o644))

	s, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumSites())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.cif"))
	assert.Error(t, err)
}

func TestParseSymOp(t *testing.T) {
	op, err := ParseSymOp("-y+1/2, x-y, z+0.25")
	require.NoError(t, err)

	assert.Equal(t, [3][3]float64{{0, -1, 0}, {1, -1, 0}, {0, 0, 1}}, op.Rot)
	assert.Equal(t, [3]float64{0.5, 0, 0.25}, op.Trans)

	_, err = ParseSymOp("x,y")
	assert.Error(t, err)
}

func TestNewLattice(t *testing.T) {
	hex, err := NewLattice(3, 3, 5, 90, 90, 120)
	require.NoError(t, err)
	assert.InDelta(t, 3*3*5*math.Sqrt(3)/2, hex.Volume(), 1e-9)

	w := hex.Widths()
	assert.InDelta(t, 5, w[2], 1e-9)

	_, err = NewLattice(0, 3, 3, 90, 90, 90)
	assert.Error(t, err)
	_, err = NewLattice(3, 3, 3, 0, 0, 0)
	assert.Error(t, err)
}

func TestSymbolFromLabel(t *testing.T) {
	for label, want := range map[string]string{
		"Fe2+": "Fe",
		"O1":   "O",
		"Cl_a": "Cl",
		"co":   "Co",
		"N12":  "N",
		"1abc": "",
	} {
		assert.Equal(t, want, SymbolFromLabel(label), label)
	}
}
