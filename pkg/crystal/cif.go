package crystal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoDataBlock is returned when a file contains no data_ block.
var ErrNoDataBlock = errors.New("cif: no data block")

type token struct {
	text   string
	quoted bool
}

type loop struct {
	tags []string
	rows [][]token
}

// column returns the values of tag, or nil if the loop does not carry it.
func (l *loop) column(tag string) []token {
	idx := -1
	for i, t := range l.tags {
		if t == tag {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	col := make([]token, len(l.rows))
	for i, row := range l.rows {
		col[i] = row[idx]
	}
	return col
}

type block struct {
	name  string
	items map[string]token
	loops []*loop
}

func (b *block) loopWith(tag string) *loop {
	for _, l := range b.loops {
		if l.column(tag) != nil {
			return l
		}
	}
	return nil
}

// ReadFile parses the first data block of a CIF file.
func ReadFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCIF(f)
}

// ParseCIF parses the first data block of a CIF document into a Structure.
func ParseCIF(r io.Reader) (*Structure, error) {
	tokens, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	b, err := firstBlock(tokens)
	if err != nil {
		return nil, err
	}
	return b.structure()
}

// tokenize splits a CIF document into whitespace separated values, honouring quotes,
// comments and semicolon text fields.
func tokenize(r io.Reader) ([]token, error) {
	var tokens []token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text []string
	inText := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if inText {
			if strings.HasPrefix(line, ";") {
				tokens = append(tokens, token{text: strings.TrimSpace(strings.Join(text, "\n")), quoted: true})
				inText = false
				text = nil
				line = line[1:]
			} else {
				text = append(text, line)
				continue
			}
		} else if strings.HasPrefix(line, ";") {
			inText = true
			text = append(text, line[1:])
			continue
		}

		for i := 0; i < len(line); {
			c := line[i]
			switch {
			case c == ' ' || c == '\t':
				i++
			case c == '#':
				i = len(line)
			case c == '\'' || c == '"':
				end := i + 1
				for end < len(line) && !(line[end] == c && (end+1 == len(line) || line[end+1] == ' ' || line[end+1] == '\t')) {
					end++
				}
				if end >= len(line) {
					return nil, fmt.Errorf("cif: line %d: unterminated quoted string", lineNo)
				}
				tokens = append(tokens, token{text: line[i+1 : end], quoted: true})
				i = end + 1
			default:
				end := i
				for end < len(line) && line[end] != ' ' && line[end] != '\t' {
					end++
				}
				tokens = append(tokens, token{text: line[i:end]})
				i = end
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cif: %w", err)
	}
	if inText {
		return nil, errors.New("cif: unterminated text field")
	}
	return tokens, nil
}

func isKeyword(t token, prefix string) bool {
	return !t.quoted && strings.HasPrefix(strings.ToLower(t.text), prefix)
}

func isTag(t token) bool { return !t.quoted && strings.HasPrefix(t.text, "_") }

// firstBlock groups tokens into tag/value items and loops, stopping at the second data_ block.
func firstBlock(tokens []token) (*block, error) {
	var b *block
	for i := 0; i < len(tokens); {
		t := tokens[i]
		switch {
		case isKeyword(t, "data_"):
			if b != nil {
				return b, nil
			}
			b = &block{name: t.text[len("data_"):], items: make(map[string]token)}
			i++
		case b == nil:
			i++
		case isKeyword(t, "loop_"):
			l := &loop{}
			i++
			for i < len(tokens) && isTag(tokens[i]) {
				l.tags = append(l.tags, strings.ToLower(tokens[i].text))
				i++
			}
			if len(l.tags) == 0 {
				return nil, errors.New("cif: loop_ without tags")
			}
			var values []token
			for i < len(tokens) && !isTag(tokens[i]) && !isKeyword(tokens[i], "loop_") && !isKeyword(tokens[i], "data_") {
				values = append(values, tokens[i])
				i++
			}
			if len(values)%len(l.tags) != 0 {
				return nil, fmt.Errorf("cif: loop with %d tags has %d values", len(l.tags), len(values))
			}
			for j := 0; j < len(values); j += len(l.tags) {
				l.rows = append(l.rows, values[j:j+len(l.tags)])
			}
			b.loops = append(b.loops, l)
		case isTag(t):
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("cif: tag %s has no value", t.text)
			}
			b.items[strings.ToLower(t.text)] = tokens[i+1]
			i += 2
		default:
			// save_ frames and global_ are not used by structure files.
			i++
		}
	}
	if b == nil {
		return nil, ErrNoDataBlock
	}
	return b, nil
}

// parseNumber reads a CIF numeric value, dropping a trailing standard uncertainty such as "(3)".
func parseNumber(t token) (float64, error) {
	s := t.text
	if s == "?" || s == "." {
		return 0, fmt.Errorf("value is unknown")
	}
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		s = s[:idx]
	}
	return strconv.ParseFloat(s, 64)
}

func (b *block) number(tag string) (float64, error) {
	t, ok := b.items[tag]
	if !ok {
		return 0, fmt.Errorf("cif: missing %s", tag)
	}
	v, err := parseNumber(t)
	if err != nil {
		return 0, fmt.Errorf("cif: %s: %w", tag, err)
	}
	return v, nil
}

var symopTags = []string{
	"_symmetry_equiv_pos_as_xyz",
	"_space_group_symop_operation_xyz",
}

func (b *block) symOps() ([]SymOp, error) {
	for _, tag := range symopTags {
		l := b.loopWith(tag)
		if l == nil {
			if t, ok := b.items[tag]; ok {
				op, err := ParseSymOp(t.text)
				if err != nil {
					return nil, fmt.Errorf("cif: %w", err)
				}
				return []SymOp{op}, nil
			}
			continue
		}
		var ops []SymOp
		for _, t := range l.column(tag) {
			op, err := ParseSymOp(t.text)
			if err != nil {
				return nil, fmt.Errorf("cif: %w", err)
			}
			ops = append(ops, op)
		}
		return ops, nil
	}
	return []SymOp{Identity}, nil
}

func (b *block) structure() (*Structure, error) {
	var cell [6]float64
	for i, tag := range []string{
		"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma",
	} {
		v, err := b.number(tag)
		if err != nil {
			return nil, err
		}
		cell[i] = v
	}
	lattice, err := NewLattice(cell[0], cell[1], cell[2], cell[3], cell[4], cell[5])
	if err != nil {
		return nil, fmt.Errorf("cif: %w", err)
	}

	l := b.loopWith("_atom_site_fract_x")
	if l == nil || len(l.rows) == 0 {
		return nil, errors.New("cif: no atom sites")
	}
	species := l.column("_atom_site_type_symbol")
	if species == nil {
		species = l.column("_atom_site_label")
	}
	if species == nil {
		return nil, errors.New("cif: atom sites carry neither type symbol nor label")
	}
	xs, ys, zs := l.column("_atom_site_fract_x"), l.column("_atom_site_fract_y"), l.column("_atom_site_fract_z")
	if ys == nil || zs == nil {
		return nil, errors.New("cif: incomplete fractional coordinates")
	}
	occ := l.column("_atom_site_occupancy")

	asym := make([]Site, 0, len(l.rows))
	for i := range l.rows {
		el, err := LookupElement(SymbolFromLabel(species[i].text))
		if err != nil {
			return nil, fmt.Errorf("cif: site %d: %w", i, err)
		}
		var f [3]float64
		for k, col := range [][]token{xs, ys, zs} {
			v, err := parseNumber(col[i])
			if err != nil {
				return nil, fmt.Errorf("cif: site %d coordinate: %w", i, err)
			}
			f[k] = v
		}
		o := 1.0
		if occ != nil {
			if v, err := parseNumber(occ[i]); err == nil {
				o = v
			}
		}
		asym = append(asym, Site{Element: el, Frac: r3.Vec{X: f[0], Y: f[1], Z: f[2]}, Occupancy: o})
	}

	ops, err := b.symOps()
	if err != nil {
		return nil, err
	}
	return &Structure{Lattice: lattice, Sites: expandSites(asym, ops)}, nil
}
