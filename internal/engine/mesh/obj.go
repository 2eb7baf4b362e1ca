// Package mesh parses Wavefront OBJ geometry and MTL material descriptions
// into flat vertex attribute tables with one index list per submesh.
//
// Position, texture coordinate and normal pools are kept as parsed, with
// face triplets referencing each pool independently. Reindex folds them into
// a single table addressed by position index, and ComputeTangents fills the
// tangent stream from that table.
package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/logger"
)

// DefaultSubmesh names faces that appear before any object statement.
const DefaultSubmesh = "default"

var (
	// ErrFieldCount reports a statement with too few fields.
	ErrFieldCount = errors.New("wrong number of fields")
	// ErrIndexRange reports a face index outside the parsed pool.
	ErrIndexRange = errors.New("index out of range")
	// ErrZeroIndex reports a face index of 0, which OBJ never uses.
	ErrZeroIndex = errors.New("zero index")
)

// ParseError describes one statement that was skipped.
type ParseError struct {
	Line      int
	Statement string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Statement, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IndexTriplet references one entry in each attribute pool, 0-based.
type IndexTriplet struct {
	Position int
	TexCoord int
	Normal   int
}

// Face is one triangle.
type Face struct {
	Vertices [3]IndexTriplet
}

// Submesh is a named run of faces sharing one material.
// Material is empty when the faces are untextured.
type Submesh struct {
	Name     string
	Material string
	Faces    []Face
	Indices  []uint32 // position index stream, three per face
}

// Model holds the parsed pools and submeshes of one OBJ file.
type Model struct {
	Positions []float32 // xyz per "v"
	Normals   []float32 // xyz per "vn"
	TexCoords []float32 // (u, 1-v) per "vt"

	Submeshes   []Submesh
	MaterialLib string
	Warnings    []*ParseError
}

// Stats summarizes a model for logging.
type Stats struct {
	Vertices  int
	TexCoords int
	Normals   int
	Faces     int
	Submeshes int
}

// Stats counts pool entries and faces.
func (m *Model) Stats() Stats {
	s := Stats{
		Vertices:  len(m.Positions) / 3,
		TexCoords: len(m.TexCoords) / 2,
		Normals:   len(m.Normals) / 3,
		Submeshes: len(m.Submeshes),
	}
	for _, sm := range m.Submeshes {
		s.Faces += len(sm.Faces)
	}
	return s
}

// Indices concatenates the index streams of every submesh.
func (m *Model) Indices() []uint32 {
	var n int
	for _, sm := range m.Submeshes {
		n += len(sm.Indices)
	}
	out := make([]uint32, 0, n)
	for _, sm := range m.Submeshes {
		out = append(out, sm.Indices...)
	}
	return out
}

type objParser struct {
	model   *Model
	current Submesh
	line    int
	text    string
	log     *zap.Logger
}

// ParseOBJ reads OBJ text. Malformed statements are skipped and recorded in
// Model.Warnings; only read errors are returned.
func ParseOBJ(r io.Reader) (*Model, error) {
	p := &objParser{
		model:   &Model{},
		current: Submesh{Name: DefaultSubmesh},
		log:     logger.Named("mesh"),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.text = line
		if err := p.statement(strings.Fields(line)); err != nil {
			p.warn("skipping obj statement", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	p.finish()
	return p.model, nil
}

// warn records err against the current statement.
func (p *objParser) warn(msg string, err error) {
	pe := &ParseError{Line: p.line, Statement: p.text, Err: err}
	p.model.Warnings = append(p.model.Warnings, pe)
	p.log.Warn(msg, zap.Error(pe))
}

func (p *objParser) statement(fields []string) error {
	m := p.model
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		m.Positions = append(m.Positions, v...)

	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		m.Normals = append(m.Normals, v...)

	case "vt":
		if len(fields) < 2 {
			return ErrFieldCount
		}
		u, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return err
		}
		var v float64
		if len(fields) > 2 {
			if v, err = strconv.ParseFloat(fields[2], 32); err != nil {
				return err
			}
		}
		m.TexCoords = append(m.TexCoords, float32(u), FlipV(float32(v)))

	case "f":
		return p.face(fields[1:])

	case "usemtl":
		material := ""
		if len(fields) > 1 && fields[1] != "0" {
			material = strings.Join(fields[1:], " ")
		}
		if material != p.current.Material && len(p.current.Faces) > 0 {
			name := p.current.Name
			p.finish()
			p.current = Submesh{Name: name}
		}
		p.current.Material = material

	case "o", "g":
		name := DefaultSubmesh
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		if len(p.current.Faces) == 0 {
			p.current.Name = name
			break
		}
		material := p.current.Material
		p.finish()
		p.current = Submesh{Name: name, Material: material}

	case "mtllib":
		if len(fields) < 2 {
			return ErrFieldCount
		}
		m.MaterialLib = strings.Join(fields[1:], " ")

	default:
		p.log.Debug("ignoring obj statement", zap.String("keyword", fields[0]), zap.Int("line", p.line))
	}
	return nil
}

// face parses one polygon and fan-triangulates it. A texcoord or normal
// index outside its pool keeps the face and is recorded as a warning;
// Reindex leaves those attributes zero.
func (p *objParser) face(tokens []string) error {
	if len(tokens) < 3 {
		return ErrFieldCount
	}
	verts := make([]IndexTriplet, len(tokens))
	var stray error
	for i, tok := range tokens {
		t, bad, err := p.triplet(tok)
		if err != nil {
			return err
		}
		if stray == nil {
			stray = bad
		}
		verts[i] = t
	}
	for i := 1; i+1 < len(verts); i++ {
		p.current.Faces = append(p.current.Faces, Face{
			Vertices: [3]IndexTriplet{verts[0], verts[i], verts[i+1]},
		})
	}
	if stray != nil {
		p.warn("face attribute index out of range", stray)
	}
	return nil
}

// triplet parses "v", "v/vt", "v//vn" or "v/vt/vn". An out-of-range
// position is an error. An explicit texcoord or normal index outside its
// pool is returned as stray and kept in the triplet.
func (p *objParser) triplet(tok string) (t IndexTriplet, stray, err error) {
	parts := strings.SplitN(tok, "/", 3)
	m := p.model

	pos, err := resolveIndex(parts[0], len(m.Positions)/3)
	if err != nil {
		return IndexTriplet{}, nil, err
	}
	if pos < 0 || pos >= len(m.Positions)/3 {
		return IndexTriplet{}, nil, fmt.Errorf("%w: position %s of %d", ErrIndexRange, parts[0], len(m.Positions)/3)
	}
	t = IndexTriplet{Position: pos, TexCoord: 0, Normal: pos}

	if len(parts) > 1 && parts[1] != "" {
		n := len(m.TexCoords) / 2
		if t.TexCoord, err = resolveIndex(parts[1], n); err != nil {
			return IndexTriplet{}, nil, err
		}
		if t.TexCoord < 0 || t.TexCoord >= n {
			stray = fmt.Errorf("%w: texcoord %s of %d", ErrIndexRange, parts[1], n)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		n := len(m.Normals) / 3
		if t.Normal, err = resolveIndex(parts[2], n); err != nil {
			return IndexTriplet{}, nil, err
		}
		if stray == nil && (t.Normal < 0 || t.Normal >= n) {
			stray = fmt.Errorf("%w: normal %s of %d", ErrIndexRange, parts[2], n)
		}
	}
	return t, stray, nil
}

// resolveIndex converts a 1-based or negative relative index to 0-based.
func resolveIndex(s string, poolSize int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return poolSize + n, nil
	default:
		return 0, ErrZeroIndex
	}
}

// finish closes the open submesh. Empty submeshes are dropped.
func (p *objParser) finish() {
	sm := p.current
	p.current = Submesh{}
	if len(sm.Faces) == 0 {
		return
	}
	sm.Indices = make([]uint32, 0, len(sm.Faces)*3)
	for _, f := range sm.Faces {
		for _, v := range f.Vertices {
			sm.Indices = append(sm.Indices, uint32(v.Position))
		}
	}
	p.model.Submeshes = append(p.model.Submeshes, sm)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, ErrFieldCount
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// FlipV converts between OBJ and image texture row order.
func FlipV(v float32) float32 {
	return 1 - v
}
