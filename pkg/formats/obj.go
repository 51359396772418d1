// Package formats provides parsers for 3D model file formats.
// Wavefront OBJ text format loader.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scop/pkg/math"
)

// maxOBJLineSize bounds a single OBJ line.
const maxOBJLineSize = 1 << 20

// OBJStats counts what a parse consumed.
type OBJStats struct {
	Lines     int
	Positions int
	TexCoords int
	Normals   int
	Faces     int
	Triangles int
	Warnings  int
}

// OBJOption configures ParseOBJ.
type OBJOption func(*objParser)

// WithLogger sets the logger receiving non-fatal warnings.
func WithLogger(l *zap.Logger) OBJOption {
	return func(p *objParser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithStats fills s with parse statistics on success.
func WithStats(s *OBJStats) OBJOption {
	return func(p *objParser) {
		p.statsOut = s
	}
}

// positionRecord is one parsed v line.
type positionRecord struct {
	Position math.Vec3[float32]
	Color    math.Vec3[float32]
	HasColor bool
}

// objParser owns every accumulator of a single parse.
type objParser struct {
	log      *zap.Logger
	statsOut *OBJStats
	stats    OBJStats

	positions  []positionRecord
	texcoords  []math.Vec2[float32]
	normals    []math.Vec3[float32]
	references []FaceReference

	lineNo int
}

// ParseOBJ reads Wavefront OBJ text and returns a centered, deduplicated
// model. The first error aborts the parse and is returned as *ParseError.
func ParseOBJ(r io.Reader, opts ...OBJOption) (*Model, error) {
	p := &objParser{log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if err := p.parseLine(line); err != nil {
			return nil, &ParseError{LineNo: p.lineNo, Line: line, HasLine: true, Err: err}
		}
		p.lineNo++
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{LineNo: p.lineNo, Err: err}
	}

	model := buildModel(p.positions, p.texcoords, p.references)

	p.stats.Lines = p.lineNo
	p.stats.Positions = len(p.positions)
	p.stats.TexCoords = len(p.texcoords)
	p.stats.Normals = len(p.normals)
	p.stats.Triangles = len(p.references) / 3
	if p.statsOut != nil {
		*p.statsOut = p.stats
	}

	return model, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string, opts ...OBJOption) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f, opts...)
}

func (p *objParser) parseLine(line string) error {
	content := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(content) == "" || strings.HasPrefix(content, "#") {
		return nil
	}

	keyword, rest, ok := strings.Cut(content, " ")
	if !ok {
		return ErrInvalidLine
	}
	args := strings.Fields(rest)

	switch keyword {
	case "v":
		return p.parsePosition(args)
	case "vt":
		return p.parseTexCoord(args)
	case "vn":
		return p.parseNormal(args)
	case "f":
		return p.parseFace(args)
	case "s":
		return parseSmoothing(args)
	case "g", "o", "mtllib", "usemtl":
		p.warn("directive not implemented, ignoring", keyword)
		return nil
	case "p", "l", "curv", "curv2D", "surf", "mg", "parm", "trim", "hole", "scrv", "sp", "end", "con":
		return unsupported(keyword)
	default:
		return invalidEntry(keyword)
	}
}

func (p *objParser) warn(msg, directive string) {
	p.stats.Warnings++
	p.log.Warn(msg,
		zap.Int("line", p.lineNo),
		zap.String("directive", directive),
	)
}

// parseFloats parses every argument as a 32-bit float.
func parseFloats(args []string) ([]float32, error) {
	values := make([]float32, len(args))
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, invalidParameter(i, err)
		}
		values[i] = float32(f)
	}
	return values, nil
}

// parsePosition handles "v x y z", "v x y z w" and "v x y z r g b".
func (p *objParser) parsePosition(args []string) error {
	if n := len(args); n != 3 && n != 4 && n != 6 {
		return ErrInvalidParameterNumber
	}
	values, err := parseFloats(args)
	if err != nil {
		return err
	}

	rec := positionRecord{Position: math.Vec3[float32]{X: values[0], Y: values[1], Z: values[2]}}
	switch len(values) {
	case 4:
		p.warn("trailing w component ignored", "v")
	case 6:
		rec.Color = math.Vec3[float32]{X: values[3], Y: values[4], Z: values[5]}
		rec.HasColor = true
	}
	p.positions = append(p.positions, rec)
	return nil
}

// parseTexCoord handles "vt u v"; a trailing w is ignored like on v lines.
func (p *objParser) parseTexCoord(args []string) error {
	if n := len(args); n != 2 && n != 3 {
		return ErrInvalidParameterNumber
	}
	values, err := parseFloats(args)
	if err != nil {
		return err
	}
	if len(values) == 3 {
		p.warn("trailing w component ignored", "vt")
	}
	p.texcoords = append(p.texcoords, math.Vec2[float32]{X: values[0], Y: values[1]})
	return nil
}

// parseNormal handles "vn x y z". Normals are not required to be unit length.
func (p *objParser) parseNormal(args []string) error {
	if len(args) != 3 {
		return ErrInvalidParameterNumber
	}
	values, err := parseFloats(args)
	if err != nil {
		return err
	}
	p.normals = append(p.normals, math.Vec3[float32]{X: values[0], Y: values[1], Z: values[2]})
	return nil
}

// parseFace parses, shape-checks and resolves every token, then appends the
// fan triangulation of the polygon to the reference list.
func (p *objParser) parseFace(args []string) error {
	resolved := make([]FaceReference, 0, len(args))

	var first RawFaceReference
	for i, token := range args {
		raw, err := ParseFaceReference(token)
		if err != nil {
			return invalidParameter(i, err)
		}
		if i == 0 {
			first = raw
		} else if !raw.SameShape(first) {
			return invalidParameter(i, nil)
		}

		ref, err := raw.resolve(len(p.positions), len(p.texcoords), len(p.normals))
		if err != nil {
			return err
		}
		resolved = append(resolved, ref)
	}

	if len(resolved) < 3 {
		return ErrInvalidParameterNumber
	}

	for _, tri := range Triangulate(resolved) {
		p.references = append(p.references, tri[:]...)
	}
	p.stats.Faces++
	return nil
}

// parseSmoothing accepts only "s off".
func parseSmoothing(args []string) error {
	if len(args) != 1 {
		return ErrInvalidParameterNumber
	}
	switch args[0] {
	case "off":
		return nil
	case "on":
		return unsupported("s on")
	default:
		return invalidEntry(args[0])
	}
}
