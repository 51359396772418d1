package formats

import (
	gomath "math"
	"unsafe"

	"github.com/Faultbox/scop/pkg/math"
)

// Vertex is one render-ready vertex. The layout is interleaved as
// position (3 x float32), color (3 x float32), texture coordinates
// (2 x float32) and can be uploaded as-is.
type Vertex struct {
	Position  math.Vec3[float32]
	Color     math.Vec3[float32]
	TexCoords math.Vec2[float32]
}

// Interleaved vertex layout, in bytes.
const (
	VertexStride   = int(unsafe.Sizeof(Vertex{}))
	PositionOffset = int(unsafe.Offsetof(Vertex{}.Position))
	ColorOffset    = int(unsafe.Offsetof(Vertex{}.Color))
	TexCoordOffset = int(unsafe.Offsetof(Vertex{}.TexCoords))
)

// FloatsPerVertex is the number of float32 values per interleaved vertex.
const FloatsPerVertex = 8

// Model is a deduplicated triangle mesh. Every index is < len(Vertices) and
// len(Indices) is a multiple of 3.
type Model struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (m *Model) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangles returns the index triples.
func (m *Model) Triangles() [][3]uint32 {
	tris := make([][3]uint32, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]})
	}
	return tris
}

// VertexData flattens the vertices into the interleaved float layout.
func (m *Model) VertexData() []float32 {
	data := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Color.X, v.Color.Y, v.Color.Z,
			v.TexCoords.X, v.TexCoords.Y,
		)
	}
	return data
}

// Bounds returns the component-wise min and max of the output positions.
func (m *Model) Bounds() (lo, hi math.Vec3[float32]) {
	positions := make([]math.Vec3[float32], len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
	}
	return bounds(positions)
}

func bounds(positions []math.Vec3[float32]) (lo, hi math.Vec3[float32]) {
	if len(positions) == 0 {
		return lo, hi
	}
	lo, hi = positions[0], positions[0]
	for _, p := range positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// buildModel centers the positions on their bounding-box midpoint and
// assigns one output vertex per distinct face reference, in first-seen order.
func buildModel(positions []positionRecord, texcoords []math.Vec2[float32], refs []FaceReference) *Model {
	raw := make([]math.Vec3[float32], len(positions))
	for i, rec := range positions {
		raw[i] = rec.Position
	}
	lo, hi := bounds(raw)
	center := lo.Add(hi).Scale(0.5)

	model := &Model{Indices: make([]uint32, 0, len(refs))}
	seen := make(map[FaceReference]uint32, len(refs))

	for _, ref := range refs {
		idx, ok := seen[ref]
		if !ok {
			idx = uint32(len(model.Vertices))
			seen[ref] = idx

			rec := positions[ref.Vertex]
			v := Vertex{
				Position: rec.Position.Sub(center),
			}
			if rec.HasColor {
				v.Color = rec.Color
			}
			switch {
			case ref.HasTexture:
				v.TexCoords = texcoords[ref.Texture]
			case len(texcoords) == 0:
				v.TexCoords = synthesizeTexCoords(rec.Position, center, lo)
			}
			model.Vertices = append(model.Vertices, v)
		}
		model.Indices = append(model.Indices, idx)
	}

	return model
}

// synthesizeTexCoords gives untextured models a deterministic UV:
//
//	u = acos(dot(p.xz, (0,1)) / |p.xz|) + |p.xz - center.xz|
//	v = p.y - min.y
//
// This is not a real unwrap. Unlike the plain formula, which yields NaN
// there, a point on the Y axis gets angle 0, and the acos argument is
// clamped to [-1, 1] against rounding.
func synthesizeTexCoords(p, center, lo math.Vec3[float32]) math.Vec2[float32] {
	pos2d := p.XZ()
	center2d := center.XZ()

	var angle float32
	if n := pos2d.Norm(); n != 0 {
		c := float64(pos2d.Dot(math.Vec2[float32]{X: 0, Y: 1}) / n)
		angle = float32(gomath.Acos(max(-1, min(1, c))))
	}

	return math.Vec2[float32]{
		X: angle + pos2d.Distance(center2d),
		Y: p.Y - lo.Y,
	}
}
