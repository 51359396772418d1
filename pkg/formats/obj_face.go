package formats

import (
	"errors"
	gomath "math"
	"strconv"
	"strings"
)

var errMalformedReference = errors.New("malformed face reference")

// RawFaceReference is one v, v/vt, v//vn or v/vt/vn token of an f line
// before resolution. Indices are 1-based, or negative to count back from
// the end of the table.
type RawFaceReference struct {
	Vertex     int
	Texture    int
	Normal     int
	HasTexture bool
	HasNormal  bool
}

// SameShape reports whether both references carry the same optional
// attributes.
func (r RawFaceReference) SameShape(other RawFaceReference) bool {
	return r.HasTexture == other.HasTexture && r.HasNormal == other.HasNormal
}

// FaceReference is a resolved face reference with 0-based indices. It is
// comparable and is used as the vertex deduplication key.
type FaceReference struct {
	Vertex     uint32
	Texture    uint32
	Normal     uint32
	HasTexture bool
	HasNormal  bool
}

// ParseFaceReference parses a single face token. An empty field between two
// slashes means the attribute is absent.
func ParseFaceReference(token string) (RawFaceReference, error) {
	var ref RawFaceReference

	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return ref, errMalformedReference
	}

	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ref, err
	}
	ref.Vertex = int(v)

	if len(parts) > 1 && parts[1] != "" {
		vt, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return ref, err
		}
		ref.Texture = int(vt)
		ref.HasTexture = true
	}

	if len(parts) > 2 && parts[2] != "" {
		vn, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return ref, err
		}
		ref.Normal = int(vn)
		ref.HasNormal = true
	}

	return ref, nil
}

// ResolveIndex converts a 1-based or negative OBJ index into a 0-based index
// into a table of length n.
//
//	i > 0: i-1, valid when i <= n
//	i < 0: n-|i|, valid when |i| <= n
//	i == 0: always invalid
//
// A table too large for a uint32 index is reported as out of bound too.
func ResolveIndex(i, n int) (uint32, error) {
	if n < 0 || uint64(n) > gomath.MaxUint32 {
		return 0, &IndexOutOfBoundError{Index: i}
	}
	switch {
	case i > 0 && i <= n:
		return uint32(i - 1), nil
	case i < 0 && i >= -n:
		return uint32(n + i), nil
	}
	return 0, &IndexOutOfBoundError{Index: i}
}

// resolve resolves every index of ref against the current table lengths.
func (r RawFaceReference) resolve(positions, texcoords, normals int) (FaceReference, error) {
	var out FaceReference
	var err error

	if out.Vertex, err = ResolveIndex(r.Vertex, positions); err != nil {
		return out, err
	}
	if r.HasTexture {
		if out.Texture, err = ResolveIndex(r.Texture, texcoords); err != nil {
			return out, err
		}
		out.HasTexture = true
	}
	if r.HasNormal {
		if out.Normal, err = ResolveIndex(r.Normal, normals); err != nil {
			return out, err
		}
		out.HasNormal = true
	}
	return out, nil
}

// Triangulate splits a polygon into a triangle fan anchored at its first
// vertex: (v0,v1,v2), (v0,v2,v3), ... Exact for convex polygons only;
// concave input may yield overlapping triangles. Fewer than three vertices
// yield no triangles.
func Triangulate[T any](polygon []T) [][3]T {
	if len(polygon) < 3 {
		return nil
	}
	tris := make([][3]T, 0, len(polygon)-2)
	for i := 1; i+1 < len(polygon); i++ {
		tris = append(tris, [3]T{polygon[0], polygon[i], polygon[i+1]})
	}
	return tris
}
