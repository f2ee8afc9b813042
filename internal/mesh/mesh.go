// Package mesh provides decoding and normalization of 3D model assets.
package mesh

import gomath "math"

// Mesh holds decoded triangle geometry. A Mesh is immutable once produced;
// transforms return a new Mesh.
type Mesh struct {
	// Positions is the vertex position buffer, in vertex index order.
	Positions [][3]float32
	// Indices reference Positions in triples, one triple per triangle.
	Indices []uint32
	// Normals are per-vertex normals. Empty until supplied by the source
	// format or derived with DeriveNormals.
	Normals [][3]float32
}

// HasNormals reports whether the mesh carries a full set of vertex normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) == len(m.Positions) && len(m.Positions) > 0
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Extent returns the size of the bounding box along each axis.
func (b Bounds) Extent() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// ComputeBounds returns the bounding box over all positions.
func ComputeBounds(positions [][3]float32) Bounds {
	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for _, p := range positions {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}

// DeriveNormals returns a copy of m with per-vertex normals computed from
// face winding. Face normals are accumulated at each referenced vertex and
// normalized, so shared vertices get smooth normals and duplicated vertices
// keep flat face normals. If m already has normals it is returned unchanged.
func DeriveNormals(m *Mesh) *Mesh {
	if m.HasNormals() {
		return m
	}

	normals := make([][3]float32, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Positions[i0]
		p1 := m.Positions[i1]
		p2 := m.Positions[i2]

		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := cross(e1, e2)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx][0] += n[0]
			normals[idx][1] += n[1]
			normals[idx][2] += n[2]
		}
	}
	for i := range normals {
		normals[i] = normalize(normals[i])
	}

	return &Mesh{
		Positions: m.Positions,
		Indices:   m.Indices,
		Normals:   normals,
	}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := sqrtf(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		// Degenerate faces contribute nothing; point up so shading stays sane.
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

func sqrtf(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}
