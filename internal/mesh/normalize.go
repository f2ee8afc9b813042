package mesh

import (
	"errors"
	"fmt"
)

// CanonicalSize is the target maximum bounding dimension after
// normalization, so camera defaults behave consistently across assets.
const CanonicalSize = 2.0

// ErrDegenerateGeometry is returned when a mesh has zero extent and cannot
// be scaled to the canonical size.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Normalize returns a new Mesh recentered at the origin and uniformly
// rescaled so its largest bounding dimension equals CanonicalSize. The input
// mesh is never mutated. A zero-extent mesh fails with ErrDegenerateGeometry.
func Normalize(m *Mesh) (*Mesh, error) {
	bounds := ComputeBounds(m.Positions)
	center := bounds.Center()
	extent := bounds.Extent()

	maxDim := extent[0]
	if extent[1] > maxDim {
		maxDim = extent[1]
	}
	if extent[2] > maxDim {
		maxDim = extent[2]
	}
	if maxDim <= 0 {
		return nil, fmt.Errorf("%w: zero extent", ErrDegenerateGeometry)
	}

	scale := float32(CanonicalSize) / maxDim
	positions := make([][3]float32, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = [3]float32{
			(p[0] - center[0]) * scale,
			(p[1] - center[1]) * scale,
			(p[2] - center[2]) * scale,
		}
	}

	// Indices and normals are unchanged by a uniform scale and translation.
	return &Mesh{
		Positions: positions,
		Indices:   m.Indices,
		Normals:   m.Normals,
	}, nil
}
