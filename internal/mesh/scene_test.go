package mesh

import (
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func buildTriangleDoc(t *testing.T, withNormals bool) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	attrs := map[string]int{gltf.POSITION: positions}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		})
	}

	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}
	return doc
}

func TestFlattenDocument_Triangle(t *testing.T) {
	m, err := flattenDocument(buildTriangleDoc(t, false))
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	if len(m.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(m.Positions))
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
	if m.HasNormals() {
		t.Error("expected no normals without NORMAL attribute")
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			t.Errorf("indices[%d] = %d out of range", i, idx)
		}
	}
}

func TestFlattenDocument_KeepsSuppliedNormals(t *testing.T) {
	m, err := flattenDocument(buildTriangleDoc(t, true))
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !m.HasNormals() {
		t.Fatal("expected supplied normals to be kept")
	}
	if m.Normals[0] != [3]float32{0, 0, 1} {
		t.Errorf("normals[0] = %v, want (0,0,1)", m.Normals[0])
	}
}

func TestFlattenDocument_ConcatenatesPrimitives(t *testing.T) {
	doc := gltf.NewDocument()

	posA := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idxA := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	posB := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	idxB := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Meshes = []*gltf.Mesh{
		{Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(idxA),
			Attributes: map[string]int{gltf.POSITION: posA},
		}}},
		{Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(idxB),
			Attributes: map[string]int{gltf.POSITION: posB},
		}}},
	}

	m, err := flattenDocument(doc)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(m.Positions) != 6 {
		t.Errorf("expected 6 positions, got %d", len(m.Positions))
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	// Second primitive's indices are rebased past the first's vertices.
	if m.Indices[3] != 3 {
		t.Errorf("indices[3] = %d, want 3", m.Indices[3])
	}
}

func TestFlattenDocument_Empty(t *testing.T) {
	_, err := flattenDocument(gltf.NewDocument())
	if !errors.Is(err, ErrMalformedAsset) {
		t.Errorf("expected ErrMalformedAsset, got %v", err)
	}
}

func TestDecodeSceneContainer_Garbage(t *testing.T) {
	_, err := Decode([]byte("not a glb container"), FormatSceneContainer)
	if !errors.Is(err, ErrMalformedAsset) {
		t.Errorf("expected ErrMalformedAsset, got %v", err)
	}
}
