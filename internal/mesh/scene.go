package mesh

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// decodeSceneContainer parses a binary glTF container and flattens its scene
// graph into a single Mesh. Hierarchy, materials, and textures are discarded;
// the viewer only needs the triangle geometry.
func decodeSceneContainer(data []byte) (*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAsset, err)
	}
	return flattenDocument(doc)
}

// flattenDocument concatenates the triangle primitives of every mesh in the
// document. Normals are kept only when every primitive supplies them;
// otherwise they are dropped and derived later.
func flattenDocument(doc *gltf.Document) (*Mesh, error) {
	out := &Mesh{}
	normalsComplete := true

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("%w: positions: %v", ErrMalformedAsset, err)
			}

			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, _ = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("%w: indices: %v", ErrMalformedAsset, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			base := uint32(len(out.Positions))
			for _, idx := range indices {
				if idx >= uint32(len(positions)) {
					return nil, fmt.Errorf("%w: index %d out of range", ErrMalformedAsset, idx)
				}
				out.Indices = append(out.Indices, base+idx)
			}
			out.Positions = append(out.Positions, positions...)

			if len(normals) == len(positions) && len(positions) > 0 {
				out.Normals = append(out.Normals, normals...)
			} else {
				normalsComplete = false
			}
		}
	}

	if !normalsComplete || len(out.Normals) != len(out.Positions) {
		out.Normals = nil
	}
	if out.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrMalformedAsset)
	}
	return out, nil
}
