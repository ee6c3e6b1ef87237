package models

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// LoadGLB loads a binary GLTF (.glb/.gltf) file, keeping vertex
// positions and triangle topology. Materials, normals, and textures are
// ignored; faces are filled flat at quarter alpha of DefaultColor.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := newTriangleBuilder(filepath.Base(path))
	fill := FaceAlpha(DefaultColor, 0.25)

	for _, m := range doc.Meshes {
		if err := loadGLTFMesh(doc, m, b, fill); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	return b.build()
}

// loadGLTFMesh extracts triangle geometry from one GLTF mesh.
func loadGLTFMesh(doc *gltf.Document, m *gltf.Mesh, b *triangleBuilder, fill color.RGBA) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		baseVertex := len(b.mesh.Vertices)
		for _, p := range positions {
			b.addVertex(p)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				err := b.addTriangle(
					baseVertex+indices[i],
					baseVertex+indices[i+1],
					baseVertex+indices[i+2],
					DefaultColor, fill,
				)
				if err != nil {
					return err
				}
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				err := b.addTriangle(baseVertex+i, baseVertex+i+1, baseVertex+i+2, DefaultColor, fill)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	stride := accessorStride(doc, accessor, 12) // 3 floats * 4 bytes
	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		offset := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
			float64(readFloat32(data[offset+8:])),
		)
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	data, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	var width int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		width = 1
	case gltf.ComponentUshort:
		width = 2
	case gltf.ComponentUint:
		width = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}
	stride := accessorStride(doc, accessor, width)

	result := make([]int, accessor.Count)
	for i := range result {
		offset := i * stride
		switch width {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(uint16(data[offset]) | uint16(data[offset+1])<<8)
		case 4:
			result[i] = int(uint32(data[offset]) |
				uint32(data[offset+1])<<8 |
				uint32(data[offset+2])<<16 |
				uint32(data[offset+3])<<24)
		}
	}
	return result, nil
}

// accessorBytes returns the raw byte slice an accessor reads from,
// starting at the accessor's first element.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" {
		// External file - need to load relative to document
		return nil, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	return buffer.Data[start:], nil
}

// accessorStride returns the byte stride between elements, falling back
// to the packed element size when the buffer view is tightly packed.
func accessorStride(doc *gltf.Document, accessor *gltf.Accessor, packed int) int {
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.ByteStride != 0 {
		return bufferView.ByteStride
	}
	return packed
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
