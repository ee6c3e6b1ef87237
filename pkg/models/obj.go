package models

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// DefaultColor is the wireframe color given to meshes loaded from model
// files; faces are filled at quarter alpha.
var DefaultColor = color.RGBA{200, 200, 200, 255}

// LoadOBJ loads a Wavefront OBJ file, keeping only the geometry the
// renderer needs: vertex positions and triangulated faces. Faces with
// more than three vertices are fan-triangulated. Texture and normal
// indices (f a/at/an) are parsed and discarded.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	b := newTriangleBuilder(path)
	fill := FaceAlpha(DefaultColor, 0.25)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				coords[i], err = strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
			b.addVertex(math3d.V3(coords[0], coords[1], coords[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseOBJIndex(ref, len(b.mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			for i := 1; i < len(idx)-1; i++ {
				if err := b.addTriangle(idx[0], idx[i], idx[i+1], DefaultColor, fill); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
		}
		// Ignore vt, vn, usemtl, groups, etc.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return b.build()
}

// parseOBJIndex resolves an OBJ face vertex reference ("7", "7/1",
// "7//3", "-1") to a zero-based vertex index.
func parseOBJIndex(ref string, vertexCount int) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", ref, err)
	}
	switch {
	case n > 0:
		n-- // OBJ indices are 1-based
	case n < 0:
		n += vertexCount // negative indices count from the end
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}
	if n < 0 || n >= vertexCount {
		return 0, fmt.Errorf("face index %s out of range", ref)
	}
	return n, nil
}
