package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gorustyt/floorplan/common"
)

// Transform returns a copy of m with every position multiplied by mat.
// Indices are copied unchanged.
func Transform(m *Mesh, mat mgl32.Mat4) *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{Positions: make([]float32, len(m.Positions))}
	n := len(m.Positions) / 3
	for i := 0; i < n; i++ {
		common.TransformPoint(common.GetVert3(out.Positions, i), mat, common.GetVert3(m.Positions, i))
	}
	if m.Indices != nil {
		out.Indices = append([]uint32(nil), m.Indices...)
	}
	return out
}
