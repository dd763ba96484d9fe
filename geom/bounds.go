package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gorustyt/floorplan/common"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// ComputeBounds returns the bounding box of a flat position buffer. ok is
// false when the buffer holds no complete vertex.
func ComputeBounds(positions []float32) (b Bounds, ok bool) {
	n := len(positions) / 3
	if n == 0 {
		return Bounds{}, false
	}
	bmin := make([]float32, 3)
	bmax := make([]float32, 3)
	copy(bmin, positions[:3])
	copy(bmax, positions[:3])
	for i := 1; i < n; i++ {
		v := common.GetVert3(positions, i)
		common.Vmin(bmin, v)
		common.Vmax(bmax, v)
	}
	return Bounds{Min: common.ToVec3(bmin), Max: common.ToVec3(bmax)}, true
}

// IsFinite reports whether both corners are free of NaN and infinities.
func (b Bounds) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if !common.IsFinite(b.Min[i]) || !common.IsFinite(b.Max[i]) {
			return false
		}
	}
	return true
}

func (b Bounds) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Bounds) MaxExtent() float32 {
	e := b.Extents()
	return max(e[0], e[1], e[2])
}

// FootprintArea is the horizontal area of the box: x extent times z extent.
func (b Bounds) FootprintArea() float64 {
	e := b.Extents()
	return float64(e[0]) * float64(e[2])
}
