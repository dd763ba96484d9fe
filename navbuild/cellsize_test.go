package navbuild

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellSize_Formula(t *testing.T) {
	assert.InDelta(t, math.Cbrt(200)/50, CellSize(200), 1e-12)
	assert.InDelta(t, 0.117, CellSize(200), 1e-3)
	assert.InDelta(t, 1.41, CellSize(350000), 1e-2)
	assert.InDelta(t, 0.2, CellSize(1000), 1e-12)
}

func TestCellSize_MonotonicAndPositive(t *testing.T) {
	prev := 0.0
	for area := 1.0; area < 1e7; area *= 1.7 {
		cs := CellSize(area)
		assert.Greater(t, cs, 0.0)
		assert.GreaterOrEqual(t, cs, prev)
		prev = cs
	}
}

func TestResolveCellSize(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, float32(0.166), ResolveCellSize(cfg, 125000), "manual size is used verbatim")

	cfg.AutoCellSize = true
	assert.InDelta(t, 1.0, ResolveCellSize(cfg, 125000), 1e-6)
	assert.Equal(t, float32(0.166), ResolveCellSize(cfg, 0), "degenerate footprint falls back")
}
