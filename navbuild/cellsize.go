package navbuild

import "math"

// CellSize derives a voxel cell size from a footprint area (x extent times z
// extent of the geometry bounds): cbrt(area) / 50. The constant is tuned so
// that footprints between ~200 and ~350000 square units land roughly in the
// 0.1 to 1.5 range.
func CellSize(area float64) float64 {
	return math.Cbrt(area) / 50
}

// ResolveCellSize returns the cell size a build should use. With
// AutoCellSize off the configured value is used verbatim. A degenerate
// footprint (zero area) falls back to the configured value.
func ResolveCellSize(cfg Config, area float64) float32 {
	if !cfg.AutoCellSize {
		return cfg.CellSize
	}
	cs := CellSize(area)
	if cs <= 0 || math.IsNaN(cs) {
		return cfg.CellSize
	}
	return float32(cs)
}
