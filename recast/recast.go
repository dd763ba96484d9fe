package recast

import (
	"fmt"
	"math"

	"github.com/gorustyt/floorplan/common"
	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
)

// / The default area id used to indicate a walkable polygon.
const RC_WALKABLE_AREA = 63

// / Represents the null area. Spans with this area are not walkable.
const RC_NULL_AREA = 0

// / Defines the maximum value for rcSpan::smin and rcSpan::smax.
const RC_SPAN_MAX_HEIGHT = (1 << 13) - 1

// maxGridCells bounds the voxel grid a single build may allocate.
const maxGridCells = 1 << 26

// / Specifies a configuration to use when performing Recast builds.
type RcConfig struct {
	/// The width of the field along the x-axis. [Limit: >= 0] [Units: vx]
	Width int

	/// The height of the field along the z-axis. [Limit: >= 0] [Units: vx]
	Height int

	/// The xz-plane cell size to use for fields. [Limit: > 0] [Units: wu]
	Cs float32

	/// The y-axis cell size to use for fields. [Limit: > 0] [Units: wu]
	Ch float32

	/// The minimum bounds of the field's AABB. [(x, y, z)] [Units: wu]
	Bmin [3]float32

	/// The maximum bounds of the field's AABB. [(x, y, z)] [Units: wu]
	Bmax [3]float32

	/// The maximum slope that is considered walkable. [Limits: 0 <= value < 90] [Units: Degrees]
	WalkableSlopeAngle float32

	/// Minimum floor to 'ceiling' height that will still allow the floor area to
	/// be considered walkable. [Limit: >= 3] [Units: vx]
	WalkableHeight int

	/// Maximum ledge height that is considered to still be traversable. [Limit: >=0] [Units: vx]
	WalkableClimb int

	/// The distance to erode/shrink the walkable area of the heightfield away from
	/// obstructions.  [Limit: >=0] [Units: vx]
	WalkableRadius int

	/// The minimum number of cells allowed to form isolated island areas. [Limit: >=0] [Units: vx]
	MinRegionArea int
}

// newRcConfig converts world-unit agent settings into voxel units over the
// given bounds.
func newRcConfig(c navbuild.Config, bounds geom.Bounds) (*RcConfig, error) {
	if !(c.CellSize > 0) || !(c.CellHeight > 0) {
		return nil, fmt.Errorf("recast: cell size and cell height must be positive, got %v and %v", c.CellSize, c.CellHeight)
	}
	cfg := &RcConfig{
		Cs:                 c.CellSize,
		Ch:                 c.CellHeight,
		WalkableSlopeAngle: c.AgentMaxSlope,
		WalkableHeight:     int(math.Ceil(float64(c.AgentHeight / c.CellHeight))),
		WalkableClimb:      int(math.Floor(float64(c.AgentMaxClimb / c.CellHeight))),
		WalkableRadius:     int(math.Ceil(float64(c.AgentRadius / c.CellSize))),
		MinRegionArea:      int(common.Sqr(c.RegionMinSize)), // Note: area = size*size
	}
	copy(cfg.Bmin[:], bounds.Min[:])
	copy(cfg.Bmax[:], bounds.Max[:])
	cfg.Width, cfg.Height = RcCalcGridSize(cfg.Bmin[:], cfg.Bmax[:], cfg.Cs)
	if cfg.Width <= 0 || cfg.Height <= 0 {
		// A footprint thinner than one cell still gets a single row or column.
		cfg.Width, cfg.Height = max(cfg.Width, 1), max(cfg.Height, 1)
	}
	if cfg.Width*cfg.Height > maxGridCells {
		return nil, fmt.Errorf("recast: %d x %d cells exceeds the grid limit, increase the cell size", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

func RcCalcGridSize(minBounds, maxBounds []float32, cellSize float32) (sizeX, sizeZ int) {
	sizeX = int((maxBounds[0]-minBounds[0])/cellSize + 0.5)
	sizeZ = int((maxBounds[2]-minBounds[2])/cellSize + 0.5)
	return sizeX, sizeZ
}

func calcTriNormal(v0, v1, v2 []float32, faceNormal []float32) {
	e0 := make([]float32, 3)
	e1 := make([]float32, 3)
	common.Vsub(e0, v1, v0)
	common.Vsub(e1, v2, v0)
	common.Vcross(faceNormal, e0, e1)
	common.Vnormalize(faceNormal)
}

// / Sets the area id of all triangles with a slope below the specified value
// / to #RC_WALKABLE_AREA.
func RcMarkWalkableTriangles(walkableSlopeAngle float32, verts []float32, tris []uint32, triAreaIDs []int) {
	walkableThr := float32(math.Cos(float64(walkableSlopeAngle) / 180.0 * math.Pi))

	norm := make([]float32, 3)
	for i := 0; i < len(tris)/3; i++ {
		tri := common.GetVert3(tris, i)
		calcTriNormal(common.GetVert3(verts, tri[0]), common.GetVert3(verts, tri[1]), common.GetVert3(verts, tri[2]), norm)
		// Check if the face is walkable.
		if norm[1] > walkableThr {
			triAreaIDs[i] = RC_WALKABLE_AREA
		}
	}
}
