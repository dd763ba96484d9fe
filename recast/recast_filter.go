package recast

import (
	"github.com/gorustyt/floorplan/common"
)

// spanOpenTop stands in for the top of the last span in a column.
const spanOpenTop = 0xffff

// / Represents a span in a heightfield.
type RcSpan struct {
	Smin int     ///< The lower limit of the span. [Limit: < #smax]
	Smax int     ///< The upper limit of the span. [Limit: <= #RC_SPAN_MAX_HEIGHT]
	Area int     ///< The area id assigned to the span.
	Next *RcSpan ///< The next span higher up in column.
}

// / A dynamic heightfield representing obstructed space.
type RcHeightfield struct {
	Width  int        ///< The width of the heightfield. (Along the x-axis in cell units.)
	Height int        ///< The height of the heightfield. (Along the z-axis in cell units.)
	Bmin   [3]float32 ///< The minimum bounds in world space. [(x, y, z)]
	Bmax   [3]float32 ///< The maximum bounds in world space. [(x, y, z)]
	Cs     float32    ///< The size of each cell. (On the xz-plane.)
	Ch     float32    ///< The height of each cell. (The minimum increment along the y-axis.)
	Spans  []*RcSpan  ///< Heightfield of spans (width*height).
}

func RcCreateHeightfield(cfg *RcConfig) *RcHeightfield {
	return &RcHeightfield{
		Width:  cfg.Width,
		Height: cfg.Height,
		Bmin:   cfg.Bmin,
		Bmax:   cfg.Bmax,
		Cs:     cfg.Cs,
		Ch:     cfg.Ch,
		Spans:  make([]*RcSpan, cfg.Width*cfg.Height),
	}
}

// SpanCount returns the number of spans in the heightfield.
func (hf *RcHeightfield) SpanCount() int {
	n := 0
	for _, s := range hf.Spans {
		for ; s != nil; s = s.Next {
			n++
		}
	}
	return n
}

// / Marks non-walkable spans as walkable if their maximum is within @p walkableClimb of the span below them.
func RcFilterLowHangingWalkableObstacles(walkableClimb int, heightfield *RcHeightfield) {
	xSize := heightfield.Width
	zSize := heightfield.Height

	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			var previousSpan *RcSpan
			previousWasWalkable := false
			previousArea := RC_NULL_AREA

			for span := heightfield.Spans[x+z*xSize]; span != nil; span = span.Next {
				walkable := span.Area != RC_NULL_AREA
				// If current span is not walkable, but there is walkable
				// span just below it, mark the span above it walkable too.
				if !walkable && previousWasWalkable {
					if common.Abs(span.Smax-previousSpan.Smax) <= walkableClimb {
						span.Area = previousArea
					}
				}
				// Copy walkable flag so that it cannot propagate
				// past multiple non-walkable objects.
				previousWasWalkable = walkable
				previousArea = span.Area
				previousSpan = span
			}
		}
	}
}

// / Marks spans that are ledges as not-walkable.
func RcFilterLedgeSpans(walkableHeight int, walkableClimb int, heightfield *RcHeightfield) {
	xSize := heightfield.Width
	zSize := heightfield.Height

	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			for span := heightfield.Spans[x+z*xSize]; span != nil; span = span.Next {
				// Skip non walkable spans.
				if span.Area == RC_NULL_AREA {
					continue
				}

				bot := span.Smax
				top := spanOpenTop
				if span.Next != nil {
					top = span.Next.Smin
				}
				// Find neighbours minimum height.
				minNeighborHeight := spanOpenTop

				// Min and max height of accessible neighbours.
				accessibleNeighborMinHeight := span.Smax
				accessibleNeighborMaxHeight := span.Smax

				for direction := 0; direction < 4; direction++ {
					dx := x + common.GetDirOffsetX(direction)
					dz := z + common.GetDirOffsetY(direction)
					// Skip neighbours which are out of bounds.
					if dx < 0 || dz < 0 || dx >= xSize || dz >= zSize {
						minNeighborHeight = min(minNeighborHeight, -walkableClimb-bot)
						continue
					}

					// From minus infinity to the first span.
					neighborSpan := heightfield.Spans[dx+dz*xSize]
					neighborBot := -walkableClimb
					neighborTop := spanOpenTop
					if neighborSpan != nil {
						neighborTop = neighborSpan.Smin
					}
					// Skip neighbour if the gap between the spans is too small.
					if min(top, neighborTop)-max(bot, neighborBot) > walkableHeight {
						minNeighborHeight = min(minNeighborHeight, neighborBot-bot)
					}

					// Rest of the spans.
					for ; neighborSpan != nil; neighborSpan = neighborSpan.Next {
						neighborBot = neighborSpan.Smax
						neighborTop = spanOpenTop
						if neighborSpan.Next != nil {
							neighborTop = neighborSpan.Next.Smin
						}

						// Skip neighbour if the gap between the spans is too small.
						if min(top, neighborTop)-max(bot, neighborBot) > walkableHeight {
							minNeighborHeight = min(minNeighborHeight, neighborBot-bot)

							// Find min/max accessible neighbour height.
							if common.Abs(neighborBot-bot) <= walkableClimb {
								accessibleNeighborMinHeight = min(accessibleNeighborMinHeight, neighborBot)
								accessibleNeighborMaxHeight = max(accessibleNeighborMaxHeight, neighborBot)
							}
						}
					}
				}

				// The current span is close to a ledge if the drop to any
				// neighbour span is less than the walkableClimb.
				if minNeighborHeight < -walkableClimb {
					span.Area = RC_NULL_AREA
				} else if accessibleNeighborMaxHeight-accessibleNeighborMinHeight > walkableClimb {
					// If the difference between all neighbours is too large,
					// we are at steep slope, mark the span as ledge.
					span.Area = RC_NULL_AREA
				}
			}
		}
	}
}

// / Marks walkable spans as not walkable if the clearance above the span is less than the specified height.
func RcFilterWalkableLowHeightSpans(walkableHeight int, heightfield *RcHeightfield) {
	xSize := heightfield.Width
	zSize := heightfield.Height
	// Remove walkable flag from spans which do not have enough
	// space above them for the agent to stand there.
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			for span := heightfield.Spans[x+z*xSize]; span != nil; span = span.Next {
				bot := span.Smax
				top := spanOpenTop
				if span.Next != nil {
					top = span.Next.Smin
				}
				if top-bot < walkableHeight {
					span.Area = RC_NULL_AREA
				}
			}
		}
	}
}
