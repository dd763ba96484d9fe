package recast

import (
	"context"

	"github.com/gorustyt/floorplan/common"
)

const rcNotConnected = -1

// walkSpan is the open space on top of a walkable heightfield span.
type walkSpan struct {
	x, z   int
	y      int // floor, the span's smax
	top    int // ceiling, the next span's smin
	con    [4]int
	dist   int
	region int
	alive  bool
}

// RcWalkableField is the compact set of walkable span tops with their
// 4-neighbour connections.
type RcWalkableField struct {
	Width, Height int
	spans         []walkSpan
	cells         [][2]int // per column: first span index, span count
}

// / Builds the walkable field from the heightfield, connecting neighbouring
// / floors whose clearance admits the agent and whose step is climbable.
func RcBuildWalkableField(ctx context.Context, walkableHeight, walkableClimb int, hf *RcHeightfield) (*RcWalkableField, error) {
	f := &RcWalkableField{
		Width:  hf.Width,
		Height: hf.Height,
		cells:  make([][2]int, hf.Width*hf.Height),
	}
	for z := 0; z < hf.Height; z++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < hf.Width; x++ {
			c := x + z*hf.Width
			f.cells[c][0] = len(f.spans)
			for s := hf.Spans[c]; s != nil; s = s.Next {
				if s.Area == RC_NULL_AREA {
					continue
				}
				top := spanOpenTop
				if s.Next != nil {
					top = s.Next.Smin
				}
				f.spans = append(f.spans, walkSpan{
					x: x, z: z, y: s.Smax, top: top,
					con:   [4]int{rcNotConnected, rcNotConnected, rcNotConnected, rcNotConnected},
					alive: true,
				})
			}
			f.cells[c][1] = len(f.spans) - f.cells[c][0]
		}
	}

	for i := range f.spans {
		s := &f.spans[i]
		for dir := 0; dir < 4; dir++ {
			nx := s.x + common.GetDirOffsetX(dir)
			nz := s.z + common.GetDirOffsetY(dir)
			if nx < 0 || nz < 0 || nx >= f.Width || nz >= f.Height {
				continue
			}
			cell := f.cells[nx+nz*f.Width]
			for k := cell[0]; k < cell[0]+cell[1]; k++ {
				ns := &f.spans[k]
				bot := max(s.y, ns.y)
				top := min(s.top, ns.top)
				// Check that the gap between the spans is walkable,
				// and that the climb height between the gaps is not too high.
				if top-bot >= walkableHeight && common.Abs(ns.y-s.y) <= walkableClimb {
					s.con[dir] = k
					break
				}
			}
		}
	}
	return f, nil
}

// SpanCount returns the number of surviving walkable spans.
func (f *RcWalkableField) SpanCount() int {
	n := 0
	for i := range f.spans {
		if f.spans[i].alive {
			n++
		}
	}
	return n
}

func (f *RcWalkableField) neighbour(s *walkSpan, dir int) *walkSpan {
	if s.con[dir] == rcNotConnected {
		return nil
	}
	n := &f.spans[s.con[dir]]
	if !n.alive {
		return nil
	}
	return n
}

// / Erodes the walkable area by the agent radius: spans closer than
// / @p radius cells to an unwalkable neighbour or the field edge are removed.
func RcErodeWalkableArea(ctx context.Context, radius int, f *RcWalkableField) error {
	if radius <= 0 {
		return nil
	}
	queue := make([]int, 0, len(f.spans))
	for i := range f.spans {
		s := &f.spans[i]
		s.dist = 0
		if !s.alive {
			continue
		}
		for dir := 0; dir < 4; dir++ {
			if f.neighbour(s, dir) == nil {
				s.dist = 1
				queue = append(queue, i)
				break
			}
		}
	}
	for head := 0; head < len(queue); head++ {
		if head%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s := &f.spans[queue[head]]
		for dir := 0; dir < 4; dir++ {
			n := f.neighbour(s, dir)
			if n == nil || n.dist != 0 {
				continue
			}
			n.dist = s.dist + 1
			queue = append(queue, s.con[dir])
		}
	}
	for i := range f.spans {
		if f.spans[i].alive && f.spans[i].dist <= radius {
			f.spans[i].alive = false
		}
	}
	return nil
}

// / Partitions the field into 4-connected regions and removes regions with
// / fewer than @p minRegionArea spans. Returns the number of kept regions.
func RcFilterSmallRegions(ctx context.Context, minRegionArea int, f *RcWalkableField) (int, error) {
	for i := range f.spans {
		f.spans[i].region = 0
	}
	regions := 0
	var stack, members []int
	for i := range f.spans {
		if !f.spans[i].alive || f.spans[i].region != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		regions++
		id := regions
		members = members[:0]
		stack = append(stack[:0], i)
		f.spans[i].region = id
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)
			s := &f.spans[cur]
			for dir := 0; dir < 4; dir++ {
				n := f.neighbour(s, dir)
				if n == nil || n.region != 0 {
					continue
				}
				n.region = id
				stack = append(stack, s.con[dir])
			}
		}
		if len(members) < minRegionArea {
			for _, m := range members {
				f.spans[m].alive = false
			}
			regions--
		}
	}
	return regions, nil
}
