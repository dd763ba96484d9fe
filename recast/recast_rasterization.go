package recast

import (
	"context"
	"math"

	"github.com/gorustyt/floorplan/common"
)

// maxPolyVerts bounds the clipped polygon of one triangle against one cell.
const maxPolyVerts = 12

// triangles rasterized between context checks
const rasterizeCheckEvery = 256

// / Check whether two bounding boxes overlap
func overlapBounds(aMin, aMax, bMin, bMax []float32) bool {
	return aMin[0] <= bMax[0] && aMax[0] >= bMin[0] &&
		aMin[1] <= bMax[1] && aMax[1] >= bMin[1] &&
		aMin[2] <= bMax[2] && aMax[2] >= bMin[2]
}

type rcAxis int

const (
	RC_AXIS_X rcAxis = 0
	RC_AXIS_Y rcAxis = 1
	RC_AXIS_Z rcAxis = 2
)

// / Divides a convex polygon of max 12 vertices into two convex polygons
// / across a separating axis.
// /
// / @param[in]	inVerts			The input polygon vertices
// / @param[out]	outVerts1		Resulting polygon 1's vertices
// / @param[out]	outVerts2		Resulting polygon 2's vertices
// / @param[in]	axisOffset		THe offset along the specified axis
// / @param[in]	axis			The separating axis
// / @returns the vertex counts of polygon 1 and polygon 2.
func dividePoly(inVerts []float32, inVertsCount int,
	outVerts1, outVerts2 []float32,
	axisOffset float32, axis rcAxis) (outVerts1Count, outVerts2Count int) {
	// How far positive or negative away from the separating axis is each vertex.
	var inVertAxisDelta [maxPolyVerts]float32
	for inVert := 0; inVert < inVertsCount; inVert++ {
		inVertAxisDelta[inVert] = axisOffset - inVerts[inVert*3+int(axis)]
	}

	poly1Vert := 0
	poly2Vert := 0
	for inVertA, inVertB := 0, inVertsCount-1; inVertA < inVertsCount; inVertB, inVertA = inVertA, inVertA+1 {
		// If the two vertices are on the same side of the separating axis
		sameSide := (inVertAxisDelta[inVertA] >= 0) == (inVertAxisDelta[inVertB] >= 0)

		if !sameSide {
			s := inVertAxisDelta[inVertB] / (inVertAxisDelta[inVertB] - inVertAxisDelta[inVertA])
			outVerts1[poly1Vert*3+0] = inVerts[inVertB*3+0] + (inVerts[inVertA*3+0]-inVerts[inVertB*3+0])*s
			outVerts1[poly1Vert*3+1] = inVerts[inVertB*3+1] + (inVerts[inVertA*3+1]-inVerts[inVertB*3+1])*s
			outVerts1[poly1Vert*3+2] = inVerts[inVertB*3+2] + (inVerts[inVertA*3+2]-inVerts[inVertB*3+2])*s
			copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(outVerts1, poly1Vert))
			poly1Vert++
			poly2Vert++

			// add the inVertA point to the right polygon. Do NOT add points that are on the dividing line
			// since these were already added above
			if inVertAxisDelta[inVertA] > 0 {
				copy(common.GetVert3(outVerts1, poly1Vert), common.GetVert3(inVerts, inVertA))
				poly1Vert++
			} else if inVertAxisDelta[inVertA] < 0 {
				copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(inVerts, inVertA))
				poly2Vert++
			}
			continue
		}

		// add the inVertA point to the right polygon. Addition is done even for points on the dividing line
		if inVertAxisDelta[inVertA] >= 0 {
			copy(common.GetVert3(outVerts1, poly1Vert), common.GetVert3(inVerts, inVertA))
			poly1Vert++
			if inVertAxisDelta[inVertA] != 0 {
				continue
			}
		}
		copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(inVerts, inVertA))
		poly2Vert++
	}
	return poly1Vert, poly2Vert
}

// / Adds a span to the heightfield.  If the new span overlaps existing spans,
// / it will merge the new span with the existing ones.
func addSpan(heightfield *RcHeightfield, x, z int, minValue, maxValue int, areaID int, flagMergeThreshold int) {
	newSpan := &RcSpan{Smin: minValue, Smax: maxValue, Area: areaID}

	columnIndex := x + z*heightfield.Width
	var previousSpan *RcSpan
	currentSpan := heightfield.Spans[columnIndex]

	// Insert the new span, possibly merging it with existing spans.
	for currentSpan != nil {
		if currentSpan.Smin > newSpan.Smax {
			// Current span is completely after the new span, break.
			break
		}

		if currentSpan.Smax < newSpan.Smin {
			// Current span is completely before the new span.  Keep going.
			previousSpan = currentSpan
			currentSpan = currentSpan.Next
			continue
		}

		// The new span overlaps with an existing span.  Merge them.
		newSpan.Smin = min(newSpan.Smin, currentSpan.Smin)
		newSpan.Smax = max(newSpan.Smax, currentSpan.Smax)

		// Merge flags.
		if common.Abs(newSpan.Smax-currentSpan.Smax) <= flagMergeThreshold {
			// Higher area ID numbers indicate higher resolution priority.
			newSpan.Area = max(newSpan.Area, currentSpan.Area)
		}

		// Remove the current span since it's now merged with newSpan.
		// Keep going because there might be other overlapping spans that also need to be merged.
		next := currentSpan.Next
		if previousSpan != nil {
			previousSpan.Next = next
		} else {
			heightfield.Spans[columnIndex] = next
		}
		currentSpan = next
	}

	// Insert new span after prev
	if previousSpan != nil {
		newSpan.Next = previousSpan.Next
		previousSpan.Next = newSpan
	} else {
		// This span should go before the others in the list
		newSpan.Next = heightfield.Spans[columnIndex]
		heightfield.Spans[columnIndex] = newSpan
	}
}

// /	Rasterize a single triangle to the heightfield.
// /
// /	This code is extremely hot, so much care should be given to maintaining maximum perf here.
func rasterizeTri(v0, v1, v2 []float32, areaID int, heightfield *RcHeightfield,
	inverseCellSize, inverseCellHeight float32, flagMergeThreshold int, buf []float32) {
	heightfieldBBMin := heightfield.Bmin[:]
	heightfieldBBMax := heightfield.Bmax[:]
	cellSize := heightfield.Cs

	// Calculate the bounding box of the triangle.
	triBBMin := make([]float32, 3)
	copy(triBBMin, v0)
	common.Vmin(triBBMin, v1)
	common.Vmin(triBBMin, v2)

	triBBMax := make([]float32, 3)
	copy(triBBMax, v0)
	common.Vmax(triBBMax, v1)
	common.Vmax(triBBMax, v2)

	// If the triangle does not touch the bounding box of the heightfield, skip the triangle.
	if !overlapBounds(triBBMin, triBBMax, heightfieldBBMin, heightfieldBBMax) {
		return
	}

	w := heightfield.Width
	h := heightfield.Height
	by := heightfieldBBMax[1] - heightfieldBBMin[1]

	// Calculate the footprint of the triangle on the grid's z-axis
	z0 := int((triBBMin[2] - heightfieldBBMin[2]) * inverseCellSize)
	z1 := int((triBBMax[2] - heightfieldBBMin[2]) * inverseCellSize)

	// use -1 rather than 0 to cut the polygon properly at the start of the tile
	z0 = common.Clamp(z0, -1, h-1)
	z1 = common.Clamp(z1, 0, h-1)

	// Clip the triangle into all grid cells it touches.
	const stride = maxPolyVerts * 3
	in := buf[0*stride : 1*stride]
	inRow := buf[1*stride : 2*stride]
	p1 := buf[2*stride : 3*stride]
	p2 := buf[3*stride : 4*stride]

	copy(in[0:], v0)
	copy(in[1*3:], v1)
	copy(in[2*3:], v2)
	nvIn := 3
	var nvRow int

	for z := z0; z <= z1; z++ {
		// Clip polygon to row. Store the remaining polygon as well
		cellZ := heightfieldBBMin[2] + float32(z)*cellSize
		nvRow, nvIn = dividePoly(in, nvIn, inRow, p1, cellZ+cellSize, RC_AXIS_Z)
		in, p1 = p1, in

		if nvRow < 3 {
			continue
		}
		if z < 0 {
			continue
		}

		// find X-axis bounds of the row
		minX := inRow[0]
		maxX := inRow[0]
		for vert := 1; vert < nvRow; vert++ {
			minX = min(minX, inRow[vert*3])
			maxX = max(maxX, inRow[vert*3])
		}
		x0 := int((minX - heightfieldBBMin[0]) * inverseCellSize)
		x1 := int((maxX - heightfieldBBMin[0]) * inverseCellSize)
		if x1 < 0 || x0 >= w {
			continue
		}
		x0 = common.Clamp(x0, -1, w-1)
		x1 = common.Clamp(x1, 0, w-1)

		var nv int
		nv2 := nvRow

		for x := x0; x <= x1; x++ {
			// Clip polygon to column. store the remaining polygon as well
			cx := heightfieldBBMin[0] + float32(x)*cellSize
			nv, nv2 = dividePoly(inRow, nv2, p1, p2, cx+cellSize, RC_AXIS_X)
			inRow, p2 = p2, inRow

			if nv < 3 {
				continue
			}
			if x < 0 {
				continue
			}

			// Calculate min and max of the span.
			spanMin := p1[1]
			spanMax := p1[1]
			for vert := 1; vert < nv; vert++ {
				spanMin = min(spanMin, p1[vert*3+1])
				spanMax = max(spanMax, p1[vert*3+1])
			}
			spanMin -= heightfieldBBMin[1]
			spanMax -= heightfieldBBMin[1]

			// Skip the span if it's completely outside the heightfield bounding box
			if spanMax < 0.0 {
				continue
			}
			if spanMin > by {
				continue
			}

			// Clamp the span to the heightfield bounding box.
			spanMin = max(spanMin, 0)
			spanMax = min(spanMax, by)

			// Snap the span to the heightfield height grid.
			spanMinCellIndex := common.Clamp(int(math.Floor(float64(spanMin*inverseCellHeight))), 0, RC_SPAN_MAX_HEIGHT)
			spanMaxCellIndex := common.Clamp(int(math.Ceil(float64(spanMax*inverseCellHeight))), spanMinCellIndex+1, RC_SPAN_MAX_HEIGHT)

			addSpan(heightfield, x, z, spanMinCellIndex, spanMaxCellIndex, areaID, flagMergeThreshold)
		}
	}
}

// / Rasterizes indexed triangles into the specified heightfield, checking
// / ctx every few hundred triangles.
func RcRasterizeTriangles(ctx context.Context, verts []float32, tris []uint32, triAreaIDs []int,
	heightfield *RcHeightfield, flagMergeThreshold int) error {
	inverseCellSize := 1.0 / heightfield.Cs
	inverseCellHeight := 1.0 / heightfield.Ch
	buf := make([]float32, 4*maxPolyVerts*3)
	numTris := len(tris) / 3
	for triIndex := 0; triIndex < numTris; triIndex++ {
		if triIndex%rasterizeCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v0 := common.GetVert3(verts, tris[triIndex*3+0])
		v1 := common.GetVert3(verts, tris[triIndex*3+1])
		v2 := common.GetVert3(verts, tris[triIndex*3+2])
		rasterizeTri(v0, v1, v2, triAreaIDs[triIndex], heightfield, inverseCellSize, inverseCellHeight, flagMergeThreshold, buf)
	}
	return nil
}
