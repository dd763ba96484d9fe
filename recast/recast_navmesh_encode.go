package recast

import (
	"fmt"

	"github.com/gorustyt/floorplan/common/rw"
	"github.com/gorustyt/floorplan/geom"
)

// / Emits one upward-facing quad per surviving walkable span, clamped to the
// / heightfield bounds on the xz-plane.
func RcBuildWalkMesh(f *RcWalkableField, hf *RcHeightfield) *geom.Mesh {
	n := f.SpanCount()
	if n == 0 {
		return geom.Empty()
	}
	mesh := &geom.Mesh{
		Positions: make([]float32, 0, n*4*3),
		Indices:   make([]uint32, 0, n*6),
	}
	for i := range f.spans {
		s := &f.spans[i]
		if !s.alive {
			continue
		}
		x0 := hf.Bmin[0] + float32(s.x)*hf.Cs
		x1 := min(x0+hf.Cs, hf.Bmax[0])
		z0 := hf.Bmin[2] + float32(s.z)*hf.Cs
		z1 := min(z0+hf.Cs, hf.Bmax[2])
		y := hf.Bmin[1] + float32(s.y)*hf.Ch

		base := uint32(len(mesh.Positions) / 3)
		mesh.Positions = append(mesh.Positions,
			x0, y, z0,
			x1, y, z0,
			x1, y, z1,
			x0, y, z1,
		)
		mesh.Indices = append(mesh.Indices, base, base+2, base+1, base, base+3, base+2)
	}
	return mesh
}

// ExportPayload implements navbuild.Heightfield. Spans are packed by
// PackSpans and carried as bytes.
func (hf *RcHeightfield) ExportPayload() map[string]any {
	return map[string]any{
		"width":      hf.Width,
		"height":     hf.Height,
		"bmin":       []any{hf.Bmin[0], hf.Bmin[1], hf.Bmin[2]},
		"bmax":       []any{hf.Bmax[0], hf.Bmax[1], hf.Bmax[2]},
		"cellSize":   hf.Cs,
		"cellHeight": hf.Ch,
		"spanCount":  hf.SpanCount(),
		"spans":      hf.PackSpans(),
	}
}

// PackSpans serializes the span columns in row-major order: per column a
// uint16 span count followed by (uint16 smin, uint16 smax, uint8 area).
func (hf *RcHeightfield) PackSpans() []byte {
	w := rw.NewWriter()
	for _, col := range hf.Spans {
		n := 0
		for s := col; s != nil; s = s.Next {
			n++
		}
		w.WriteUInt16(uint16(n))
		for s := col; s != nil; s = s.Next {
			w.WriteUInt16(uint16(s.Smin))
			w.WriteUInt16(uint16(s.Smax))
			w.WriteUInt8(uint8(s.Area))
		}
	}
	return w.GetWriteBytes()
}

// UnpackSpans restores columns written by PackSpans into hf, which must
// already have its Width and Height set.
func (hf *RcHeightfield) UnpackSpans(data []byte) error {
	r := rw.NewReader(data)
	hf.Spans = make([]*RcSpan, hf.Width*hf.Height)
	for c := range hf.Spans {
		n := int(r.ReadUInt16())
		var prev *RcSpan
		for i := 0; i < n; i++ {
			s := &RcSpan{
				Smin: int(r.ReadUInt16()),
				Smax: int(r.ReadUInt16()),
				Area: int(r.ReadUInt8()),
			}
			if prev == nil {
				hf.Spans[c] = s
			} else {
				prev.Next = s
			}
			prev = s
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("recast: unpack spans: %w", err)
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("recast: unpack spans: %d trailing bytes", r.Remaining())
	}
	return nil
}
