// Package geom holds flat triangle meshes and the pure operations the
// navmesh pipeline runs on them.
package geom

// Mesh is a triangle mesh with a flat position buffer, 3 floats per vertex.
// A nil Indices slice means the mesh is non-indexed and every 3 consecutive
// vertices form a triangle.
type Mesh struct {
	Positions []float32
	Indices   []uint32
}

// Empty returns the empty sentinel: zero vertices, zero indices.
func Empty() *Mesh {
	return &Mesh{Positions: []float32{}, Indices: []uint32{}}
}

func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions) / 3
}

func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// IsEmpty reports whether the mesh carries no vertices.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Positions) < 3
}

func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	c := &Mesh{Positions: append([]float32(nil), m.Positions...)}
	if m.Indices != nil {
		c.Indices = append([]uint32(nil), m.Indices...)
	}
	return c
}

// appendTriangleList appends the mesh's triangles to dst in triangle-list
// order, expanding indices and dropping a trailing partial triangle.
func (m *Mesh) appendTriangleList(dst []float32) []float32 {
	if m.Indices == nil {
		n := m.VertexCount() / 3 * 9
		return append(dst, m.Positions[:n]...)
	}
	nv := uint32(m.VertexCount())
	tris := len(m.Indices) / 3
	for t := 0; t < tris; t++ {
		a, b, c := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		if a >= nv || b >= nv || c >= nv {
			continue
		}
		dst = append(dst, m.Positions[a*3:a*3+3]...)
		dst = append(dst, m.Positions[b*3:b*3+3]...)
		dst = append(dst, m.Positions[c*3:c*3+3]...)
	}
	return dst
}
