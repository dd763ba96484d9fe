package geom

// Merge concatenates world-space meshes into one indexed mesh whose index
// buffer is the identity permutation over the resulting triangle list.
// Coincident vertices from different inputs are not welded and degenerate
// triangles are kept. Inputs are never modified.
//
// An empty list, or inputs with no positions at all, yield Empty().
func Merge(meshes []*Mesh) *Mesh {
	total := 0
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if m.Indices != nil {
			total += len(m.Indices) / 3 * 9
		} else {
			total += len(m.Positions)
		}
	}
	if total == 0 {
		return Empty()
	}

	positions := make([]float32, 0, total)
	for _, m := range meshes {
		if m == nil {
			continue
		}
		positions = m.appendTriangleList(positions)
	}
	if len(positions) == 0 {
		return Empty()
	}

	indices := make([]uint32, len(positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return &Mesh{Positions: positions, Indices: indices}
}
