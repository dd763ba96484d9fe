package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_EmptyInputs(t *testing.T) {
	for name, in := range map[string][]*Mesh{
		"nil list":       nil,
		"empty list":     {},
		"zero vertices":  {{Positions: []float32{}}},
		"nil mesh":       {nil},
		"indexed, empty": {{Positions: []float32{}, Indices: []uint32{}}},
	} {
		t.Run(name, func(t *testing.T) {
			m := Merge(in)
			require.NotNil(t, m)
			assert.True(t, m.IsEmpty())
			assert.Len(t, m.Positions, 0)
			assert.Len(t, m.Indices, 0)
		})
	}
}

func TestMerge_ConcatenatesWithIdentityIndices(t *testing.T) {
	a := Quad(2, 2) // indexed, 2 triangles
	b := &Mesh{Positions: []float32{0, 1, 0, 1, 1, 0, 0, 1, 1}}

	m := Merge([]*Mesh{a, b})

	assert.Equal(t, 9, m.VertexCount())
	require.Len(t, m.Indices, 9)
	for i, idx := range m.Indices {
		assert.Equal(t, uint32(i), idx)
	}
	// the non-indexed triangle lands after the expanded quad
	assert.Equal(t, b.Positions, m.Positions[18:])
}

func TestMerge_DoesNotWeldCoincidentVertices(t *testing.T) {
	tri := &Mesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}}
	m := Merge([]*Mesh{tri, tri})
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	q := Quad(4, 4)
	before := q.Clone()
	_ = Merge([]*Mesh{q})
	assert.Equal(t, before, q)
}

func TestMerge_DropsPartialTriangle(t *testing.T) {
	m := Merge([]*Mesh{{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1, 5, 5, 5}}})
	assert.Equal(t, 3, m.VertexCount())
	assert.Len(t, m.Indices, 3)
}

func TestTransform_BakesMatrix(t *testing.T) {
	q := Quad(2, 2)
	w := Transform(q, mgl32.Translate3D(10, 1, -5).Mul4(mgl32.Scale3D(2, 1, 2)))

	b, ok := ComputeBounds(w.Positions)
	require.True(t, ok)
	assert.InDelta(t, 8, b.Min[0], 1e-5)
	assert.InDelta(t, 12, b.Max[0], 1e-5)
	assert.InDelta(t, 1, b.Min[1], 1e-5)
	assert.InDelta(t, -7, b.Min[2], 1e-5)
	assert.Equal(t, q.Indices, w.Indices)
	// source untouched
	assert.InDelta(t, -1, q.Positions[0], 1e-6)
}

func TestBounds(t *testing.T) {
	_, ok := ComputeBounds(nil)
	assert.False(t, ok)

	b, ok := ComputeBounds(Box(mgl32.Vec3{4, 2, 10}).Positions)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{4, 2, 10}, b.Extents())
	assert.Equal(t, float32(10), b.MaxExtent())
	assert.InDelta(t, 40, b.FootprintArea(), 1e-9)
}
