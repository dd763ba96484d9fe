package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/floorplan/geom"
)

func triangle() *geom.Mesh {
	return &geom.Mesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}}
}

func modelOf(meshes ...*geom.Mesh) *Model {
	m := &Model{}
	for _, mesh := range meshes {
		m.Primitives = append(m.Primitives, Primitive{Mesh: mesh, Local: mgl32.Ident4()})
	}
	return m
}

func TestCollect_EmptyScene(t *testing.T) {
	w, c := Collect(NewGraph())
	assert.Empty(t, w)
	assert.Empty(t, c)
}

func TestCollect_GroundPlane(t *testing.T) {
	g := NewGraph()
	gp := NewGroundPlane("ground", 10, 10)
	require.NoError(t, g.Add(gp))

	w, c := Collect(g)
	require.Len(t, w, 1)
	assert.Empty(t, c)
	b, _ := geom.ComputeBounds(w[0].Positions)
	assert.Equal(t, mgl32.Vec3{10, 0, 10}, b.Extents())

	gp.Walkable = false
	w, c = Collect(g)
	assert.Empty(t, w)
	assert.Empty(t, c)
}

func TestCollect_ModelFlags(t *testing.T) {
	g := NewGraph()
	both := NewModelNode("both", "both", modelOf(triangle(), triangle()))
	both.Collidable, both.Walkable = true, true
	collideOnly := NewModelNode("collide", "collide", modelOf(triangle()))
	collideOnly.Collidable = true
	neither := NewModelNode("neither", "neither", modelOf(triangle()))
	unloaded := NewModelNode("unloaded", "unloaded", nil)
	unloaded.Collidable, unloaded.Walkable = true, true
	for _, n := range []Node{both, collideOnly, neither, unloaded} {
		require.NoError(t, g.Add(n))
	}

	w, c := Collect(g)
	assert.Len(t, w, 2, "two primitives of the walkable model")
	assert.Len(t, c, 3, "two from both plus one from collide")
}

func TestCollect_ModelWorldTransform(t *testing.T) {
	g := NewGraph()
	parent := NewBase("root", "root")
	parent.Local = mgl32.Translate3D(100, 0, 0)

	m := NewModelNode("m", "m", &Model{Primitives: []Primitive{{
		Mesh:  triangle(),
		Local: mgl32.Translate3D(0, 5, 0),
	}}})
	m.Collidable = true
	m.Parent = &parent
	m.SetTRS(mgl32.Vec3{0, 0, 10}, 0, mgl32.Vec3{2, 2, 2})
	require.NoError(t, g.Add(m))

	_, c := Collect(g)
	require.Len(t, c, 1)
	// parent(100,0,0) * node(T(0,0,10) S2) * prim(T(0,5,0)) applied to (1,0,0)
	assert.InDeltaSlice(t, []float32{100, 10, 10, 102, 10, 10, 100, 10, 12}, c[0].Positions, 1e-4)
	// source mesh untouched
	assert.Equal(t, triangle().Positions, m.Model.Primitives[0].Mesh.Positions)
}

func TestCollect_BoxCollider(t *testing.T) {
	g := NewGraph()
	box := NewBoxCollider("box", mgl32.Vec3{2, 2, 2})
	box.Local = mgl32.Translate3D(5, 1, 5)
	require.NoError(t, g.Add(box))

	w, c := Collect(g)
	assert.Empty(t, w, "not walkable")
	assert.Empty(t, c)

	box.Walkable = true
	w, c = Collect(g)
	require.Len(t, w, 1)
	assert.Empty(t, c, "box colliders never contribute collidable geometry")
	b, _ := geom.ComputeBounds(w[0].Positions)
	assert.Equal(t, mgl32.Vec3{4, 0, 4}, b.Min)
	assert.Equal(t, mgl32.Vec3{6, 2, 6}, b.Max)
}
