package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gorustyt/floorplan/geom"
)

// GroundPlane is the scene's designated floor, a Width x Depth rectangle.
type GroundPlane struct {
	Base
	Walkable bool
	Width    float32
	Depth    float32
}

func NewGroundPlane(id string, width, depth float32) *GroundPlane {
	return &GroundPlane{Base: NewBase(id, "Ground Plane"), Walkable: true, Width: width, Depth: depth}
}

func (g *GroundPlane) Kind() Kind { return KindGroundPlane }

// WalkableMesh returns the plane's walk surface in world space.
func (g *GroundPlane) WalkableMesh() *geom.Mesh {
	return geom.Transform(geom.Quad(g.Width, g.Depth), g.WorldMatrix())
}

// Primitive is one mesh of a model with its transform relative to the node.
type Primitive struct {
	Mesh  *geom.Mesh
	Local mgl32.Mat4
}

type Model struct {
	Primitives []Primitive
}

// ModelNode places a loaded model in the scene. Model is nil until loaded.
type ModelNode struct {
	Base
	Collidable bool
	Walkable   bool
	Model      *Model
}

func NewModelNode(id, name string, model *Model) *ModelNode {
	return &ModelNode{Base: NewBase(id, name), Model: model}
}

func (m *ModelNode) Kind() Kind { return KindModel }

// BoxCollider is an invisible box volume. Its helper geometry is a box of
// Size centred on the node origin.
type BoxCollider struct {
	Base
	Walkable bool
	Size     mgl32.Vec3
}

func NewBoxCollider(id string, size mgl32.Vec3) *BoxCollider {
	return &BoxCollider{Base: NewBase(id, "Box Collider"), Size: size}
}

func (b *BoxCollider) Kind() Kind { return KindBoxCollider }

func (b *BoxCollider) HelperMesh() *geom.Mesh {
	return geom.Box(b.Size)
}
