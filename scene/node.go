// Package scene is the slice of the editor scene graph the floor-plan
// pipeline reads: node lookup by kind, world transforms, selection and the
// geometry-bearing node types.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Kind string

const (
	KindGroundPlane Kind = "ground-plane"
	KindModel       Kind = "model"
	KindBoxCollider Kind = "box-collider"
	KindFloorPlan   Kind = "floor-plan"
)

type Node interface {
	ID() string
	Kind() Kind
	WorldMatrix() mgl32.Mat4
}

// Selectable nodes are told when the editor selection moves onto or off them.
type Selectable interface {
	OnSelect()
	OnDeselect()
}

// AddChecker lets a node veto its own addition to a graph. CanAddNode runs
// with the graph locked against the nodes already present and must not call
// back into the graph.
type AddChecker interface {
	CanAddNode(q Query) bool
}

// Base is the capability record every node embeds: identity, name and a
// local transform relative to an optional parent.
type Base struct {
	id     string
	Name   string
	Local  mgl32.Mat4
	Parent *Base
}

func NewBase(id, name string) Base {
	return Base{id: id, Name: name, Local: mgl32.Ident4()}
}

func (b *Base) ID() string { return b.id }

func (b *Base) WorldMatrix() mgl32.Mat4 {
	m := b.Local
	for p := b.Parent; p != nil; p = p.Parent {
		m = p.Local.Mul4(m)
	}
	return m
}

// SetTRS sets the local transform from translation, uniform-axis scale and a
// rotation about y in degrees.
func (b *Base) SetTRS(pos mgl32.Vec3, yawDeg float32, scale mgl32.Vec3) {
	b.Local = mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(yawDeg))).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}
