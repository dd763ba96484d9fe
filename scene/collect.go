package scene

import (
	"github.com/gorustyt/floorplan/geom"
)

// Collect gathers world-space geometry from the scene:
//   - a walkable ground plane contributes its walk surface to walkable only;
//   - a loaded model with collidable and/or walkable set contributes every
//     primitive to the matching set(s), once per set;
//   - a walkable box collider contributes its helper box, baked by the node's
//     world matrix, to walkable only.
//
// Source nodes and meshes are not modified; every returned mesh is a copy.
func Collect(q Query) (walkable, collidable []*geom.Mesh) {
	if n := q.FindNodeByType(KindGroundPlane); n != nil {
		if gp, ok := n.(*GroundPlane); ok && gp.Walkable {
			walkable = append(walkable, gp.WalkableMesh())
		}
	}

	for _, n := range q.GetNodesByType(KindModel) {
		m, ok := n.(*ModelNode)
		if !ok || m.Model == nil || (!m.Collidable && !m.Walkable) {
			continue
		}
		world := m.WorldMatrix()
		for _, p := range m.Model.Primitives {
			if p.Mesh == nil {
				continue
			}
			mesh := geom.Transform(p.Mesh, world.Mul4(p.Local))
			if m.Collidable {
				collidable = append(collidable, mesh)
			}
			if m.Walkable {
				walkable = append(walkable, mesh)
			}
		}
	}

	for _, n := range q.GetNodesByType(KindBoxCollider) {
		b, ok := n.(*BoxCollider)
		if !ok || !b.Walkable {
			continue
		}
		walkable = append(walkable, geom.Transform(b.HelperMesh(), b.WorldMatrix()))
	}
	return walkable, collidable
}
