package floorplan

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
)

// Walk-surface debug colour, rgba(0, 192, 255, 64).
var (
	navMeshColor   = mgl32.Vec3{0, 192.0 / 255, 1}
	navMeshOpacity = float32(64.0 / 255)
)

type Material struct {
	Color       mgl32.Vec3
	Opacity     float32
	Transparent bool
}

// NavMeshArtifact is the renderable walk surface owned by a floor-plan node.
// Every successful Generate replaces it with a new one.
type NavMeshArtifact struct {
	ID       uuid.UUID
	Mesh     *geom.Mesh
	Material *Material
	Visible  bool
}

func newNavMeshArtifact(mesh *geom.Mesh, visible bool) *NavMeshArtifact {
	if mesh == nil {
		mesh = geom.Empty()
	}
	return &NavMeshArtifact{
		ID:   uuid.New(),
		Mesh: mesh,
		Material: &Material{
			Color:       navMeshColor,
			Opacity:     navMeshOpacity,
			Transparent: true,
		},
		Visible: visible,
	}
}

// HeightfieldArtifact retains the builder's heightfield for export. Data is
// nil when the scene has no collidable geometry.
type HeightfieldArtifact struct {
	ID   uuid.UUID
	Data navbuild.Heightfield
}

func newHeightfieldArtifact(data navbuild.Heightfield) *HeightfieldArtifact {
	return &HeightfieldArtifact{ID: uuid.New(), Data: data}
}
