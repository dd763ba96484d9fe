package navbuild

import (
	"context"

	"github.com/gorustyt/floorplan/geom"
)

// Kind selects the output of a build.
type Kind string

const (
	KindNavMesh     Kind = "navmesh"
	KindHeightfield Kind = "heightfield"
)

func kindOf(wantHeightfield bool) Kind {
	if wantHeightfield {
		return KindHeightfield
	}
	return KindNavMesh
}

// BuildRequest is everything a builder needs for one self-contained build.
// Config.CellSize is already resolved.
type BuildRequest struct {
	Positions       []float32
	Indices         []uint32
	Config          Config
	WantHeightfield bool
}

// Heightfield is builder output retained for export. Its contents are
// opaque to the pipeline.
type Heightfield interface {
	// ExportPayload returns a JSON-like representation (see structpb.NewValue).
	ExportPayload() map[string]any
}

type BuildResult struct {
	NavMesh     *geom.Mesh
	Heightfield Heightfield
}

// Builder is the navmesh-building engine. Implementations must return
// promptly once ctx is done. A Builder may be shared by many callers and must
// not rely on requests being serialized.
type Builder interface {
	BuildNavMesh(ctx context.Context, req *BuildRequest) (*BuildResult, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, req *BuildRequest) (*BuildResult, error)

func (f BuilderFunc) BuildNavMesh(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	return f(ctx, req)
}
