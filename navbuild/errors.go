package navbuild

import (
	"errors"
	"fmt"
)

// MaxSceneExtent is the largest bounding box extent, on any axis, the
// builder accepts.
const MaxSceneExtent = 2000

var (
	// ErrBuildCancelled is returned when the build context ends before or
	// during a builder call. No partial result accompanies it.
	ErrBuildCancelled = errors.New("navmesh build cancelled")
	ErrInvalidConfig  = errors.New("invalid floor plan config")
	ErrNoBuilder      = errors.New("no navmesh builder configured")
)

// SceneTooLargeError reports geometry whose bounds exceed MaxSceneExtent.
type SceneTooLargeError struct {
	Kind    Kind
	Extents [3]float32
	Limit   float32
}

func (e *SceneTooLargeError) Error() string {
	return fmt.Sprintf("%s geometry is too large to build: bounding box is %.1f x %.1f x %.1f, limit is %.0f on every axis; "+
		"disable walkable or collidable on large models to exclude them from the floor plan",
		e.Kind, e.Extents[0], e.Extents[1], e.Extents[2], e.Limit)
}
