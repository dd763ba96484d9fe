// Package recast is an in-process navmesh builder: it voxelizes the request
// geometry into a span heightfield, filters it for the agent and emits the
// remaining walkable cell tops as the walk surface.
package recast

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/gorustyt/floorplan/common/log"
	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
)

var ErrInvalidRequest = errors.New("recast: invalid build request")

// Builder implements navbuild.Builder. It is safe for concurrent use; at
// most MaxConcurrent builds run at once and waiting callers give up when
// their context ends.
type Builder struct {
	sem    *semaphore.Weighted
	logger *zap.Logger
}

type Option func(*builderOptions)

type builderOptions struct {
	maxConcurrent int64
	logger        *zap.Logger
}

func WithMaxConcurrent(n int) Option {
	return func(o *builderOptions) { o.maxConcurrent = int64(n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *builderOptions) { o.logger = l }
}

func NewBuilder(opts ...Option) *Builder {
	o := builderOptions{maxConcurrent: int64(runtime.GOMAXPROCS(0))}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxConcurrent < 1 {
		o.maxConcurrent = 1
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return &Builder{sem: semaphore.NewWeighted(o.maxConcurrent), logger: o.logger.Named("recast")}
}

var _ navbuild.Builder = (*Builder)(nil)

type buildOutput struct {
	res *navbuild.BuildResult
	err error
}

// BuildNavMesh runs the build on its own goroutine and returns as soon as
// either the build finishes or ctx ends.
func (b *Builder) BuildNavMesh(ctx context.Context, req *navbuild.BuildRequest) (*navbuild.BuildResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	done := make(chan buildOutput, 1)
	go func() {
		defer b.sem.Release(1)
		res, err := b.build(ctx, req)
		done <- buildOutput{res, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}

func validateRequest(req *navbuild.BuildRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if len(req.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidRequest, len(req.Positions))
	}
	if len(req.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidRequest, len(req.Indices))
	}
	nv := uint32(len(req.Positions) / 3)
	for _, i := range req.Indices {
		if i >= nv {
			return fmt.Errorf("%w: index %d out of range for %d vertices", ErrInvalidRequest, i, nv)
		}
	}
	return nil
}

func (b *Builder) build(ctx context.Context, req *navbuild.BuildRequest) (*navbuild.BuildResult, error) {
	verts, tris := req.Positions, req.Indices
	bounds, ok := geom.ComputeBounds(verts)
	if !ok || len(tris) == 0 {
		return &navbuild.BuildResult{NavMesh: geom.Empty()}, nil
	}

	//
	// Step 1. Initialize build config.
	//
	cfg, err := newRcConfig(req.Config, bounds)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("building navigation",
		zap.Int("cellsX", cfg.Width), zap.Int("cellsZ", cfg.Height),
		zap.Int("verts", len(verts)/3), zap.Int("tris", len(tris)/3),
		zap.Bool("heightfield", req.WantHeightfield),
	)

	//
	// Step 2. Rasterize input polygon soup.
	//
	solid := RcCreateHeightfield(cfg)
	triAreas := make([]int, len(tris)/3)
	RcMarkWalkableTriangles(cfg.WalkableSlopeAngle, verts, tris, triAreas)
	if err := RcRasterizeTriangles(ctx, verts, tris, triAreas, solid, cfg.WalkableClimb); err != nil {
		return nil, err
	}

	//
	// Step 3. Filter walkable surfaces.
	//
	RcFilterLowHangingWalkableObstacles(cfg.WalkableClimb, solid)
	RcFilterLedgeSpans(cfg.WalkableHeight, cfg.WalkableClimb, solid)
	RcFilterWalkableLowHeightSpans(cfg.WalkableHeight, solid)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.WantHeightfield {
		b.logger.Debug("heightfield built", zap.Int("spans", solid.SpanCount()))
		return &navbuild.BuildResult{Heightfield: solid}, nil
	}

	//
	// Step 4. Erode and prune the walkable surface.
	//
	field, err := RcBuildWalkableField(ctx, cfg.WalkableHeight, cfg.WalkableClimb, solid)
	if err != nil {
		return nil, err
	}
	if err := RcErodeWalkableArea(ctx, cfg.WalkableRadius, field); err != nil {
		return nil, err
	}
	regions, err := RcFilterSmallRegions(ctx, cfg.MinRegionArea, field)
	if err != nil {
		return nil, err
	}

	//
	// Step 5. Emit the walk surface.
	//
	mesh := RcBuildWalkMesh(field, solid)
	b.logger.Debug("walk mesh built", zap.Int("regions", regions), zap.Int("cells", field.SpanCount()))
	return &navbuild.BuildResult{NavMesh: mesh}, nil
}
