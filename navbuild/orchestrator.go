package navbuild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gorustyt/floorplan/common/log"
	"github.com/gorustyt/floorplan/geom"
)

// Orchestrator validates merged geometry, resolves the build config and
// drives the Builder.
type Orchestrator struct {
	builder Builder
	logger  *zap.Logger
	metrics *Metrics
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func NewOrchestrator(builder Builder, opts ...Option) *Orchestrator {
	o := &Orchestrator{builder: builder}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}

type buildOutput struct {
	res *BuildResult
	err error
}

// build runs the builder call off the caller goroutine so that a builder
// ignoring ctx cannot hold the caller past cancellation. A result arriving
// after ctx ended is dropped.
func (o *Orchestrator) build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	done := make(chan buildOutput, 1)
	go func() {
		res, err := o.builder.BuildNavMesh(ctx, req)
		done <- buildOutput{res, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}

// GenerateNavGeometry builds a navmesh (wantHeightfield false) or a
// heightfield (wantHeightfield true) from merged world-space geometry.
//
// Empty geometry returns an empty navmesh without calling the builder.
// Geometry wider than MaxSceneExtent on any axis, or with non-finite
// positions, fails with *SceneTooLargeError before the builder is called. If ctx ends before or
// during the builder call the result is discarded and ErrBuildCancelled is
// returned. Builder errors are returned unchanged.
func (o *Orchestrator) GenerateNavGeometry(ctx context.Context, merged *geom.Mesh, cfg Config, wantHeightfield bool) (*BuildResult, error) {
	kind := kindOf(wantHeightfield)

	if merged.IsEmpty() {
		o.metrics.observe(kind, outcomeEmpty)
		o.logger.Debug("nav geometry input is empty, skipping build", zap.String("kind", string(kind)))
		return &BuildResult{NavMesh: geom.Empty()}, nil
	}

	bounds, _ := geom.ComputeBounds(merged.Positions)
	// NaN compares false against the limit, so non-finite bounds are too large.
	if !bounds.IsFinite() || bounds.MaxExtent() > MaxSceneExtent {
		e := bounds.Extents()
		err := &SceneTooLargeError{Kind: kind, Extents: [3]float32{e[0], e[1], e[2]}, Limit: MaxSceneExtent}
		o.metrics.observe(kind, outcomeTooLarge)
		o.logger.Warn("scene too large for nav build", zap.String("kind", string(kind)), zap.Float32s("extents", err.Extents[:]))
		return nil, err
	}

	if o.builder == nil {
		return nil, ErrNoBuilder
	}

	resolved := cfg
	resolved.CellSize = ResolveCellSize(cfg, bounds.FootprintArea())
	req := &BuildRequest{
		Positions:       merged.Positions,
		Indices:         merged.Indices,
		Config:          resolved,
		WantHeightfield: wantHeightfield,
	}

	if err := ctx.Err(); err != nil {
		o.metrics.observe(kind, outcomeCancelled)
		return nil, fmt.Errorf("%w: %w", ErrBuildCancelled, err)
	}

	o.logger.Info("building nav geometry",
		zap.String("kind", string(kind)),
		zap.Int("verts", merged.VertexCount()),
		zap.Int("tris", merged.TriangleCount()),
		zap.Float32("cellSize", resolved.CellSize),
		zap.Bool("autoCellSize", cfg.AutoCellSize),
	)
	start := time.Now()
	res, err := o.build(ctx, req)
	elapsed := time.Since(start)
	if o.metrics != nil {
		o.metrics.Duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	}

	if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
		o.metrics.observe(kind, outcomeCancelled)
		o.logger.Info("nav geometry build cancelled", zap.String("kind", string(kind)), zap.Duration("elapsed", elapsed))
		if ctxErr == nil {
			ctxErr = context.Canceled
		}
		return nil, fmt.Errorf("%w: %w", ErrBuildCancelled, ctxErr)
	}
	if err != nil {
		o.metrics.observe(kind, outcomeFailed)
		o.logger.Error("nav geometry build failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	if res == nil {
		res = &BuildResult{}
	}

	o.metrics.observe(kind, outcomeOK)
	o.logger.Info("nav geometry built",
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", elapsed),
		zap.Int("navmeshTris", res.NavMesh.TriangleCount()),
		zap.Bool("heightfield", res.Heightfield != nil),
	)
	return res, nil
}
