// Package floorplan implements the scene's floor-plan node: it regenerates
// the navmesh and heightfield artifacts from the scene and keeps them in
// step with the editor selection and export.
package floorplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gorustyt/floorplan/common/log"
	"github.com/gorustyt/floorplan/export"
	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
	"github.com/gorustyt/floorplan/scene"
)

var errSuperseded = errors.New("floorplan: superseded by a newer generate")

// Node is the single floor-plan node of a scene. It owns the build config
// and the artifacts of the last successful Generate.
type Node struct {
	scene.Base

	graph  *scene.Graph
	orch   *navbuild.Orchestrator
	logger *zap.Logger

	mu          sync.Mutex
	cfg         navbuild.Config
	navMesh     *NavMeshArtifact
	heightfield *HeightfieldArtifact
	gen         uint64
	cancel      context.CancelFunc
}

type Option func(*Node)

func WithLogger(l *zap.Logger) Option {
	return func(n *Node) { n.logger = l }
}

// WithConfig sets the initial config. It is validated by Generate.
func WithConfig(cfg navbuild.Config) Option {
	return func(n *Node) { n.cfg = cfg }
}

func WithID(id string) Option {
	return func(n *Node) { n.Base = scene.NewBase(id, n.Name) }
}

func New(graph *scene.Graph, orch *navbuild.Orchestrator, opts ...Option) *Node {
	n := &Node{
		Base:  scene.NewBase(uuid.NewString(), "Floor Plan"),
		graph: graph,
		orch:  orch,
		cfg:   navbuild.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = log.Default()
	}
	n.logger = n.logger.With(zap.String("node", n.ID()))
	return n
}

func (n *Node) Kind() scene.Kind { return scene.KindFloorPlan }

// CanAddNode allows at most one floor-plan node per graph.
func (n *Node) CanAddNode(q scene.Query) bool {
	return q.FindNodeByType(scene.KindFloorPlan) == nil
}

func (n *Node) Config() navbuild.Config {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cfg
}

func (n *Node) SetConfig(cfg navbuild.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	n.cfg = cfg
	n.mu.Unlock()
	return nil
}

// NavMesh returns the current walk-surface artifact, nil before the first
// successful Generate. Callers must not modify it.
func (n *Node) NavMesh() *NavMeshArtifact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.navMesh
}

func (n *Node) Heightfield() *HeightfieldArtifact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.heightfield
}

// Generate rebuilds both artifacts from the scene: the walkable set becomes
// the navmesh, then the collidable set becomes the heightfield. Both builds
// run under one context derived from ctx.
//
// An invalid config fails with navbuild.ErrInvalidConfig before anything
// else happens. A call supersedes any Generate still running on the node, which then
// fails with navbuild.ErrBuildCancelled. Artifacts are replaced only when
// both builds succeed and the call is still the latest; on any error the
// previous artifacts are kept.
func (n *Node) Generate(ctx context.Context) (*Node, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	n.mu.Lock()
	cfg := n.cfg
	if err := cfg.Validate(); err != nil {
		n.mu.Unlock()
		return n, err
	}
	if n.cancel != nil {
		n.cancel()
	}
	n.gen++
	gen := n.gen
	n.cancel = func() { cancel(errSuperseded) }
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		if n.gen == gen {
			n.cancel = nil
		}
		n.mu.Unlock()
	}()

	walkable, collidable := scene.Collect(n.graph)
	walkMerged := geom.Merge(walkable)
	collideMerged := geom.Merge(collidable)
	n.logger.Debug("collected floor plan geometry",
		zap.Int("walkableMeshes", len(walkable)),
		zap.Int("walkableVerts", walkMerged.VertexCount()),
		zap.Int("collidableMeshes", len(collidable)),
		zap.Int("collidableVerts", collideMerged.VertexCount()),
	)

	nav, err := n.orch.GenerateNavGeometry(ctx, walkMerged, cfg, false)
	if err != nil {
		return n, n.buildFailed(ctx, err)
	}
	hf, err := n.orch.GenerateNavGeometry(ctx, collideMerged, cfg, true)
	if err != nil {
		return n, n.buildFailed(ctx, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return n, fmt.Errorf("%w: %w", navbuild.ErrBuildCancelled, errSuperseded)
	}
	n.navMesh = newNavMeshArtifact(nav.NavMesh, n.graph.IsSelected(n))
	n.heightfield = newHeightfieldArtifact(hf.Heightfield)
	n.logger.Info("floor plan generated",
		zap.Stringer("navMesh", n.navMesh.ID),
		zap.Int("navMeshTris", n.navMesh.Mesh.TriangleCount()),
		zap.Bool("heightfield", hf.Heightfield != nil),
		zap.Bool("visible", n.navMesh.Visible),
	)
	return n, nil
}

func (n *Node) buildFailed(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), errSuperseded) {
		n.logger.Debug("floor plan generate superseded")
		return fmt.Errorf("%w: %w", err, errSuperseded)
	}
	if errors.Is(err, navbuild.ErrBuildCancelled) {
		n.logger.Info("floor plan generate cancelled")
	} else {
		n.logger.Warn("floor plan generate failed", zap.Error(err))
	}
	return err
}

func (n *Node) OnSelect()   { n.setVisible(true) }
func (n *Node) OnDeselect() { n.setVisible(false) }

func (n *Node) setVisible(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.navMesh != nil {
		n.navMesh.Visible = v
	}
}

// PrepareForExport hides the walk surface for good and attaches the
// navigation markers, plus the heightfield payload when there is one.
func (n *Node) PrepareForExport(e export.Attacher) error {
	n.mu.Lock()
	if n.navMesh != nil {
		n.navMesh.Material.Opacity = 0
		n.navMesh.Material.Transparent = true
	}
	var hf navbuild.Heightfield
	if n.heightfield != nil {
		hf = n.heightfield.Data
	}
	n.mu.Unlock()

	if err := e.AddComponent(export.ComponentVisible, map[string]any{"visible": false}); err != nil {
		return err
	}
	if err := e.AddComponent(export.ComponentNavMesh, map[string]any{}); err != nil {
		return err
	}
	if hf != nil {
		if err := e.AddComponent(export.ComponentHeightfield, hf.ExportPayload()); err != nil {
			return err
		}
	}
	return nil
}

// Serialize returns the persisted config record. Artifacts are never
// persisted.
func (n *Node) Serialize() (json.RawMessage, error) {
	return n.Config().MarshalRecord()
}

// Deserialize replaces the config from a complete record, drops the
// current artifacts and cancels any running Generate.
func (n *Node) Deserialize(record []byte) error {
	cfg, err := navbuild.UnmarshalRecord(record)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg = cfg
	n.resetLocked()
	return nil
}

// Copy takes src's config. Artifacts are not copied and n's own are reset
// as in Deserialize.
func (n *Node) Copy(src *Node) {
	cfg := src.Config()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg = cfg
	n.resetLocked()
}

// Destroy cancels any running Generate and releases the artifacts.
func (n *Node) Destroy() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetLocked()
}

// resetLocked drops the artifacts and keeps any running Generate from
// committing new ones.
func (n *Node) resetLocked() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.gen++
	n.navMesh = nil
	n.heightfield = nil
}
