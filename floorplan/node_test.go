package floorplan

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/floorplan/export"
	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
	"github.com/gorustyt/floorplan/recast"
	"github.com/gorustyt/floorplan/scene"
)

type fakeHeightfield struct{ verts int }

func (h fakeHeightfield) ExportPayload() map[string]any {
	return map[string]any{"verts": h.verts}
}

type fakeBuilder struct {
	mu     sync.Mutex
	calls  []*navbuild.BuildRequest
	onCall func(ctx context.Context, call int) error
}

func (f *fakeBuilder) BuildNavMesh(ctx context.Context, req *navbuild.BuildRequest) (*navbuild.BuildResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	call := len(f.calls)
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}
	if req.WantHeightfield {
		return &navbuild.BuildResult{Heightfield: fakeHeightfield{verts: len(req.Positions) / 3}}, nil
	}
	return &navbuild.BuildResult{NavMesh: geom.Quad(1, 1)}, nil
}

func (f *fakeBuilder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBuilder) setHook(h func(ctx context.Context, call int) error) {
	f.mu.Lock()
	f.onCall = h
	f.mu.Unlock()
}

func crate(id string, size mgl32.Vec3, pos mgl32.Vec3) *scene.ModelNode {
	m := scene.NewModelNode(id, id, &scene.Model{
		Primitives: []scene.Primitive{{Mesh: geom.Box(size), Local: mgl32.Ident4()}},
	})
	m.SetTRS(pos, 0, mgl32.Vec3{1, 1, 1})
	m.Collidable = true
	return m
}

func newScene(t *testing.T, nodes ...scene.Node) *scene.Graph {
	g := scene.NewGraph()
	for _, n := range nodes {
		require.NoError(t, g.Add(n))
	}
	return g
}

func newFloorPlan(t *testing.T, g *scene.Graph, b navbuild.Builder) *Node {
	n := New(g, navbuild.NewOrchestrator(b))
	require.NoError(t, g.Add(n))
	return n
}

func TestGenerateGroundPlaneOnly(t *testing.T) {
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, recast.NewBuilder())

	_, err := n.Generate(context.Background())
	require.NoError(t, err)

	nav := n.NavMesh()
	require.NotNil(t, nav)
	require.False(t, nav.Mesh.IsEmpty())
	b, ok := geom.ComputeBounds(nav.Mesh.Positions)
	require.True(t, ok)
	for axis := 0; axis < 3; axis += 2 {
		assert.GreaterOrEqual(t, b.Min[axis], float32(-5))
		assert.LessOrEqual(t, b.Max[axis], float32(5))
	}

	hf := n.Heightfield()
	require.NotNil(t, hf)
	assert.Nil(t, hf.Data)
}

func TestGenerateSceneTooLarge(t *testing.T) {
	fb := &fakeBuilder{}
	g := newScene(t, crate("wall", mgl32.Vec3{3000, 1, 1}, mgl32.Vec3{}))
	n := newFloorPlan(t, g, fb)

	_, err := n.Generate(context.Background())
	var tooLarge *navbuild.SceneTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, navbuild.KindHeightfield, tooLarge.Kind)
	assert.Zero(t, fb.callCount())
	assert.Nil(t, n.NavMesh())
	assert.Nil(t, n.Heightfield())
}

func TestGenerateCancelledDuringFirstCall(t *testing.T) {
	fb := &fakeBuilder{}
	g := newScene(t,
		scene.NewGroundPlane("ground", 10, 10),
		crate("crate", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 0.5, 2}),
	)
	n := newFloorPlan(t, g, fb)

	_, err := n.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, fb.callCount())
	prevNav, prevHF := n.NavMesh(), n.Heightfield()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fb.setHook(func(ctx context.Context, _ int) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	_, err = n.Generate(ctx)
	require.ErrorIs(t, err, navbuild.ErrBuildCancelled)
	assert.Equal(t, 3, fb.callCount(), "heightfield build must not start")
	assert.Same(t, prevNav, n.NavMesh())
	assert.Same(t, prevHF, n.Heightfield())
}

func TestGenerateSupersedesRunning(t *testing.T) {
	fb := &fakeBuilder{}
	entered := make(chan struct{})
	fb.setHook(func(ctx context.Context, call int) error {
		if call != 1 {
			return nil
		}
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, fb)

	errCh := make(chan error, 1)
	go func() {
		_, err := n.Generate(context.Background())
		errCh <- err
	}()
	<-entered

	_, err := n.Generate(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, <-errCh, navbuild.ErrBuildCancelled)

	require.NotNil(t, n.NavMesh())
	// walkable call of the first run, then both calls of the second.
	assert.Equal(t, 3, fb.callCount())
}

func TestGenerateIdempotent(t *testing.T) {
	g := newScene(t,
		scene.NewGroundPlane("ground", 10, 10),
		crate("crate", mgl32.Vec3{2, 2, 2}, mgl32.Vec3{1, 1, 1}),
	)
	n := newFloorPlan(t, g, recast.NewBuilder())

	_, err := n.Generate(context.Background())
	require.NoError(t, err)
	nav1, hf1 := n.NavMesh(), n.Heightfield()

	_, err = n.Generate(context.Background())
	require.NoError(t, err)
	nav2, hf2 := n.NavMesh(), n.Heightfield()

	assert.NotEqual(t, nav1.ID, nav2.ID)
	assert.NotEqual(t, hf1.ID, hf2.ID)
	assert.Equal(t, nav1.Mesh.VertexCount(), nav2.Mesh.VertexCount())
	assert.Equal(t, len(nav1.Mesh.Indices), len(nav2.Mesh.Indices))

	h1, ok := hf1.Data.(*recast.RcHeightfield)
	require.True(t, ok)
	h2, ok := hf2.Data.(*recast.RcHeightfield)
	require.True(t, ok)
	assert.Equal(t, h1.SpanCount(), h2.SpanCount())
	assert.Equal(t, h1.PackSpans(), h2.PackSpans())
}

func TestSelectionCoupling(t *testing.T) {
	fb := &fakeBuilder{}
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, fb)

	n.OnSelect()
	assert.Nil(t, n.NavMesh())

	g.Select(n)
	_, err := n.Generate(context.Background())
	require.NoError(t, err)
	nav := n.NavMesh()
	assert.True(t, nav.Visible)

	g.Select(nil)
	assert.False(t, n.NavMesh().Visible)
	g.Select(n)
	assert.True(t, n.NavMesh().Visible)
	assert.Same(t, nav, n.NavMesh())
	assert.Equal(t, 2, fb.callCount())

	g.Select(nil)
	_, err = n.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, n.NavMesh().Visible)
}

func TestOnlyOneFloorPlanPerScene(t *testing.T) {
	g := newScene(t)
	orch := navbuild.NewOrchestrator(&fakeBuilder{})
	require.NoError(t, g.Add(New(g, orch)))
	assert.ErrorIs(t, g.Add(New(g, orch)), scene.ErrNodeRejected)
	assert.Len(t, g.GetNodesByType(scene.KindFloorPlan), 1)
}

func TestPrepareForExport(t *testing.T) {
	fb := &fakeBuilder{}
	g := newScene(t,
		scene.NewGroundPlane("ground", 10, 10),
		crate("crate", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}),
	)
	n := newFloorPlan(t, g, fb)
	_, err := n.Generate(context.Background())
	require.NoError(t, err)

	e := export.NewEntity("floor plan")
	require.NoError(t, n.PrepareForExport(e))

	assert.Zero(t, n.NavMesh().Material.Opacity)
	assert.True(t, n.NavMesh().Material.Transparent)

	visible, ok := e.Component(export.ComponentVisible)
	require.True(t, ok)
	assert.Equal(t, false, visible["visible"])
	navMesh, ok := e.Component(export.ComponentNavMesh)
	require.True(t, ok)
	assert.Empty(t, navMesh)
	hf, ok := e.Component(export.ComponentHeightfield)
	require.True(t, ok)
	assert.Equal(t, 36, hf["verts"])

	data, err := e.Encode()
	require.NoError(t, err)
	decoded, err := export.Decode(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Components, 3)
}

func TestPrepareForExportWithoutHeightfield(t *testing.T) {
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, &fakeBuilder{})
	_, err := n.Generate(context.Background())
	require.NoError(t, err)

	e := export.NewEntity("floor plan")
	require.NoError(t, n.PrepareForExport(e))
	_, ok := e.Component(export.ComponentHeightfield)
	assert.False(t, ok)
	assert.Len(t, e.Components, 2)
}

func TestSerializeDeserialize(t *testing.T) {
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, &fakeBuilder{})
	cfg := navbuild.DefaultConfig()
	cfg.AutoCellSize = true
	cfg.AgentRadius = 0.25
	require.NoError(t, n.SetConfig(cfg))

	rec, err := n.Serialize()
	require.NoError(t, err)

	other := New(g, navbuild.NewOrchestrator(&fakeBuilder{}))
	_, err = other.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, other.NavMesh())

	require.NoError(t, other.Deserialize(rec))
	assert.Equal(t, cfg, other.Config())
	assert.Nil(t, other.NavMesh())
	assert.Nil(t, other.Heightfield())

	assert.Error(t, other.Deserialize([]byte(`{"cellSize": 1}`)))
	assert.Equal(t, cfg, other.Config())
}

func TestCopyTakesConfigOnly(t *testing.T) {
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	src := New(g, navbuild.NewOrchestrator(&fakeBuilder{}))
	cfg := navbuild.DefaultConfig()
	cfg.CellSize = 0.3
	require.NoError(t, src.SetConfig(cfg))
	_, err := src.Generate(context.Background())
	require.NoError(t, err)

	dst := New(g, navbuild.NewOrchestrator(&fakeBuilder{}))
	dst.Copy(src)
	assert.Equal(t, cfg, dst.Config())
	assert.Nil(t, dst.NavMesh())
	assert.NotNil(t, src.NavMesh())
}

func TestDestroyDropsArtifacts(t *testing.T) {
	g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
	n := newFloorPlan(t, g, &fakeBuilder{})
	_, err := n.Generate(context.Background())
	require.NoError(t, err)

	n.Destroy()
	assert.Nil(t, n.NavMesh())
	assert.Nil(t, n.Heightfield())
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	for _, mutate := range []func(*navbuild.Config){
		func(c *navbuild.Config) { c.AgentRadius = -1 },
		func(c *navbuild.Config) { c.AgentHeight = float32(math.NaN()) },
		func(c *navbuild.Config) { c.AgentMaxSlope = 90 },
	} {
		cfg := navbuild.DefaultConfig()
		mutate(&cfg)
		fb := &fakeBuilder{}
		g := newScene(t, scene.NewGroundPlane("ground", 10, 10))
		n := New(g, navbuild.NewOrchestrator(fb), WithConfig(cfg))

		_, err := n.Generate(context.Background())
		assert.ErrorIs(t, err, navbuild.ErrInvalidConfig)
		assert.Zero(t, fb.callCount())
		assert.Nil(t, n.NavMesh())
	}
}

func TestConcurrentAddKeepsOneFloorPlan(t *testing.T) {
	g := newScene(t)
	orch := navbuild.NewOrchestrator(&fakeBuilder{})
	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Add(New(g, orch))
		}()
	}
	wg.Wait()
	assert.Len(t, g.GetNodesByType(scene.KindFloorPlan), 1)
}
