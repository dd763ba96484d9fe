package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"

	"github.com/gorustyt/floorplan/common/log"
	"github.com/gorustyt/floorplan/geom"
	"github.com/gorustyt/floorplan/navbuild"
	"github.com/gorustyt/floorplan/scene"
)

const envPrefix = "FLOORPLAN"

type groundDesc struct {
	Width    float32 `mapstructure:"width"`
	Depth    float32 `mapstructure:"depth"`
	Walkable *bool   `mapstructure:"walkable"` // default true
}

type placement struct {
	Position []float32 `mapstructure:"position"`
	Yaw      float32   `mapstructure:"yaw"`
	Scale    []float32 `mapstructure:"scale"`
}

type modelDesc struct {
	placement  `mapstructure:",squash"`
	ID         string `mapstructure:"id"`
	OBJ        string `mapstructure:"obj"`
	Collidable bool   `mapstructure:"collidable"`
	Walkable   bool   `mapstructure:"walkable"`
}

type colliderDesc struct {
	placement `mapstructure:",squash"`
	ID        string    `mapstructure:"id"`
	Size      []float32 `mapstructure:"size"`
	Walkable  bool      `mapstructure:"walkable"`
}

type buildDesc struct {
	AutoCellSize  bool    `mapstructure:"auto_cell_size"`
	CellSize      float32 `mapstructure:"cell_size"`
	CellHeight    float32 `mapstructure:"cell_height"`
	AgentHeight   float32 `mapstructure:"agent_height"`
	AgentRadius   float32 `mapstructure:"agent_radius"`
	AgentMaxClimb float32 `mapstructure:"agent_max_climb"`
	AgentMaxSlope float32 `mapstructure:"agent_max_slope"`
	RegionMinSize float32 `mapstructure:"region_min_size"`
}

// sceneFile is the on-disk scene description read by the generate command.
type sceneFile struct {
	Log       log.Config     `mapstructure:"log"`
	Build     buildDesc      `mapstructure:"floorplan"`
	Ground    *groundDesc    `mapstructure:"ground"`
	Models    []modelDesc    `mapstructure:"models"`
	Colliders []colliderDesc `mapstructure:"colliders"`

	dir string
}

func setDefaults(v *viper.Viper) {
	d := navbuild.DefaultConfig()
	v.SetDefault("floorplan.auto_cell_size", d.AutoCellSize)
	v.SetDefault("floorplan.cell_size", d.CellSize)
	v.SetDefault("floorplan.cell_height", d.CellHeight)
	v.SetDefault("floorplan.agent_height", d.AgentHeight)
	v.SetDefault("floorplan.agent_radius", d.AgentRadius)
	v.SetDefault("floorplan.agent_max_climb", d.AgentMaxClimb)
	v.SetDefault("floorplan.agent_max_slope", d.AgentMaxSlope)
	v.SetDefault("floorplan.region_min_size", d.RegionMinSize)

	v.SetDefault("log.app_name", "floorplan")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// loadSceneFile reads a YAML or JSON scene description. Build and log
// settings can be overridden with FLOORPLAN_* variables, e.g.
// FLOORPLAN_FLOORPLAN_CELL_SIZE or FLOORPLAN_LOG_LEVEL.
func loadSceneFile(path string) (*sceneFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	sf := &sceneFile{dir: filepath.Dir(path)}
	if err := v.Unmarshal(sf); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return sf, nil
}

func (sf *sceneFile) config() (navbuild.Config, error) {
	b := sf.Build
	c := navbuild.Config{
		AutoCellSize:  b.AutoCellSize,
		CellSize:      b.CellSize,
		CellHeight:    b.CellHeight,
		AgentHeight:   b.AgentHeight,
		AgentRadius:   b.AgentRadius,
		AgentMaxClimb: b.AgentMaxClimb,
		AgentMaxSlope: b.AgentMaxSlope,
		RegionMinSize: b.RegionMinSize,
	}
	return c, c.Validate()
}

func vec3(v []float32, def float32) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec3{def, def, def}, nil
	case 1:
		return mgl32.Vec3{v[0], v[0], v[0]}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl32.Vec3{}, fmt.Errorf("want 1 or 3 components, got %d", len(v))
	}
}

func (p placement) apply(b *scene.Base) error {
	pos, err := vec3(p.Position, 0)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	scale, err := vec3(p.Scale, 1)
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	b.SetTRS(pos, p.Yaw, scale)
	return nil
}

// buildGraph creates the scene graph. OBJ paths are relative to the scene
// file.
func (sf *sceneFile) buildGraph() (*scene.Graph, error) {
	g := scene.NewGraph()
	if sf.Ground != nil {
		gp := scene.NewGroundPlane("ground", sf.Ground.Width, sf.Ground.Depth)
		if sf.Ground.Walkable != nil {
			gp.Walkable = *sf.Ground.Walkable
		}
		if err := g.Add(gp); err != nil {
			return nil, err
		}
	}

	for i, md := range sf.Models {
		id := md.ID
		if id == "" {
			id = fmt.Sprintf("model-%d", i)
		}
		path := md.OBJ
		if !filepath.IsAbs(path) {
			path = filepath.Join(sf.dir, path)
		}
		mesh, err := geom.LoadOBJFile(path)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
		n := scene.NewModelNode(id, filepath.Base(md.OBJ), &scene.Model{
			Primitives: []scene.Primitive{{Mesh: mesh, Local: mgl32.Ident4()}},
		})
		n.Collidable = md.Collidable
		n.Walkable = md.Walkable
		if err := md.apply(&n.Base); err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}

	for i, cd := range sf.Colliders {
		id := cd.ID
		if id == "" {
			id = fmt.Sprintf("collider-%d", i)
		}
		size, err := vec3(cd.Size, 1)
		if err != nil {
			return nil, fmt.Errorf("collider %s: size: %w", id, err)
		}
		n := scene.NewBoxCollider(id, size)
		n.Walkable = cd.Walkable
		if err := cd.apply(&n.Base); err != nil {
			return nil, fmt.Errorf("collider %s: %w", id, err)
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}
