package navbuild

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorustyt/floorplan/common"
)

// Config is the persisted floor-plan build configuration.
type Config struct {
	/// Derive CellSize from the geometry footprint at build time.
	AutoCellSize bool
	/// The xz-plane cell size. [Limit: > 0] [Units: wu]
	CellSize float32
	/// The y-axis cell size. [Limit: > 0] [Units: wu]
	CellHeight float32
	/// Minimum floor to ceiling height the agent needs. [Units: wu]
	AgentHeight float32
	/// Distance to erode the walkable area away from obstructions. [Units: wu]
	AgentRadius float32
	/// Maximum ledge height still traversable. [Units: wu]
	AgentMaxClimb float32
	/// Maximum walkable slope. [Limits: 0 <= value < 90] [Units: Degrees]
	AgentMaxSlope float32
	/// Regions smaller than RegionMinSize^2 cells are discarded. [Units: vx]
	RegionMinSize float32
}

func DefaultConfig() Config {
	return Config{
		AutoCellSize:  false,
		CellSize:      0.166,
		CellHeight:    0.1,
		AgentHeight:   1.7,
		AgentRadius:   0.5,
		AgentMaxClimb: 0.3,
		AgentMaxSlope: 45,
		RegionMinSize: 4,
	}
}

func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"cellSize", c.CellSize},
		{"cellHeight", c.CellHeight},
		{"agentHeight", c.AgentHeight},
		{"agentRadius", c.AgentRadius},
		{"agentMaxClimb", c.AgentMaxClimb},
		{"agentMaxSlope", c.AgentMaxSlope},
		{"regionMinSize", c.RegionMinSize},
	}
	for _, f := range fields {
		if !common.IsFinite(f.v) || f.v < 0 {
			return fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if c.AgentMaxSlope >= 90 {
		return fmt.Errorf("%w: agentMaxSlope must be below 90 degrees, got %v", ErrInvalidConfig, c.AgentMaxSlope)
	}
	return nil
}

// record is the on-disk shape. Pointers let decode tell a missing key from
// a zero value.
type record struct {
	AutoCellSize  *bool    `json:"autoCellSize"`
	CellSize      *float32 `json:"cellSize"`
	CellHeight    *float32 `json:"cellHeight"`
	AgentHeight   *float32 `json:"agentHeight"`
	AgentRadius   *float32 `json:"agentRadius"`
	AgentMaxClimb *float32 `json:"agentMaxClimb"`
	AgentMaxSlope *float32 `json:"agentMaxSlope"`
	RegionMinSize *float32 `json:"regionMinSize"`
}

// MarshalRecord encodes the config as its persisted component record.
func (c Config) MarshalRecord() (json.RawMessage, error) {
	return json.Marshal(record{
		AutoCellSize:  &c.AutoCellSize,
		CellSize:      &c.CellSize,
		CellHeight:    &c.CellHeight,
		AgentHeight:   &c.AgentHeight,
		AgentRadius:   &c.AgentRadius,
		AgentMaxClimb: &c.AgentMaxClimb,
		AgentMaxSlope: &c.AgentMaxSlope,
		RegionMinSize: &c.RegionMinSize,
	})
}

// UnmarshalRecord decodes a persisted record. Every field must be present;
// nothing is defaulted and unknown keys are rejected.
func UnmarshalRecord(data []byte) (Config, error) {
	var r record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var missing []string
	f32 := func(name string, p *float32) float32 {
		if p == nil {
			missing = append(missing, name)
			return 0
		}
		return *p
	}
	c := Config{
		CellSize:      f32("cellSize", r.CellSize),
		CellHeight:    f32("cellHeight", r.CellHeight),
		AgentHeight:   f32("agentHeight", r.AgentHeight),
		AgentRadius:   f32("agentRadius", r.AgentRadius),
		AgentMaxClimb: f32("agentMaxClimb", r.AgentMaxClimb),
		AgentMaxSlope: f32("agentMaxSlope", r.AgentMaxSlope),
		RegionMinSize: f32("regionMinSize", r.RegionMinSize),
	}
	if r.AutoCellSize == nil {
		missing = append(missing, "autoCellSize")
	} else {
		c.AutoCellSize = *r.AutoCellSize
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: missing fields %v", ErrInvalidConfig, missing)
	}
	return c, c.Validate()
}
