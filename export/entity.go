// Package export is the attachment surface used when packaging scene nodes
// for the runtime.
package export

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gorustyt/floorplan/common/message"
)

const (
	ComponentVisible     = "visible"
	ComponentNavMesh     = "nav-mesh"
	ComponentHeightfield = "heightfield"
)

// Attacher receives named components for one exported node.
type Attacher interface {
	AddComponent(name string, payload map[string]any) error
}

type Component struct {
	Name    string
	Payload map[string]any
}

// Entity is the export representation of one node: an ordered list of
// named components.
type Entity struct {
	Name       string
	Components []Component
}

func NewEntity(name string) *Entity {
	return &Entity{Name: name}
}

// AddComponent appends a component. Payload values must be representable
// as a google.protobuf.Value; a repeated name replaces the earlier payload.
func (e *Entity) AddComponent(name string, payload map[string]any) error {
	if name == "" {
		return fmt.Errorf("export: empty component name")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if _, err := structpb.NewStruct(payload); err != nil {
		return fmt.Errorf("export: component %q: %w", name, err)
	}
	for i := range e.Components {
		if e.Components[i].Name == name {
			e.Components[i].Payload = payload
			return nil
		}
	}
	e.Components = append(e.Components, Component{Name: name, Payload: payload})
	return nil
}

func (e *Entity) Component(name string) (map[string]any, bool) {
	for _, c := range e.Components {
		if c.Name == name {
			return c.Payload, true
		}
	}
	return nil, false
}

// Encode packs the entity as a protobuf Struct:
// {"name": ..., "components": [{"name": ..., "payload": {...}}, ...]}.
func (e *Entity) Encode() ([]byte, error) {
	comps := make([]any, 0, len(e.Components))
	for _, c := range e.Components {
		comps = append(comps, map[string]any{"name": c.Name, "payload": c.Payload})
	}
	return message.EncodeMap(map[string]any{
		"name":       e.Name,
		"components": comps,
	})
}

func Decode(data []byte) (*Entity, error) {
	m, err := message.DecodeMap(data)
	if err != nil {
		return nil, err
	}
	e := &Entity{}
	e.Name, _ = m["name"].(string)
	list, _ := m["components"].([]any)
	for _, raw := range list {
		cm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("export: malformed component %v", raw)
		}
		name, _ := cm["name"].(string)
		payload, _ := cm["payload"].(map[string]any)
		if payload == nil {
			payload = map[string]any{}
		}
		e.Components = append(e.Components, Component{Name: name, Payload: payload})
	}
	return e, nil
}
