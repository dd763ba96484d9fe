package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_AddComponent(t *testing.T) {
	e := NewEntity("Floor Plan")
	require.NoError(t, e.AddComponent(ComponentVisible, map[string]any{"visible": true}))
	require.NoError(t, e.AddComponent(ComponentNavMesh, nil))
	require.NoError(t, e.AddComponent(ComponentVisible, map[string]any{"visible": false}))

	require.Len(t, e.Components, 2)
	v, ok := e.Component(ComponentVisible)
	require.True(t, ok)
	assert.Equal(t, false, v["visible"])

	assert.Error(t, e.AddComponent("", nil))
	assert.Error(t, e.AddComponent("bad", map[string]any{"ch": make(chan int)}))
}

func TestEntity_EncodeDecode(t *testing.T) {
	e := NewEntity("Floor Plan")
	require.NoError(t, e.AddComponent(ComponentVisible, map[string]any{"visible": false}))
	require.NoError(t, e.AddComponent(ComponentNavMesh, map[string]any{}))
	require.NoError(t, e.AddComponent(ComponentHeightfield, map[string]any{
		"width":  3,
		"bounds": []any{0.0, 1.5, 2.0},
	}))

	data, err := e.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Floor Plan", got.Name)
	require.Len(t, got.Components, 3)
	assert.Equal(t, []string{ComponentVisible, ComponentNavMesh, ComponentHeightfield},
		[]string{got.Components[0].Name, got.Components[1].Name, got.Components[2].Name})
	hf, _ := got.Component(ComponentHeightfield)
	assert.Equal(t, 3.0, hf["width"], "numbers come back as float64")
	assert.Equal(t, []any{0.0, 1.5, 2.0}, hf["bounds"])
}
