package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

func TestLoader_LoadPhysics(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	cfg, err := loader.LoadPhysics()
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Display.ScreenWidth)
	assert.Equal(t, 360, cfg.Display.ScreenHeight)
	assert.Equal(t, 0.02, cfg.Physics.FixedStep)
	assert.Equal(t, mgl64.Vec3{0, -9.81, 0}, cfg.Physics.Gravity)
	assert.Equal(t, 1, cfg.Jump.MaxAirJumps)
	assert.True(t, cfg.Swim.SafeFloating)
	assert.Equal(t, entity.MaskOf(entity.LayerWater), cfg.Derived.WaterMask)
	assert.InDelta(t, 0.9063, cfg.Derived.MinGroundDot, 1e-4)
}

func TestLoader_YAMLMatchesJSON(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	fromJSON, err := loader.LoadPhysicsFile("physics.json")
	require.NoError(t, err)
	fromYAML, err := loader.LoadPhysicsFile("physics.yaml")
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
}

func TestLoader_LoadEntities(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	cfg, err := loader.LoadEntities()
	require.NoError(t, err)

	assert.Equal(t, "sphere", cfg.Agent.ID)
	assert.Equal(t, 0.5, cfg.Agent.Radius)
	assert.Equal(t, 1.0, cfg.Agent.Mass)

	lift, ok := cfg.Platforms["lift"]
	require.True(t, ok)
	assert.True(t, lift.Kinematic)
}

func TestLoader_LoadStage(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	cfg, err := loader.LoadStage("demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.ID)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, cfg.Spawn)
	require.Len(t, cfg.Gravity, 1)
	assert.Equal(t, "uniform", cfg.Gravity[0].Type)
	assert.NotEmpty(t, cfg.Boxes)
	require.Len(t, cfg.Water, 1)
	assert.Equal(t, int(entity.LayerWater), cfg.Water[0].Layer)

	var lift *BoxConfig
	for i := range cfg.Boxes {
		if cfg.Boxes[i].Name == "lift" {
			lift = &cfg.Boxes[i]
		}
	}
	require.NotNil(t, lift)
	require.NotNil(t, lift.Slider)
	assert.True(t, lift.Slider.AutoReverse)
}

func TestLoader_LoadAll(t *testing.T) {
	loader := NewLoader("../../../cmd/game/configs")

	cfg, err := loader.LoadAll()
	require.NoError(t, err)

	assert.NotNil(t, cfg.Physics)
	assert.NotNil(t, cfg.Entities)
}

func TestLoader_MissingFieldsKeepDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"physics.yaml": {Data: []byte("movement:\n  maxSpeed: 7\n")},
	}
	loader := NewFSLoader(fsys, ".")

	cfg, err := loader.LoadPhysicsFile("physics.yaml")
	require.NoError(t, err)

	def := DefaultPhysicsConfig()
	assert.Equal(t, 7.0, cfg.Movement.MaxSpeed)
	assert.Equal(t, def.Movement.MaxAcceleration, cfg.Movement.MaxAcceleration)
	assert.Equal(t, def.Swim, cfg.Swim)
}

func TestLoader_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.json":   {Data: []byte("{")},
		"zerostep.json": {Data: []byte(`{"physics": {"fixedStep": 0}}`)},
		"entities.json": {Data: []byte(`{"agent": {"radius": 0, "mass": 1}}`)},
	}
	loader := NewFSLoader(fsys, ".")

	_, err := loader.LoadPhysicsFile("missing.json")
	assert.Error(t, err)

	_, err = loader.LoadPhysicsFile("broken.json")
	assert.Error(t, err)

	_, err = loader.LoadPhysicsFile("zerostep.json")
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = loader.LoadEntities()
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = loader.LoadStage("nope")
	assert.Error(t, err)
}
