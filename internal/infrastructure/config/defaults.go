package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// ErrInvalidConfig is returned when a config value cannot be clamped into a
// usable range.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultPhysicsConfig returns the tuned defaults with derived values filled.
func DefaultPhysicsConfig() *PhysicsConfig {
	cfg := &PhysicsConfig{
		Display: DisplayConfig{
			ScreenWidth:   640,
			ScreenHeight:  360,
			Scale:         2,
			Framerate:     60,
			PixelsPerUnit: 16,
		},
		Physics: PhysicsSettings{
			FixedStep: 0.02,
			Gravity:   mgl64.Vec3{0, -9.81, 0},
			Up:        mgl64.Vec3{0, 1, 0},
		},
		Movement: MovementConfig{
			MaxSpeed:           10,
			MaxAcceleration:    80,
			MaxAirAcceleration: 20,
			MinDetourAngle:     45,
			MaxSnapSpeed:       100,
			ProbeDistance:      1,
			MaxDropSpeed:       30,
			MaxSteepDropSpeed:  3,
		},
		Jump: JumpConfig{
			Height:                      3,
			AirHeight:                   2,
			MaxAirJumps:                 0,
			EarlyEndGravityScale:        3,
			AirJumpEarlyEndGravityScale: 1,
			SteepInputModifier:          0.7,
		},
		Ground: GroundConfig{
			MaxGroundAngle: 25,
			MaxStairsAngle: 50,
		},
		Climb: ClimbConfig{
			MaxAngle:     140,
			MaxSpeed:     4,
			Acceleration: 40,
			Adhesion:     0.9,
		},
		Swim: SwimConfig{
			SubmergenceOffset:      0.5,
			SubmergenceRange:       1,
			Buoyancy:               1,
			DriftThreshold:         0.3,
			DiveThreshold:          0.95,
			MaxSpeed:               5,
			Acceleration:           5,
			DivingJumpHeight:       1,
			WaterDrag:              1,
			WaterJumpDrag:          0,
			DriftAlignMaxSpeed:     100,
			DriftAlignAcceleration: 15,
		},
		Layers: LayersConfig{
			Probe:  []entity.Layer{entity.LayerDefault, entity.LayerStairs, entity.LayerClimb},
			Stairs: []entity.Layer{entity.LayerStairs},
			Climb:  []entity.Layer{entity.LayerClimb},
			Water:  []entity.Layer{entity.LayerWater},
		},
	}
	cfg.Derive()
	return cfg
}

// Validate clamps tunables into their supported ranges and fills Derived.
// It fails only for values that have no sensible clamp.
func (c *PhysicsConfig) Validate() error {
	if !(c.Physics.FixedStep > 0) {
		return fmt.Errorf("%w: physics.fixedStep must be positive, got %v", ErrInvalidConfig, c.Physics.FixedStep)
	}
	if !entity.IsFinite(c.Physics.Gravity) || !entity.IsFinite(c.Physics.Up) {
		return fmt.Errorf("%w: physics.gravity and physics.up must be finite", ErrInvalidConfig)
	}
	if c.Jump.MaxAirJumps < 0 {
		return fmt.Errorf("%w: jump.maxAirJumps must not be negative, got %d", ErrInvalidConfig, c.Jump.MaxAirJumps)
	}
	for _, layers := range [][]entity.Layer{c.Layers.Probe, c.Layers.Stairs, c.Layers.Climb, c.Layers.Water} {
		for _, l := range layers {
			if l < 0 || l >= 32 {
				return fmt.Errorf("%w: layer %d out of range 0..31", ErrInvalidConfig, l)
			}
		}
	}

	m := &c.Movement
	m.MaxSpeed = clamp(m.MaxSpeed, 0, 100)
	m.MaxAcceleration = clamp(m.MaxAcceleration, 0, 100)
	m.MaxAirAcceleration = clamp(m.MaxAirAcceleration, 0, 100)
	m.MinDetourAngle = clamp(m.MinDetourAngle, 0, 90)
	m.MaxSnapSpeed = clamp(m.MaxSnapSpeed, 0, 100)
	m.ProbeDistance = math.Max(m.ProbeDistance, 0)
	m.MaxDropSpeed = clamp(m.MaxDropSpeed, 2, 100)
	m.MaxSteepDropSpeed = clamp(m.MaxSteepDropSpeed, 2, 100)

	j := &c.Jump
	j.Height = clamp(j.Height, 0, 10)
	j.AirHeight = clamp(j.AirHeight, 0, 10)
	j.EarlyEndGravityScale = clamp(j.EarlyEndGravityScale, 0, 5)
	j.AirJumpEarlyEndGravityScale = clamp(j.AirJumpEarlyEndGravityScale, 0, 5)
	j.SteepInputModifier = clamp(j.SteepInputModifier, 0, 1)

	c.Ground.MaxGroundAngle = clamp(c.Ground.MaxGroundAngle, 0, 90)
	c.Ground.MaxStairsAngle = clamp(c.Ground.MaxStairsAngle, 0, 90)

	cl := &c.Climb
	cl.MaxAngle = clamp(cl.MaxAngle, 90, 180)
	cl.MaxSpeed = clamp(cl.MaxSpeed, 0, 100)
	cl.Acceleration = clamp(cl.Acceleration, 0, 100)
	cl.Adhesion = clamp(cl.Adhesion, 0, 1)

	s := &c.Swim
	s.SubmergenceRange = math.Max(s.SubmergenceRange, 0.1)
	s.Buoyancy = math.Max(s.Buoyancy, 0)
	s.DiveThreshold = clamp(s.DiveThreshold, 0.01, 1)
	s.DriftThreshold = math.Min(clamp(s.DriftThreshold, 0.01, 1), s.DiveThreshold)
	s.MaxSpeed = clamp(s.MaxSpeed, 0, 100)
	s.Acceleration = clamp(s.Acceleration, 0, 100)
	s.DivingJumpHeight = clamp(s.DivingJumpHeight, 0, 10)
	s.WaterDrag = clamp(s.WaterDrag, 0, 10)
	s.WaterJumpDrag = clamp(s.WaterJumpDrag, 0, 1)
	s.DriftAlignMaxSpeed = math.Max(s.DriftAlignMaxSpeed, 0)
	s.DriftAlignAcceleration = math.Max(s.DriftAlignAcceleration, 0)

	c.Derive()
	return nil
}

// Derive computes the cosine thresholds and layer masks.
func (c *PhysicsConfig) Derive() {
	c.Derived = DerivedConfig{
		MinGroundDot: cosDeg(c.Ground.MaxGroundAngle),
		MinStairsDot: cosDeg(c.Ground.MaxStairsAngle),
		MinClimbDot:  cosDeg(c.Climb.MaxAngle),
		MaxDetourDot: cosDeg(c.Movement.MinDetourAngle),
		ProbeMask:    entity.MaskOf(c.Layers.Probe...),
		StairsMask:   entity.MaskOf(c.Layers.Stairs...),
		ClimbMask:    entity.MaskOf(c.Layers.Climb...),
		WaterMask:    entity.MaskOf(c.Layers.Water...),
	}
}

func cosDeg(deg float64) float64 {
	return math.Cos(mgl64.DegToRad(deg))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
