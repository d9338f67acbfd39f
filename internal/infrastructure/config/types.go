package config

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// PhysicsConfig is the root config for physics.json / physics.yaml
type PhysicsConfig struct {
	Display  DisplayConfig   `json:"display" yaml:"display"`
	Physics  PhysicsSettings `json:"physics" yaml:"physics"`
	Movement MovementConfig  `json:"movement" yaml:"movement"`
	Jump     JumpConfig      `json:"jump" yaml:"jump"`
	Ground   GroundConfig    `json:"ground" yaml:"ground"`
	Climb    ClimbConfig     `json:"climb" yaml:"climb"`
	Swim     SwimConfig      `json:"swim" yaml:"swim"`
	Layers   LayersConfig    `json:"layers" yaml:"layers"`

	// Derived is filled by Derive and never read from disk.
	Derived DerivedConfig `json:"-" yaml:"-"`
}

type DisplayConfig struct {
	ScreenWidth   int     `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight  int     `json:"screenHeight" yaml:"screenHeight"`
	Scale         int     `json:"scale" yaml:"scale"`
	Framerate     int     `json:"framerate" yaml:"framerate"`
	PixelsPerUnit float64 `json:"pixelsPerUnit" yaml:"pixelsPerUnit"`
}

type PhysicsSettings struct {
	FixedStep float64    `json:"fixedStep" yaml:"fixedStep"` // seconds per step
	Gravity   mgl64.Vec3 `json:"gravity" yaml:"gravity"`     // used when a stage defines no sources
	Up        mgl64.Vec3 `json:"up" yaml:"up"`               // fallback up where gravity vanishes
}

type MovementConfig struct {
	MaxSpeed           float64 `json:"maxSpeed" yaml:"maxSpeed"`
	MaxAcceleration    float64 `json:"maxAcceleration" yaml:"maxAcceleration"`
	MaxAirAcceleration float64 `json:"maxAirAcceleration" yaml:"maxAirAcceleration"`
	MinDetourAngle     float64 `json:"minDetourAngle" yaml:"minDetourAngle"` // degrees
	MaxSnapSpeed       float64 `json:"maxSnapSpeed" yaml:"maxSnapSpeed"`
	ProbeDistance      float64 `json:"probeDistance" yaml:"probeDistance"`
	MaxDropSpeed       float64 `json:"maxDropSpeed" yaml:"maxDropSpeed"`
	MaxSteepDropSpeed  float64 `json:"maxSteepDropSpeed" yaml:"maxSteepDropSpeed"`
}

type JumpConfig struct {
	Height                      float64 `json:"height" yaml:"height"`
	AirHeight                   float64 `json:"airHeight" yaml:"airHeight"`
	MaxAirJumps                 int     `json:"maxAirJumps" yaml:"maxAirJumps"`
	EarlyEndGravityScale        float64 `json:"earlyEndGravityScale" yaml:"earlyEndGravityScale"`
	AirJumpEarlyEndGravityScale float64 `json:"airJumpEarlyEndGravityScale" yaml:"airJumpEarlyEndGravityScale"`
	// SteepInputModifier scales how much movement input bends a wall jump.
	SteepInputModifier float64 `json:"steepInputModifier" yaml:"steepInputModifier"`
}

type GroundConfig struct {
	MaxGroundAngle float64 `json:"maxGroundAngle" yaml:"maxGroundAngle"` // degrees
	MaxStairsAngle float64 `json:"maxStairsAngle" yaml:"maxStairsAngle"` // degrees
}

type ClimbConfig struct {
	MaxAngle     float64 `json:"maxAngle" yaml:"maxAngle"` // degrees, 90..180
	MaxSpeed     float64 `json:"maxSpeed" yaml:"maxSpeed"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
	// Adhesion is the fraction of climb acceleration pulling the agent into
	// the wall it climbs.
	Adhesion float64 `json:"adhesion" yaml:"adhesion"`
}

type SwimConfig struct {
	SubmergenceOffset      float64 `json:"submergenceOffset" yaml:"submergenceOffset"`
	SubmergenceRange       float64 `json:"submergenceRange" yaml:"submergenceRange"`
	Buoyancy               float64 `json:"buoyancy" yaml:"buoyancy"`
	DriftThreshold         float64 `json:"driftThreshold" yaml:"driftThreshold"`
	DiveThreshold          float64 `json:"diveThreshold" yaml:"diveThreshold"`
	MaxSpeed               float64 `json:"maxSpeed" yaml:"maxSpeed"`
	Acceleration           float64 `json:"acceleration" yaml:"acceleration"`
	DivingJumpHeight       float64 `json:"divingJumpHeight" yaml:"divingJumpHeight"`
	WaterDrag              float64 `json:"waterDrag" yaml:"waterDrag"`
	WaterJumpDrag          float64 `json:"waterJumpDrag" yaml:"waterJumpDrag"`
	DriftAlignMaxSpeed     float64 `json:"driftAlignMaxSpeed" yaml:"driftAlignMaxSpeed"`
	DriftAlignAcceleration float64 `json:"driftAlignAcceleration" yaml:"driftAlignAcceleration"`
	FreeDiving             bool    `json:"freeDiving" yaml:"freeDiving"`
	DivingClimbable        bool    `json:"divingClimbable" yaml:"divingClimbable"`
	SafeFloating           bool    `json:"safeFloating" yaml:"safeFloating"`
}

// LayersConfig lists the collision layers each query considers.
type LayersConfig struct {
	Probe  []entity.Layer `json:"probe" yaml:"probe"`
	Stairs []entity.Layer `json:"stairs" yaml:"stairs"`
	Climb  []entity.Layer `json:"climb" yaml:"climb"`
	Water  []entity.Layer `json:"water" yaml:"water"`
}

// DerivedConfig holds values computed once from the tunable settings.
type DerivedConfig struct {
	MinGroundDot float64
	MinStairsDot float64
	MinClimbDot  float64
	MaxDetourDot float64

	ProbeMask  entity.LayerMask
	StairsMask entity.LayerMask
	ClimbMask  entity.LayerMask
	WaterMask  entity.LayerMask
}

// MinDot returns the ground threshold for a surface on the given layer.
func (d DerivedConfig) MinDot(layer entity.Layer) float64 {
	if d.StairsMask.Contains(layer) {
		return d.MinStairsDot
	}
	return d.MinGroundDot
}
