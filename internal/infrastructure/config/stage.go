package config

import "github.com/go-gl/mathgl/mgl64"

// StageConfig is the root config for stage JSON files
type StageConfig struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Spawn   mgl64.Vec3            `json:"spawn"`
	Gravity []GravitySourceConfig `json:"gravity"`
	Boxes   []BoxConfig           `json:"boxes"`
	Water   []VolumeConfig        `json:"water"`
	Zones   []ZoneConfig          `json:"zones"`
}

// GravitySourceConfig describes one gravity source. Type selects which of
// the remaining fields apply: "uniform", "plane", "sphere" or "box".
type GravitySourceConfig struct {
	Type     string     `json:"type"`
	Strength float64    `json:"strength"`
	Vector   mgl64.Vec3 `json:"vector,omitempty"` // uniform
	Position mgl64.Vec3 `json:"position"`
	Up       mgl64.Vec3 `json:"up,omitempty"`    // plane
	Range    float64    `json:"range,omitempty"` // plane

	// sphere radii, box distances
	InnerFalloff float64 `json:"innerFalloff,omitempty"`
	Inner        float64 `json:"inner,omitempty"`
	Outer        float64 `json:"outer,omitempty"`
	OuterFalloff float64 `json:"outerFalloff,omitempty"`

	Boundary mgl64.Vec3 `json:"boundary,omitempty"` // box half extents
	Rotation mgl64.Vec3 `json:"rotation,omitempty"` // box euler angles, degrees
}

// BoxConfig is a solid oriented box.
type BoxConfig struct {
	Name        string        `json:"name"`
	Position    mgl64.Vec3    `json:"position"`
	HalfExtents mgl64.Vec3    `json:"halfExtents"`
	Rotation    mgl64.Vec3    `json:"rotation,omitempty"` // euler angles, degrees
	Layer       int           `json:"layer"`
	Platform    string        `json:"platform,omitempty"` // entities.json platform template
	Slider      *SliderConfig `json:"slider,omitempty"`
}

// VolumeConfig is a trigger box such as a water volume.
type VolumeConfig struct {
	Position    mgl64.Vec3 `json:"position"`
	HalfExtents mgl64.Vec3 `json:"halfExtents"`
	Layer       int        `json:"layer"`
}

// ZoneConfig is an acceleration zone: while inside, the agent's velocity
// along the zone's up axis is driven toward Speed.
type ZoneConfig struct {
	Position     mgl64.Vec3 `json:"position"`
	HalfExtents  mgl64.Vec3 `json:"halfExtents"`
	Rotation     mgl64.Vec3 `json:"rotation,omitempty"`
	Acceleration float64    `json:"acceleration"`
	Speed        float64    `json:"speed"`
}
