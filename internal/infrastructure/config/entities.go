package config

import "github.com/go-gl/mathgl/mgl64"

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Agent     AgentConfig               `json:"agent" yaml:"agent"`
	Platforms map[string]PlatformConfig `json:"platforms" yaml:"platforms"`
}

// AgentConfig describes the controlled sphere.
type AgentConfig struct {
	ID     string  `json:"id" yaml:"id"`
	Radius float64 `json:"radius" yaml:"radius"`
	Mass   float64 `json:"mass" yaml:"mass"`
	Color  string  `json:"color" yaml:"color"`
}

// PlatformConfig is a reusable body template referenced by stage boxes.
type PlatformConfig struct {
	ID        string  `json:"id" yaml:"id"`
	Mass      float64 `json:"mass" yaml:"mass"`
	Kinematic bool    `json:"kinematic" yaml:"kinematic"`
	Color     string  `json:"color" yaml:"color"`
}

// SliderConfig drives a kinematic body back and forth between two points.
type SliderConfig struct {
	From        mgl64.Vec3 `json:"from" yaml:"from"`
	To          mgl64.Vec3 `json:"to" yaml:"to"`
	Duration    float64    `json:"duration" yaml:"duration"` // seconds per leg
	AutoReverse bool       `json:"autoReverse" yaml:"autoReverse"`
	SmoothStep  bool       `json:"smoothStep" yaml:"smoothStep"`
}
