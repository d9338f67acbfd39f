// Package sandbox runs the locomotion system inside the ecs physics world.
//
// Each tick moves the kinematic platforms, steps the locomotion system,
// integrates the agent sphere and feeds the resulting contacts and trigger
// overlaps back to the locomotion system for the next tick.
package sandbox

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/movingsphere/internal/application/system"
	"github.com/younwookim/movingsphere/internal/domain/entity"
	"github.com/younwookim/movingsphere/internal/ecs"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// Sandbox owns a stage and the locomotion system driving its agent
type Sandbox struct {
	config *config.PhysicsConfig
	stage  *system.Stage
	world  *ecs.World
	loco   *system.LocomotionSystem
	log    *logrus.Entry

	inZone map[ecs.EntityID]bool
	steps  int
}

// New creates a sandbox for a loaded stage
func New(cfg *config.PhysicsConfig, stage *system.Stage) (*Sandbox, error) {
	w := stage.World
	if !w.Exists(w.AgentID) {
		return nil, fmt.Errorf("sandbox: stage %s has no agent", stage.ID)
	}
	loco, err := system.NewLocomotionSystem(cfg, w.Agent(), w, stage.Gravity)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	s := &Sandbox{
		config: cfg,
		stage:  stage,
		world:  w,
		loco:   loco,
		log:    logrus.WithField("component", "sandbox"),
		inZone: make(map[ecs.EntityID]bool),
	}
	s.log.WithFields(logrus.Fields{
		"stage":    stage.ID,
		"entities": len(w.Entities()),
		"sources":  stage.Gravity.Len(),
	}).Debug("sandbox ready")
	return s, nil
}

// SetLogger replaces the logger of the sandbox and its locomotion system
func (s *Sandbox) SetLogger(log *logrus.Entry) {
	s.log = log.WithField("component", "sandbox")
	s.loco.SetLogger(log)
}

// Tick advances the sandbox by one fixed step
func (s *Sandbox) Tick(dt float64, intent system.Intent) system.StepContext {
	ecs.UpdateSliders(s.world, dt)

	ctx := s.loco.Step(dt, intent)

	result := ecs.StepSphere(s.world, s.world.AgentID, dt)
	for _, c := range result.Contacts {
		s.loco.OnContact(c.Normal, c.Body, c.Layer)
	}

	inside := make(map[ecs.EntityID]bool, len(result.Triggers))
	for _, id := range result.Triggers {
		c := s.world.Collider[id]
		if s.config.Derived.WaterMask.Contains(c.Layer) {
			s.loco.OnWater(s.world.Body(id))
		}
		if zone, ok := s.world.Zone[id]; ok {
			s.accelerate(id, zone, !s.inZone[id], dt)
			inside[id] = true
		}
	}
	s.inZone = inside

	s.steps++
	return ctx
}

// accelerate applies an acceleration zone. Zones without acceleration act
// once on entry; the others act every step while the agent is inside.
func (s *Sandbox) accelerate(id ecs.EntityID, zone ecs.AccelerationZone, entered bool, dt float64) {
	instant := zone.Acceleration <= 0
	if instant && !entered {
		return
	}

	tr := s.world.Transform[id]
	v := tr.InverseTransformDirection(s.world.Agent().Velocity())
	if v.Y() >= zone.Speed {
		return
	}
	if instant {
		v[1] = zone.Speed
	} else {
		v[1] = moveTowards(v.Y(), zone.Speed, zone.Acceleration*dt)
	}

	s.loco.ForceSetVelocity(tr.TransformDirection(v))
	s.loco.PreventSnapToGround()
	if entered {
		s.log.WithFields(logrus.Fields{"zone": id, "speed": zone.Speed}).Debug("acceleration zone entered")
	}
}

// Reset moves the agent back to the spawn point
func (s *Sandbox) Reset() {
	s.world.Agent().Teleport(s.stage.Spawn)
	s.inZone = make(map[ecs.EntityID]bool)
}

// Locomotion returns the locomotion system
func (s *Sandbox) Locomotion() *system.LocomotionSystem { return s.loco }

// World returns the physics world
func (s *Sandbox) World() *ecs.World { return s.world }

// Stage returns the loaded stage
func (s *Sandbox) Stage() *system.Stage { return s.stage }

// Agent returns the agent handle
func (s *Sandbox) Agent() ecs.AgentRef { return s.world.Agent() }

// Steps returns the number of ticks run
func (s *Sandbox) Steps() int { return s.steps }

// OnWaterLayer reports whether a layer is treated as water
func (s *Sandbox) OnWaterLayer(layer entity.Layer) bool {
	return s.config.Derived.WaterMask.Contains(layer)
}

func moveTowards(current, target, maxDelta float64) float64 {
	if target-current > maxDelta {
		return current + maxDelta
	}
	if current-target > maxDelta {
		return current - maxDelta
	}
	return target
}

var (
	_ system.Scene     = (*ecs.World)(nil)
	_ system.AgentBody = ecs.AgentRef{}
	_ entity.Body      = ecs.BodyRef{}
)
