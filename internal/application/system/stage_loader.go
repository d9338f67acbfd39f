package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
	"github.com/younwookim/movingsphere/internal/domain/gravity"
	"github.com/younwookim/movingsphere/internal/ecs"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// Stage is a sandbox scene built from a StageConfig
type Stage struct {
	ID      string
	World   *ecs.World
	Gravity *gravity.Field
	Spawn   mgl64.Vec3
	Names   map[ecs.EntityID]string
}

// LoadStage converts a StageConfig into a sandbox world with the agent at
// the spawn point.
func LoadStage(cfg *config.StageConfig, entities *config.EntitiesConfig, physics *config.PhysicsConfig) (*Stage, error) {
	field, err := buildGravity(cfg.Gravity, physics)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", cfg.ID, err)
	}

	w := ecs.NewWorld()
	names := make(map[ecs.EntityID]string)

	for _, b := range cfg.Boxes {
		id := w.CreateBox(b.Position, eulerToQuat(b.Rotation), b.HalfExtents, entity.Layer(b.Layer))
		names[id] = b.Name
		if b.Platform != "" {
			tpl, ok := entities.Platforms[b.Platform]
			if !ok {
				return nil, fmt.Errorf("stage %s: box %q: %w: unknown platform %q", cfg.ID, b.Name, config.ErrInvalidConfig, b.Platform)
			}
			w.AttachRigidbody(id, tpl.Mass, tpl.Kinematic)
		}
		if b.Slider != nil {
			if rb, ok := w.Rigidbody[id]; !ok || !rb.Kinematic {
				return nil, fmt.Errorf("stage %s: box %q: %w: sliders need a kinematic platform", cfg.ID, b.Name, config.ErrInvalidConfig)
			}
			w.AttachSlider(id, ecs.Slider{
				From:        b.Slider.From,
				To:          b.Slider.To,
				Duration:    max(b.Slider.Duration, 0.01),
				AutoReverse: b.Slider.AutoReverse,
				SmoothStep:  b.Slider.SmoothStep,
			})
		}
	}

	for _, v := range cfg.Water {
		w.CreateTrigger(v.Position, mgl64.QuatIdent(), v.HalfExtents, entity.Layer(v.Layer))
	}

	for _, z := range cfg.Zones {
		w.CreateZone(z.Position, eulerToQuat(z.Rotation), z.HalfExtents, ecs.AccelerationZone{
			Acceleration: z.Acceleration,
			Speed:        z.Speed,
		})
	}

	w.CreateAgent(cfg.Spawn, entities.Agent.Radius, entities.Agent.Mass)

	return &Stage{
		ID:      cfg.ID,
		World:   w,
		Gravity: field,
		Spawn:   cfg.Spawn,
		Names:   names,
	}, nil
}

func buildGravity(sources []config.GravitySourceConfig, physics *config.PhysicsConfig) (*gravity.Field, error) {
	field := gravity.NewField(physics.Physics.Up)
	if len(sources) == 0 {
		field.Register(gravity.Uniform{G: physics.Physics.Gravity})
		return field, nil
	}

	for i, src := range sources {
		switch src.Type {
		case "uniform":
			field.Register(gravity.Uniform{G: src.Vector})
		case "plane":
			field.Register(gravity.NewPlane(src.Position, src.Up, src.Strength, src.Range))
		case "sphere":
			field.Register(gravity.NewSphere(src.Position, src.Strength, src.InnerFalloff, src.Inner, src.Outer, src.OuterFalloff))
		case "box":
			field.Register(gravity.NewBox(src.Position, eulerToQuat(src.Rotation), src.Strength, src.Boundary,
				src.Inner, src.InnerFalloff, src.Outer, src.OuterFalloff))
		default:
			return nil, fmt.Errorf("gravity source %d: %w: unknown type %q", i, config.ErrInvalidConfig, src.Type)
		}
	}
	return field, nil
}

// eulerToQuat converts euler angles in degrees to a rotation applied about
// X, then Y, then Z.
func eulerToQuat(deg mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(deg.X()), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(deg.Y()), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(deg.Z()), mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}
