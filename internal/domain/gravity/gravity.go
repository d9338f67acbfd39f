// Package gravity provides gravity fields for the locomotion controller.
//
// A Provider answers "what is gravity here, and which way is up" for any
// world position. Fields are built from sources (uniform, plane, sphere and
// box) whose contributions are summed, which allows non-uniform and oriented
// gravity such as walking around a planet or on the faces of a cube.
package gravity

import "github.com/go-gl/mathgl/mgl64"

// Provider returns the gravity acceleration at a position and the unit up
// axis the agent should use there.
type Provider interface {
	GravityAt(position mgl64.Vec3) (gravity, up mgl64.Vec3)
}

// Source contributes a gravity acceleration at a position.
type Source interface {
	Gravity(position mgl64.Vec3) mgl64.Vec3
}

// WorldUp is the default up axis.
var WorldUp = mgl64.Vec3{0, 1, 0}

// minGravitySqr is the squared magnitude below which gravity is treated as
// absent and the fallback up axis is used.
const minGravitySqr = 1e-12

// Field sums the contributions of its sources. The up axis points against
// the resulting gravity; when gravity vanishes the fallback up is returned.
type Field struct {
	sources []Source
	up      mgl64.Vec3
}

// NewField creates a field from sources. fallbackUp is normalized; a zero
// fallback selects WorldUp.
func NewField(fallbackUp mgl64.Vec3, sources ...Source) *Field {
	if fallbackUp.LenSqr() < minGravitySqr {
		fallbackUp = WorldUp
	}
	return &Field{
		sources: sources,
		up:      fallbackUp.Normalize(),
	}
}

// Register adds a source to the field.
func (f *Field) Register(s Source) {
	f.sources = append(f.sources, s)
}

// Unregister removes a source from the field. It reports whether the source
// was registered.
func (f *Field) Unregister(s Source) bool {
	for i, src := range f.sources {
		if src == s {
			f.sources = append(f.sources[:i], f.sources[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered sources.
func (f *Field) Len() int {
	return len(f.sources)
}

// GravityAt implements Provider.
func (f *Field) GravityAt(position mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var g mgl64.Vec3
	for _, s := range f.sources {
		g = g.Add(s.Gravity(position))
	}
	if g.LenSqr() < minGravitySqr {
		return mgl64.Vec3{}, f.up
	}
	return g, g.Normalize().Mul(-1)
}

// Uniform is a constant gravity acceleration everywhere.
type Uniform struct {
	G mgl64.Vec3
}

// Gravity implements Source.
func (u Uniform) Gravity(mgl64.Vec3) mgl64.Vec3 {
	return u.G
}

// GravityAt lets a Uniform act as a Provider on its own.
func (u Uniform) GravityAt(mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if u.G.LenSqr() < minGravitySqr {
		return mgl64.Vec3{}, WorldUp
	}
	return u.G, u.G.Normalize().Mul(-1)
}
