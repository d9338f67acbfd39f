package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane pulls toward an infinite plane along its normal. Above the plane the
// pull fades linearly to zero at Range; below it the full strength applies.
type Plane struct {
	Origin   mgl64.Vec3
	Up       mgl64.Vec3 // plane normal, normalized by NewPlane
	Strength float64
	Range    float64
}

// NewPlane creates a plane source. A zero up selects WorldUp.
func NewPlane(origin, up mgl64.Vec3, strength, rng float64) *Plane {
	if up.LenSqr() < minGravitySqr {
		up = WorldUp
	}
	return &Plane{
		Origin:   origin,
		Up:       up.Normalize(),
		Strength: strength,
		Range:    math.Max(rng, 0),
	}
}

// Gravity implements Source.
func (p *Plane) Gravity(position mgl64.Vec3) mgl64.Vec3 {
	distance := p.Up.Dot(position.Sub(p.Origin))
	if distance > p.Range {
		return mgl64.Vec3{}
	}
	g := -p.Strength
	if distance > 0 {
		g *= 1 - distance/p.Range
	}
	return p.Up.Mul(g)
}

// Sphere pulls toward its center. Strength is full between InnerRadius and
// OuterRadius and fades linearly to zero at InnerFalloffRadius and
// OuterFalloffRadius.
type Sphere struct {
	Center                          mgl64.Vec3
	Strength                        float64
	InnerFalloffRadius, InnerRadius float64
	OuterRadius, OuterFalloffRadius float64

	innerFalloffFactor, outerFalloffFactor float64
}

// NewSphere creates a sphere source, ordering the radii so that
// innerFalloff <= inner <= outer <= outerFalloff.
func NewSphere(center mgl64.Vec3, strength, innerFalloff, inner, outer, outerFalloff float64) *Sphere {
	innerFalloff = math.Max(innerFalloff, 0)
	inner = math.Max(inner, innerFalloff)
	outer = math.Max(outer, inner)
	outerFalloff = math.Max(outerFalloff, outer)
	return &Sphere{
		Center:             center,
		Strength:           strength,
		InnerFalloffRadius: innerFalloff,
		InnerRadius:        inner,
		OuterRadius:        outer,
		OuterFalloffRadius: outerFalloff,
		innerFalloffFactor: 1 / (inner - innerFalloff),
		outerFalloffFactor: 1 / (outerFalloff - outer),
	}
}

// Gravity implements Source.
func (s *Sphere) Gravity(position mgl64.Vec3) mgl64.Vec3 {
	vector := s.Center.Sub(position)
	distance := vector.Len()
	if distance > s.OuterFalloffRadius || distance < s.InnerFalloffRadius || distance == 0 {
		return mgl64.Vec3{}
	}
	g := s.Strength / distance
	if distance > s.OuterRadius {
		g *= 1 - (distance-s.OuterRadius)*s.outerFalloffFactor
	} else if distance < s.InnerRadius {
		g *= 1 - (s.InnerRadius-distance)*s.innerFalloffFactor
	}
	return vector.Mul(g)
}

// Box pulls toward the faces of an oriented box. Inside the box the nearest
// face attracts with full strength up to InnerDistance and fades out at
// InnerFalloffDistance; outside it the box attracts up to OuterDistance and
// fades out at OuterFalloffDistance.
type Box struct {
	Center   mgl64.Vec3
	Rotation mgl64.Quat
	Strength float64
	Boundary mgl64.Vec3 // half extents

	InnerDistance, InnerFalloffDistance float64
	OuterDistance, OuterFalloffDistance float64

	innerFalloffFactor, outerFalloffFactor float64
}

// NewBox creates a box source and clamps its distances to the boundary.
func NewBox(center mgl64.Vec3, rotation mgl64.Quat, strength float64, boundary mgl64.Vec3,
	inner, innerFalloff, outer, outerFalloff float64) *Box {
	for i := range boundary {
		boundary[i] = math.Max(boundary[i], 0)
	}
	maxInner := math.Min(math.Min(boundary.X(), boundary.Y()), boundary.Z())
	inner = math.Min(math.Max(inner, 0), maxInner)
	innerFalloff = math.Max(math.Min(math.Max(innerFalloff, 0), maxInner), inner)
	outer = math.Max(outer, 0)
	outerFalloff = math.Max(outerFalloff, outer)
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	return &Box{
		Center:               center,
		Rotation:             rotation.Normalize(),
		Strength:             strength,
		Boundary:             boundary,
		InnerDistance:        inner,
		InnerFalloffDistance: innerFalloff,
		OuterDistance:        outer,
		OuterFalloffDistance: outerFalloff,
		innerFalloffFactor:   1 / (innerFalloff - inner),
		outerFalloffFactor:   1 / (outerFalloff - outer),
	}
}

// Gravity implements Source.
func (b *Box) Gravity(position mgl64.Vec3) mgl64.Vec3 {
	p := b.Rotation.Conjugate().Rotate(position.Sub(b.Center))

	var vector mgl64.Vec3
	outside := 0
	for i := 0; i < 3; i++ {
		if p[i] > b.Boundary[i] {
			vector[i] = b.Boundary[i] - p[i]
			outside++
		} else if p[i] < -b.Boundary[i] {
			vector[i] = -b.Boundary[i] - p[i]
			outside++
		}
	}

	if outside > 0 {
		distance := vector.Len()
		if outside == 1 {
			distance = math.Abs(vector.X() + vector.Y() + vector.Z())
		}
		if distance > b.OuterFalloffDistance {
			return mgl64.Vec3{}
		}
		g := b.Strength / distance
		if distance > b.OuterDistance {
			g *= 1 - (distance-b.OuterDistance)*b.outerFalloffFactor
		}
		return b.Rotation.Rotate(vector.Mul(g))
	}

	var distances mgl64.Vec3
	for i := 0; i < 3; i++ {
		distances[i] = b.Boundary[i] - math.Abs(p[i])
	}
	switch {
	case distances.X() < distances.Y() && distances.X() < distances.Z():
		vector[0] = b.faceComponent(p.X(), distances.X())
	case distances.X() < distances.Y():
		vector[2] = b.faceComponent(p.Z(), distances.Z())
	case distances.Y() < distances.Z():
		vector[1] = b.faceComponent(p.Y(), distances.Y())
	default:
		vector[2] = b.faceComponent(p.Z(), distances.Z())
	}
	return b.Rotation.Rotate(vector)
}

func (b *Box) faceComponent(coordinate, distance float64) float64 {
	if distance > b.InnerFalloffDistance {
		return 0
	}
	g := b.Strength
	if distance > b.InnerDistance {
		g *= 1 - (distance-b.InnerDistance)*b.innerFalloffFactor
	}
	if coordinate > 0 {
		return -g
	}
	return g
}
