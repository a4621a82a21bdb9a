package gamemath

import "math"

// Vec2 is a 2D vector in world units. Components are float32 so the bit
// patterns folded into checksums are identical on every peer.
type Vec2 struct {
	X, Y float32
}

func Zero() Vec2 { return Vec2{} }
func One() Vec2  { return Vec2{X: 1, Y: 1} }
func Up() Vec2   { return Vec2{X: 0, Y: 1} }

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float32) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalized returns the unit vector, or zero for a zero vector.
func (v Vec2) Normalized() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Rotate rotates v counter-clockwise by angle.
func (v Vec2) Rotate(angle Degree) Vec2 {
	rad := float64(angle.Radian())
	sin, cos := math.Sincos(rad)
	s, c := float32(sin), float32(cos)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}
