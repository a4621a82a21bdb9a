package gamemath

import "math"

// Degree is an angle in degrees.
type Degree float32

// Radian converts the angle to radians.
func (d Degree) Radian() float32 {
	return float32(d) * math.Pi / 180
}

// Normalize wraps the angle into (-180, 180].
func (d Degree) Normalize() Degree {
	v := float32(math.Mod(float64(d), 360))
	if v > 180 {
		v -= 360
	} else if v <= -180 {
		v += 360
	}
	return Degree(v)
}
