package gamemath

// Integrate advances a position by velocity over dt seconds.
func Integrate(position, velocity Vec2, dt float32) Vec2 {
	return position.Add(velocity.Scale(dt))
}

// IntegrateAngle advances a rotation by angular velocity over dt seconds.
func IntegrateAngle(rotation, angularVelocity Degree, dt float32) Degree {
	return rotation + angularVelocity*Degree(dt)
}

// Overlaps reports whether two axis-aligned boxes, given by center and half
// extents, intersect. Touching edges do not count.
func Overlaps(centerA, extA, centerB, extB Vec2) bool {
	return abs(centerA.X-centerB.X) < extA.X+extB.X &&
		abs(centerA.Y-centerB.Y) < extA.Y+extB.Y
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
