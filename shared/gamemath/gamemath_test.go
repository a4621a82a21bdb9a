package gamemath

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		angle Degree
		want  Vec2
	}{
		{"zero", 0, Vec2{X: 0, Y: 1}},
		{"quarter", 90, Vec2{X: -1, Y: 0}},
		{"negative quarter", -90, Vec2{X: 1, Y: 0}},
		{"half", 180, Vec2{X: 0, Y: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Up().Rotate(tt.angle)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Up().Rotate(%v) = %+v, want %+v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Degree(270).Normalize(); !near(float32(got), -90) {
		t.Errorf("Normalize(270) = %v, want -90", got)
	}
	if got := Degree(-540).Normalize(); !near(float32(got), 180) {
		t.Errorf("Normalize(-540) = %v, want 180", got)
	}
}

func TestOverlaps(t *testing.T) {
	ext := Vec2{X: 0.5, Y: 0.5}
	if !Overlaps(Vec2{}, ext, Vec2{X: 0.9}, ext) {
		t.Error("expected overlapping boxes")
	}
	if Overlaps(Vec2{}, ext, Vec2{X: 1}, ext) {
		t.Error("touching boxes should not overlap")
	}
}

func TestIntegrate(t *testing.T) {
	got := Integrate(Vec2{X: 1, Y: 1}, Vec2{X: 2, Y: -1}, 0.5)
	if got != (Vec2{X: 2, Y: 0.5}) {
		t.Errorf("Integrate = %+v", got)
	}
	if a := IntegrateAngle(10, 90, 0.5); a != 55 {
		t.Errorf("IntegrateAngle = %v, want 55", a)
	}
}
