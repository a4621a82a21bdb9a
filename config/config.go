package config

import "github.com/automoto/shipduel/shared/gamemath"

// PlayerConfig contains all ship-related configuration values
type PlayerConfig struct {
	// Movement
	Speed        float32          // thrust acceleration in units/s^2
	AngularSpeed gamemath.Degree // degrees per second while turning

	// Combat
	Health              int16
	ShootingPeriod      float32 // seconds between shots
	InvincibilityPeriod float32 // seconds of invulnerability after a hit

	// Dimensions
	BoxExtends gamemath.Vec2 // collider half extents in world units
}

// BulletConfig contains projectile configuration values
type BulletConfig struct {
	Speed      float32 // units/s added on top of the ship's forward speed
	Scale      float32 // collider and sprite scale relative to a ship
	Period     float32 // seconds before a bullet expires
	SpawnAhead float32 // spawn distance in front of the ship's nose
}

// ArenaConfig describes the broad-phase collision area, centered on the
// origin. Colliders leaving it are clamped to its border for the broad phase
// only; the exact overlap test always uses the real positions.
type ArenaConfig struct {
	Width     float32 // world units
	Height    float32 // world units
	CellPixel int     // broad-phase cell size in pixels
}

// SpawnConfig contains per-slot spawn transforms
type SpawnConfig struct {
	Positions []gamemath.Vec2
	Rotations []gamemath.Degree
}

// Gameplay values must be identical on every peer: they feed the
// deterministic simulation and therefore the checksums.
var Player PlayerConfig
var Bullet BulletConfig
var Arena ArenaConfig
var Spawn SpawnConfig

func init() {
	Player = PlayerConfig{
		Speed:        1.0,
		AngularSpeed: 90.0,

		Health:              5,
		ShootingPeriod:      0.3,
		InvincibilityPeriod: 1.5,

		BoxExtends: gamemath.Vec2{X: 0.5, Y: 0.5},
	}

	Bullet = BulletConfig{
		Speed:      2.0,
		Scale:      0.2,
		Period:     3.0,
		SpawnAhead: 0.5,
	}

	Arena = ArenaConfig{
		Width:     16,
		Height:    16,
		CellPixel: 100,
	}

	Spawn = SpawnConfig{
		Positions: []gamemath.Vec2{
			{X: 0, Y: 1},
			{X: 0, Y: -1},
			{X: 1, Y: 0},
			{X: -1, Y: 0},
		},
		Rotations: []gamemath.Degree{0, 180, -90, 90},
	}
}
