package components

import (
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/netconfig"
)

// Transform is the render-facing placement of an entity.
type Transform struct {
	Position gamemath.Vec2
	Scale    gamemath.Vec2
	Rotation gamemath.Degree
}

type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyStatic
)

// Body is the physics state integrated every fixed step.
type Body struct {
	Position        gamemath.Vec2
	Velocity        gamemath.Vec2
	Rotation        gamemath.Degree
	AngularVelocity gamemath.Degree
	Type            BodyType
}

// Box is an axis-aligned collider centered on the body position.
type Box struct {
	Extends   gamemath.Vec2
	IsTrigger bool
}

// PlayerCharacter is the gameplay state of a ship.
type PlayerCharacter struct {
	Input             netconfig.Input
	PlayerNumber      netconfig.PlayerNumber
	Health            int16
	ShootingTime      float32
	InvincibilityTime float32
}

// Bullet is the gameplay state of a projectile.
type Bullet struct {
	RemainingTime float32
	PlayerNumber  netconfig.PlayerNumber
}
