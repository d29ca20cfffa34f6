package object

import (
	"math"

	"github.com/tomz197/railshooter/internal/physics"
)

// Enemy is a pooled craft flying towards the player along +z while weaving
// sideways around the x it spawned at.
type Enemy struct {
	Pos   physics.Vec3 // Position
	Speed float64      // Forward speed along +z
	BaseX float64      // Lateral anchor captured at spawn

	SwayAmplitude float64
	SwayPhase     float64 // Radians
	SwaySpeed     float64 // Radians per second

	active bool
}

// Active reports whether the enemy is in play.
func (e *Enemy) Active() bool {
	return e.active
}

// Deactivate removes the enemy from play. Safe to call more than once.
func (e *Enemy) Deactivate() {
	e.active = false
}

// activate overwrites the slot's kinematic state.
func (e *Enemy) activate(pos physics.Vec3, speed, amp, phase, swaySpeed float64) {
	e.Pos = pos
	e.BaseX = pos.X
	e.Speed = speed
	e.SwayAmplitude = amp
	e.SwayPhase = phase
	e.SwaySpeed = swaySpeed
	e.active = true
}

// update advances the enemy. Sway is an absolute offset from BaseX.
func (e *Enemy) update(dt float64) {
	if !e.active {
		return
	}
	e.Pos.Z += e.Speed * dt
	e.SwayPhase += e.SwaySpeed * dt
	e.Pos.X = e.BaseX + math.Sin(e.SwayPhase)*e.SwayAmplitude
}
