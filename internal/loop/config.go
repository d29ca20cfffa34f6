package loop

import (
	"time"

	"github.com/tomz197/railshooter/internal/physics"
)

// Game configuration constants.
// All tunable game parameters that are not content data are centralized here.

// Scoring
const (
	ScorePerKill = 10 // Before the score multiplier
)

// Damage
const (
	ContactDamage     = 10.0 // Player rams an enemy
	BossDamagePerShot = 10.0 // Multiplied by the shot's damage stat
)

// Boss
var BossSpawnPosition = physics.V3(0, 0, -20)

// Homing missiles
const (
	missileCapacity = 8
	missileSpeed    = 24.0
	missileRange    = 60.0
)

// Effects
const (
	particleCapacity       = 256
	explosionParticles     = 12
	bossExplosionParticles = 48
	explosionSpeed         = 8.0
	explosionLifetime      = 0.6
)

// Persistence
const (
	storeTimeout = 3 * time.Second // Per save or record call
)
