package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/physics"
)

func TestPlayerClampsToField(t *testing.T) {
	tests := []struct {
		name string
		c    Controls
		want physics.Vec3
	}{
		{"far right", Controls{MoveX: 1}, physics.V3(PlayerMaxX, 0, 0)},
		{"far left", Controls{MoveX: -1}, physics.V3(PlayerMinX, 0, 0)},
		{"far forward", Controls{MoveZ: -1}, physics.V3(0, 0, PlayerMinZ)},
		{"far back", Controls{MoveZ: 1}, physics.V3(0, 0, PlayerMaxZ)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(parts.DefaultLoadout())
			p.Update(10, tt.c, nil)
			if p.Pos != tt.want {
				t.Fatalf("pos = %v, want %v", p.Pos, tt.want)
			}
		})
	}
}

func TestPlayerDiagonalMoveIsNormalized(t *testing.T) {
	l := parts.DefaultLoadout()
	p := NewPlayer(l)
	p.Update(0.1, Controls{MoveX: 1, MoveZ: -1}, nil)
	if !approx(p.Pos.Length(), l.MoveSpeed*0.1) {
		t.Fatalf("moved %v, want %v", p.Pos.Length(), l.MoveSpeed*0.1)
	}
}

func TestPlayerFiresFromMuzzle(t *testing.T) {
	emit := &recordEmitter{}
	p := NewPlayer(parts.DefaultLoadout())
	p.Update(0.01, Controls{Fire: true}, emit)

	if len(emit.shots) != 1 {
		t.Fatalf("shots = %d, want 1", len(emit.shots))
	}
	s := emit.shots[0]
	if !approxVec(s.origin, physics.V3(0, 0, -PlayerMuzzle)) || !approxVec(s.dir, physics.V3(0, 0, -1)) {
		t.Fatalf("shot = %+v", s)
	}

	// Cooldown blocks the next frame.
	p.Update(0.01, Controls{Fire: true}, emit)
	if len(emit.shots) != 1 {
		t.Fatalf("fired during cooldown")
	}
	p.Update(0.2, Controls{Fire: true}, emit)
	if len(emit.shots) != 2 {
		t.Fatalf("did not fire after cooldown")
	}
}

func TestPlayerMultiShotSpread(t *testing.T) {
	l := parts.DefaultLoadout()
	l.BulletCount = 3
	l.SpreadAngle = 20
	emit := &recordEmitter{}
	p := NewPlayer(l)
	p.Update(0.01, Controls{Fire: true}, emit)

	if len(emit.shots) != 3 {
		t.Fatalf("shots = %d, want 3", len(emit.shots))
	}
	left, mid, right := emit.shots[0].dir, emit.shots[1].dir, emit.shots[2].dir
	if !approx(left.X, -right.X) || !approx(left.Z, right.Z) {
		t.Fatalf("fan not symmetric: %v %v", left, right)
	}
	if !approxVec(mid, physics.V3(0, 0, -1)) {
		t.Fatalf("center shot = %v", mid)
	}
	if !approx(math.Asin(right.X), 10*math.Pi/180) {
		t.Fatalf("outer angle = %v", math.Asin(right.X))
	}
}

func TestPlayerAimClamp(t *testing.T) {
	p := NewPlayer(parts.DefaultLoadout())
	p.Update(5, Controls{AimRight: true}, nil)
	if p.Aim != MaxAimAngle {
		t.Fatalf("aim = %v, want %v", p.Aim, MaxAimAngle)
	}
	d := p.AimDirection()
	if !approx(d.Length(), 1) || d.X <= 0 {
		t.Fatalf("aim dir = %v", d)
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	l := parts.DefaultLoadout()
	l.DamageReduction = 0.5
	p := NewPlayer(l)

	if p.TakeDamage(10) {
		t.Fatalf("first hit should not kill")
	}
	if p.HP() != 95 {
		t.Fatalf("hp = %v, want 95", p.HP())
	}
	if !p.TakeDamage(1000) {
		t.Fatalf("lethal hit should report death")
	}
	if p.HP() != 0 || p.Alive() {
		t.Fatalf("hp = %v alive = %v", p.HP(), p.Alive())
	}
	if p.TakeDamage(10) {
		t.Fatalf("dead player reported death twice")
	}
}

func TestPlayerRegeneration(t *testing.T) {
	l := parts.DefaultLoadout()
	l.HealInterval = 2
	l.HealAmount = 5
	l.RechargeCooldown = 3
	l.RechargePercent = 0.3
	p := NewPlayer(l)
	p.TakeDamage(60) // 40 left

	p.Update(2, Controls{}, nil)
	if p.HP() != 45 {
		t.Fatalf("hp after heal tick = %v, want 45", p.HP())
	}
	p.Update(1, Controls{}, nil)
	if p.HP() != 75 {
		t.Fatalf("hp after recharge = %v, want 75", p.HP())
	}
	p.Update(1, Controls{}, nil)
	if p.HP() != 80 {
		t.Fatalf("recharge fired twice in one lull: hp = %v", p.HP())
	}
	p.Update(100, Controls{}, nil)
	if p.HP() != l.MaxHP {
		t.Fatalf("hp = %v, want capped at %v", p.HP(), l.MaxHP)
	}
}

func TestPlayerSetLoadoutGrantsMaxHP(t *testing.T) {
	p := NewPlayer(parts.DefaultLoadout())
	p.TakeDamage(30)
	l := parts.DefaultLoadout()
	l.MaxHP = 120
	p.SetLoadout(l)
	if p.HP() != 90 || p.MaxHP() != 120 {
		t.Fatalf("hp = %v/%v, want 90/120", p.HP(), p.MaxHP())
	}
}

func TestParticlePool(t *testing.T) {
	pool := NewParticlePool(4, rand.New(rand.NewSource(1)))
	pool.SpawnExplosion(physics.Vec3{}, 6, 10, 1)
	if n := len(pool.Active()); n != 4 {
		t.Fatalf("active = %d, want capacity 4", n)
	}
	pool.Update(1.01)
	if n := len(pool.Active()); n != 0 {
		t.Fatalf("%d particles outlived max lifetime", n)
	}
	pool.SpawnExplosion(physics.Vec3{}, 2, 10, 1)
	pool.Reset()
	if n := len(pool.Active()); n != 0 {
		t.Fatalf("Reset left %d particles", n)
	}
}
