package loop

import (
	"slices"

	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/physics"
)

// BulletHit pairs a projectile with an enemy it overlaps.
type BulletHit struct {
	Bullet *object.Projectile
	Enemy  *object.Enemy
}

// Broad-phase grid covering the play field plus spawn and despawn margins.
const (
	gridMinX     = -12.0
	gridMaxX     = 12.0
	gridMinZ     = -40.0
	gridMaxZ     = 12.0
	gridCellSize = 2.5 // >= ProjectileRadius + EnemyRadius
)

// BulletEnemyHits returns every overlapping (bullet, enemy) pair among the
// active entities, ordered by bullet then enemy. One bullet may appear with
// several enemies; resolving that is up to the caller.
func BulletEnemyHits(bullets []*object.Projectile, enemies []*object.Enemy) []BulletHit {
	var hits []BulletHit
	for _, b := range bullets {
		if !b.Active() {
			continue
		}
		for _, e := range enemies {
			if !e.Active() {
				continue
			}
			if physics.SpheresOverlap(b.Pos, object.ProjectileRadius, e.Pos, object.EnemyRadius) {
				hits = append(hits, BulletHit{Bullet: b, Enemy: e})
			}
		}
	}
	return hits
}

// PlayerEnemyHit returns the first active enemy overlapping the player, or nil.
func PlayerEnemyHit(player physics.Vec3, enemies []*object.Enemy) *object.Enemy {
	for _, e := range enemies {
		if e.Active() && physics.SpheresOverlap(player, object.PlayerRadius, e.Pos, object.EnemyRadius) {
			return e
		}
	}
	return nil
}

// BulletBossHits returns every active bullet overlapping an active boss.
func BulletBossHits(bullets []*object.Projectile, boss *object.Boss) []*object.Projectile {
	if boss == nil || !boss.Active() {
		return nil
	}
	var hits []*object.Projectile
	for _, b := range bullets {
		if b.Active() && physics.SpheresOverlap(b.Pos, object.ProjectileRadius, boss.Pos, object.BossRadius) {
			hits = append(hits, b)
		}
	}
	return hits
}

// BossBulletPlayerHit returns the first active boss bullet overlapping the
// player, or nil.
func BossBulletPlayerHit(bullets []*object.Projectile, player physics.Vec3) *object.Projectile {
	for _, b := range bullets {
		if b.Active() && physics.SpheresOverlap(b.Pos, object.ProjectileRadius, player, object.PlayerRadius) {
			return b
		}
	}
	return nil
}

// Collider answers the bullet-enemy query through a spatial grid. Results
// match BulletEnemyHits exactly; the grid and result buffers are reused
// between frames, so returned slices are only valid until the next call.
type Collider struct {
	grid    *physics.SpatialGrid
	nearby  []int
	hits    []BulletHit
	enemies []*object.Enemy
}

// NewCollider creates a collider for the stock play field.
func NewCollider() *Collider {
	return &Collider{
		grid: physics.NewSpatialGrid(gridMinX, gridMinZ, gridMaxX, gridMaxZ, gridCellSize),
	}
}

// BulletEnemyHits is the grid-accelerated form of the package function.
func (c *Collider) BulletEnemyHits(bullets []*object.Projectile, enemies []*object.Enemy) []BulletHit {
	c.hits = c.hits[:0]
	c.enemies = c.enemies[:0]
	c.grid.Clear()

	for _, e := range enemies {
		if e.Active() {
			c.grid.Insert(e.Pos, len(c.enemies))
			c.enemies = append(c.enemies, e)
		}
	}
	if len(c.enemies) == 0 {
		return c.hits
	}

	for _, b := range bullets {
		if !b.Active() {
			continue
		}
		c.nearby = c.nearby[:0]
		c.grid.QueryAround(b.Pos, func(i int) bool {
			if physics.SpheresOverlap(b.Pos, object.ProjectileRadius, c.enemies[i].Pos, object.EnemyRadius) {
				c.nearby = append(c.nearby, i)
			}
			return false
		})
		slices.Sort(c.nearby)
		for _, i := range c.nearby {
			c.hits = append(c.hits, BulletHit{Bullet: b, Enemy: c.enemies[i]})
		}
	}
	return c.hits
}
