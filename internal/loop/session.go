package loop

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/physics"
)

// ErrShopClosed is returned by Session.Upgrade outside the shop.
var ErrShopClosed = errors.New("shop is closed")

// RunSummary describes a finished (or interrupted) run.
type RunSummary struct {
	Score          int
	Kills          int
	BossesDefeated int
	Duration       time.Duration // Simulated play time
	Cleared        bool          // Every boss tier was defeated
}

// Hooks are optional callbacks for run milestones. They run synchronously
// inside Step.
type Hooks struct {
	BossSpawned  func(cfg object.BossConfig)
	BossDefeated func(cfg object.BossConfig)
	StageClear   func(sum RunSummary, final bool)
	GameOver     func(sum RunSummary)
}

// SessionOptions configures a Session. Zero values select defaults.
type SessionOptions struct {
	Catalog object.BossCatalog    // Boss tiers; defaults to object.DefaultBossCatalog
	Parts   *parts.Manager        // Upgrade economy; defaults to an empty catalog
	Spawner object.SpawnerOptions // Enemy waves; zero Capacity selects defaults
	Rand    *rand.Rand            // Randomness for spawns and effects
	Logger  *log.Logger
	Hooks   Hooks
}

// Session is one player's run: it owns every simulated actor and advances
// them in a fixed order once per frame.
type Session struct {
	state GameState

	player        *object.Player
	playerBullets *object.ProjectilePool
	missiles      *object.ProjectilePool
	bossBullets   *object.ProjectilePool
	enemies       *object.EnemySpawner
	boss          *object.Boss
	particles     *object.ParticlePool
	collider      *Collider

	parts   *parts.Manager
	loadout parts.Loadout
	logger  *log.Logger
	hooks   Hooks

	nextTier        int // Index of the next boss tier to summon
	score           int // Run score
	bossesDefeated  int
	elapsed         float64
	finalClear      bool
	missileCooldown float64
	targets         []physics.Vec3 // Reused missile target buffer

	playerEmit  object.EmitterFunc
	missileEmit object.EmitterFunc
	bossEmit    object.EmitterFunc
}

// NewSession creates a session on the title screen.
func NewSession(opts SessionOptions) *Session {
	if opts.Catalog == nil {
		opts.Catalog = object.DefaultBossCatalog()
	}
	if opts.Parts == nil {
		opts.Parts = parts.NewManager(nil, nil, "")
	}
	if opts.Spawner.Capacity == 0 {
		opts.Spawner = object.DefaultSpawnerOptions()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	missileOpts := object.PlayerBulletOptions()
	missileOpts.Capacity = missileCapacity
	missileOpts.Speed = missileSpeed
	missileOpts.Range = missileRange

	s := &Session{
		state:         GameStateStart,
		playerBullets: object.NewProjectilePool(object.PlayerBulletOptions()),
		missiles:      object.NewProjectilePool(missileOpts),
		bossBullets:   object.NewProjectilePool(object.BossBulletOptions()),
		enemies:       object.NewEnemySpawner(opts.Spawner, opts.Rand),
		boss:          object.NewBoss(opts.Catalog),
		particles:     object.NewParticlePool(particleCapacity, opts.Rand),
		collider:      NewCollider(),
		parts:         opts.Parts,
		logger:        opts.Logger,
		hooks:         opts.Hooks,
	}
	s.loadout = s.parts.Loadout()
	s.player = object.NewPlayer(s.loadout)

	s.playerEmit = func(origin, dir physics.Vec3) {
		p := s.playerBullets.Fire(origin, dir, s.loadout.BulletSpeed, s.loadout.Range)
		p.Damage = s.loadout.Damage
	}
	s.missileEmit = func(origin, dir physics.Vec3) {
		p := s.missiles.Fire(origin, dir, missileSpeed, missileRange)
		p.Damage = s.loadout.MissileDamage
	}
	s.bossEmit = func(origin, dir physics.Vec3) {
		cfg := s.boss.Config()
		p := s.bossBullets.Fire(origin, dir, cfg.BulletSpeed, cfg.BulletRange)
		if cfg.BulletDamage > 0 {
			p.Damage = cfg.BulletDamage
		}
	}
	return s
}

// Step advances the run by dt seconds. Only the playing state simulates;
// other states just let debris settle.
func (s *Session) Step(dt float64, c object.Controls) {
	if s.state != GameStatePlaying {
		s.particles.Update(dt)
		return
	}
	s.elapsed += dt

	s.player.Update(dt, c, s.playerEmit)
	s.updateMissiles(dt, c.Fire)

	s.playerBullets.Update(dt)
	s.enemies.Update(dt)
	s.particles.Update(dt)

	s.resolveBulletEnemyHits(s.playerBullets)
	s.resolveBulletEnemyHits(s.missiles)

	if e := PlayerEnemyHit(s.player.Pos, s.enemies.Active()); e != nil {
		e.Deactivate()
		s.explode(e.Pos, explosionParticles)
		s.player.TakeDamage(ContactDamage)
	}

	s.checkBossSpawn()

	if s.boss.Active() {
		pos := s.player.Pos
		s.boss.Update(dt, &pos)
	}
	s.bossBullets.Update(dt)

	if s.resolveBossHits(s.playerBullets) || s.resolveBossHits(s.missiles) {
		s.defeatBoss()
		return
	}

	if b := BossBulletPlayerHit(s.bossBullets.Active(), s.player.Pos); b != nil {
		b.Deactivate()
		s.player.TakeDamage(b.Damage)
	}

	if !s.player.Alive() {
		s.gameOver()
	}
}

// updateMissiles launches and steers homing missiles when the launcher is
// equipped.
func (s *Session) updateMissiles(dt float64, firing bool) {
	l := s.loadout
	if l.MissileTurnRate > 0 {
		s.missileCooldown -= dt
		if firing && s.missileCooldown <= 0 {
			dir := s.player.AimDirection()
			s.missileEmit(s.player.Pos.Add(dir.Scale(object.PlayerMuzzle)), dir)
			s.missileCooldown = l.MissileFireInterval
		}
	}

	s.targets = s.targets[:0]
	for _, e := range s.enemies.Active() {
		s.targets = append(s.targets, e.Pos)
	}
	if s.boss.Active() {
		s.targets = append(s.targets, s.boss.Pos)
	}
	s.missiles.Steer(dt, l.MissileTurnRate, l.MissileLockRange, s.targets)
	s.missiles.Update(dt)
}

// resolveBulletEnemyHits applies hits first-hit-wins: a pair only counts if
// both are still active, so each bullet kills at most one enemy and each
// enemy is killed at most once per frame.
func (s *Session) resolveBulletEnemyHits(pool *object.ProjectilePool) {
	for _, h := range s.collider.BulletEnemyHits(pool.Active(), s.enemies.Active()) {
		if !h.Bullet.Active() || !h.Enemy.Active() {
			continue
		}
		h.Bullet.Deactivate()
		h.Enemy.Deactivate()
		s.enemies.IncrementKills()
		s.award(ScorePerKill)
		s.explode(h.Enemy.Pos, explosionParticles)
	}
}

// resolveBossHits applies every bullet touching the boss and reports whether
// the boss fell.
func (s *Session) resolveBossHits(pool *object.ProjectilePool) bool {
	for _, b := range BulletBossHits(pool.Active(), s.boss) {
		b.Deactivate()
		if s.boss.TakeDamage(BossDamagePerShot * b.Damage) {
			return true
		}
	}
	return false
}

// checkBossSpawn summons the next tier once its kill threshold is reached
// and no boss is in play.
func (s *Session) checkBossSpawn() {
	catalog := s.boss.Catalog()
	if s.boss.Active() || s.nextTier >= len(catalog) {
		return
	}
	cfg := catalog[s.nextTier]
	if s.enemies.Kills() < cfg.KillThreshold {
		return
	}

	s.nextTier++
	if err := s.boss.Spawn(BossSpawnPosition, cfg.Type, s.bossEmit); err != nil {
		s.logger.Error("boss spawn failed", "type", cfg.Type, "err", err)
		return
	}
	s.enemies.SetSpawningEnabled(false)
	s.logger.Info("boss spawned", "type", cfg.Type, "kills", s.enemies.Kills())
	if s.hooks.BossSpawned != nil {
		s.hooks.BossSpawned(cfg)
	}
}

func (s *Session) defeatBoss() {
	cfg := s.boss.Config()
	s.bossesDefeated++
	s.award(cfg.Reward.Score)
	s.parts.AddCores(cfg.Reward.Cores)
	s.enemies.SetSpawningEnabled(true)
	s.bossBullets.Reset()
	s.explode(s.boss.Pos, bossExplosionParticles)

	s.finalClear = s.nextTier >= len(s.boss.Catalog())
	s.state = GameStateStageClear

	s.logger.Info("boss defeated", "type", cfg.Type, "score", s.score, "final", s.finalClear)
	if s.hooks.BossDefeated != nil {
		s.hooks.BossDefeated(cfg)
	}
	if s.hooks.StageClear != nil {
		s.hooks.StageClear(s.Summary(), s.finalClear)
	}
}

func (s *Session) gameOver() {
	s.state = GameStateGameOver
	s.explode(s.player.Pos, bossExplosionParticles)
	s.logger.Info("game over", "score", s.score, "kills", s.enemies.Kills())
	if s.hooks.GameOver != nil {
		s.hooks.GameOver(s.Summary())
	}
}

// award adds multiplied score to the run and to the spendable balance.
func (s *Session) award(base int) {
	gain := int(math.Round(float64(base) * s.loadout.ScoreMultiplier))
	s.score += gain
	s.parts.AddScore(gain)
}

func (s *Session) explode(pos physics.Vec3, count int) {
	s.particles.SpawnExplosion(pos, count, explosionSpeed, explosionLifetime)
}

// Start leaves the title screen and begins a fresh run.
func (s *Session) Start() {
	if s.state == GameStateStart {
		s.Restart()
	}
}

// Continue resumes after a stage clear, or restarts after the final clear
// or a game over.
func (s *Session) Continue() {
	switch s.state {
	case GameStateStageClear:
		if s.finalClear {
			s.Restart()
			return
		}
		s.state = GameStatePlaying
	case GameStateGameOver, GameStateStart:
		s.Restart()
	}
}

// Restart clears every actor and the run counters and starts playing.
// Spendable score, cores and parts carry over.
func (s *Session) Restart() {
	s.playerBullets.Reset()
	s.missiles.Reset()
	s.bossBullets.Reset()
	s.enemies.Reset()
	s.boss.Deactivate()
	s.particles.Reset()

	s.nextTier = 0
	s.score = 0
	s.bossesDefeated = 0
	s.elapsed = 0
	s.finalClear = false
	s.missileCooldown = 0

	s.loadout = s.parts.Loadout()
	s.player.Reset(s.loadout)
	s.state = GameStatePlaying
}

// ToggleShop pauses into the shop or resumes from it.
func (s *Session) ToggleShop() {
	switch s.state {
	case GameStatePlaying:
		s.state = GameStateShop
	case GameStateShop:
		s.state = GameStatePlaying
	}
}

// Upgrade buys the next level of a part while the shop is open and applies
// the new stats immediately.
func (s *Session) Upgrade(id string) error {
	if s.state != GameStateShop {
		return ErrShopClosed
	}
	if err := s.parts.Upgrade(id); err != nil {
		return err
	}
	s.loadout = s.parts.Loadout()
	s.player.SetLoadout(s.loadout)
	s.logger.Info("part upgraded", "part", id, "level", s.parts.Level(id))
	return nil
}

// SetBossCatalog swaps the boss records; it applies from the next spawn.
func (s *Session) SetBossCatalog(c object.BossCatalog) {
	s.boss.SetCatalog(c)
}

// SetPartsCatalog swaps part definitions and re-resolves the loadout.
func (s *Session) SetPartsCatalog(c parts.Catalog) {
	s.parts.SetCatalog(c)
	s.loadout = s.parts.Loadout()
	s.player.SetLoadout(s.loadout)
}

// Summary reports the run so far.
func (s *Session) Summary() RunSummary {
	return RunSummary{
		Score:          s.score,
		Kills:          s.enemies.Kills(),
		BossesDefeated: s.bossesDefeated,
		Duration:       time.Duration(s.elapsed * float64(time.Second)),
		Cleared:        s.finalClear,
	}
}

// State returns the current phase.
func (s *Session) State() GameState { return s.state }

// Player returns the player craft.
func (s *Session) Player() *object.Player { return s.player }

// Boss returns the boss engine; check Active before drawing it.
func (s *Session) Boss() *object.Boss { return s.boss }

// Enemies returns the active enemies.
func (s *Session) Enemies() []*object.Enemy { return s.enemies.Active() }

// PlayerBullets returns the player's active shots, missiles included.
func (s *Session) PlayerBullets() []*object.Projectile {
	out := make([]*object.Projectile, 0, s.playerBullets.ActiveCount()+s.missiles.ActiveCount())
	out = append(out, s.playerBullets.Active()...)
	return append(out, s.missiles.Active()...)
}

// BossBullets returns the boss's active shots.
func (s *Session) BossBullets() []*object.Projectile { return s.bossBullets.Active() }

// Particles returns live debris.
func (s *Session) Particles() []*object.Particle { return s.particles.Active() }

// Parts returns the upgrade economy.
func (s *Session) Parts() *parts.Manager { return s.parts }

// Score returns the run score.
func (s *Session) Score() int { return s.score }

// Kills returns the run's kill count.
func (s *Session) Kills() int { return s.enemies.Kills() }

// FinalClear reports whether the last stage clear was the final tier.
func (s *Session) FinalClear() bool { return s.finalClear }

// NextBoss returns the tier that will spawn next.
func (s *Session) NextBoss() (object.BossConfig, bool) {
	catalog := s.boss.Catalog()
	if s.nextTier >= len(catalog) {
		return object.BossConfig{}, false
	}
	return catalog[s.nextTier], true
}
