package loop

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/physics"
)

const stepDT = 1.0 / 60

type hookCounts struct {
	spawned  []object.BossType
	defeated []object.BossType
	clears   []bool
	gameOver int
}

func newTestSession(t *testing.T, catalog object.BossCatalog, pm *parts.Manager) (*Session, *hookCounts) {
	t.Helper()
	hc := &hookCounts{}
	spawner := object.DefaultSpawnerOptions()
	spawner.MaxActive = 0 // Tests place enemies by hand
	s := NewSession(SessionOptions{
		Catalog: catalog,
		Parts:   pm,
		Spawner: spawner,
		Rand:    rand.New(rand.NewSource(7)),
		Hooks: Hooks{
			BossSpawned:  func(cfg object.BossConfig) { hc.spawned = append(hc.spawned, cfg.Type) },
			BossDefeated: func(cfg object.BossConfig) { hc.defeated = append(hc.defeated, cfg.Type) },
			StageClear:   func(_ RunSummary, final bool) { hc.clears = append(hc.clears, final) },
			GameOver:     func(RunSummary) { hc.gameOver++ },
		},
	})
	s.Start()
	if s.State() != GameStatePlaying {
		t.Fatalf("state after Start = %v, want playing", s.State())
	}
	return s, hc
}

// placeEnemy parks a motionless enemy at pos.
func placeEnemy(s *Session, pos physics.Vec3) *object.Enemy {
	e := s.enemies.Spawn()
	e.Pos = pos
	e.BaseX = pos.X
	e.Speed = 0
	e.SwayAmplitude = 0
	return e
}

// placeBullet parks a slow player bullet at pos.
func placeBullet(s *Session, pos physics.Vec3, damage float64) *object.Projectile {
	p := s.playerBullets.Fire(pos, physics.V3(0, 0, -1), 0.01, 10)
	p.Damage = damage
	return p
}

func addKills(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.enemies.IncrementKills()
	}
}

func TestSessionIdleOutsidePlaying(t *testing.T) {
	s := NewSession(SessionOptions{Rand: rand.New(rand.NewSource(1))})
	if s.State() != GameStateStart {
		t.Fatalf("initial state = %v, want start", s.State())
	}
	s.Step(1, object.Controls{MoveX: 1, Fire: true})
	if s.Player().Pos != (physics.Vec3{}) {
		t.Fatalf("player moved on the title screen: %+v", s.Player().Pos)
	}
	if got := len(s.PlayerBullets()); got != 0 {
		t.Fatalf("%d bullets fired on the title screen", got)
	}
}

func TestSessionBossThresholds(t *testing.T) {
	s, hc := newTestSession(t, nil, nil)

	addKills(s, 19)
	s.Step(stepDT, object.Controls{})
	if s.Boss().Active() {
		t.Fatal("boss spawned at 19 kills")
	}

	addKills(s, 1)
	s.Step(stepDT, object.Controls{})
	if !s.Boss().Active() {
		t.Fatal("boss did not spawn at 20 kills")
	}
	if got := s.Boss().Config().Type; got != object.BossDreadnought {
		t.Fatalf("tier 1 boss = %s, want %s", got, object.BossDreadnought)
	}
	if s.enemies.SpawningEnabled() {
		t.Fatal("enemy spawning still enabled during the encounter")
	}

	s.Step(stepDT, object.Controls{})
	if len(hc.spawned) != 1 {
		t.Fatalf("BossSpawned fired %d times, want 1", len(hc.spawned))
	}

	addKills(s, 30)
	for i := 0; i < 5; i++ {
		s.Step(stepDT, object.Controls{})
	}
	if got := s.Boss().Config().Type; got != object.BossDreadnought || len(hc.spawned) != 1 {
		t.Fatalf("tier 2 spawned over an active boss: %s, %d spawns", got, len(hc.spawned))
	}

	s.Boss().Deactivate()
	s.Step(stepDT, object.Controls{})
	if got := s.Boss().Config().Type; !s.Boss().Active() || got != object.BossDestroyer {
		t.Fatalf("after clearing tier 1 got active=%v type=%s, want destroyer", s.Boss().Active(), got)
	}
	if len(hc.spawned) != 2 {
		t.Fatalf("BossSpawned fired %d times, want 2", len(hc.spawned))
	}
}

func TestSessionFirstHitWins(t *testing.T) {
	tests := []struct {
		name        string
		enemies     []physics.Vec3
		bullets     []physics.Vec3
		wantKills   int
		wantEnemies int
		wantBullets int
	}{
		{
			name:        "one bullet two enemies",
			enemies:     []physics.Vec3{physics.V3(-0.5, 0, -15), physics.V3(0.5, 0, -15)},
			bullets:     []physics.Vec3{physics.V3(0, 0, -15)},
			wantKills:   1,
			wantEnemies: 1,
			wantBullets: 0,
		},
		{
			name:        "two bullets one enemy",
			enemies:     []physics.Vec3{physics.V3(0, 0, -15)},
			bullets:     []physics.Vec3{physics.V3(-0.3, 0, -15), physics.V3(0.3, 0, -15)},
			wantKills:   1,
			wantEnemies: 0,
			wantBullets: 1,
		},
		{
			name:        "two bullets two enemies",
			enemies:     []physics.Vec3{physics.V3(-3, 0, -15), physics.V3(3, 0, -15)},
			bullets:     []physics.Vec3{physics.V3(-3, 0, -15), physics.V3(3, 0, -15)},
			wantKills:   2,
			wantEnemies: 0,
			wantBullets: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, nil, nil)
			for _, p := range tt.enemies {
				placeEnemy(s, p)
			}
			for _, p := range tt.bullets {
				placeBullet(s, p, 1)
			}

			s.Step(stepDT, object.Controls{})

			if got := s.Kills(); got != tt.wantKills {
				t.Errorf("kills = %d, want %d", got, tt.wantKills)
			}
			if got := len(s.Enemies()); got != tt.wantEnemies {
				t.Errorf("active enemies = %d, want %d", got, tt.wantEnemies)
			}
			if got := len(s.PlayerBullets()); got != tt.wantBullets {
				t.Errorf("active bullets = %d, want %d", got, tt.wantBullets)
			}
			if got, want := s.Score(), tt.wantKills*ScorePerKill; got != want {
				t.Errorf("score = %d, want %d", got, want)
			}
			if got := s.Parts().Score(); got != s.Score() {
				t.Errorf("spendable score = %d, want %d", got, s.Score())
			}
		})
	}
}

func TestSessionContactDamage(t *testing.T) {
	s, _ := newTestSession(t, nil, nil)
	e := placeEnemy(s, physics.V3(0, 0, -1.5))

	s.Step(stepDT, object.Controls{})

	if e.Active() {
		t.Fatal("rammed enemy still active")
	}
	if got, want := s.Player().HP(), s.Player().MaxHP()-ContactDamage; got != want {
		t.Fatalf("player HP = %v, want %v", got, want)
	}
	if s.Kills() != 0 {
		t.Fatalf("ramming counted as a kill")
	}
}

func TestSessionGameOver(t *testing.T) {
	s, hc := newTestSession(t, nil, nil)
	s.Player().TakeDamage(s.Player().MaxHP())

	s.Step(stepDT, object.Controls{})
	if s.State() != GameStateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if hc.gameOver != 1 {
		t.Fatalf("GameOver hook fired %d times, want 1", hc.gameOver)
	}

	s.Step(stepDT, object.Controls{})
	if hc.gameOver != 1 {
		t.Fatalf("GameOver hook fired again while idle")
	}

	s.Continue()
	if s.State() != GameStatePlaying || !s.Player().Alive() {
		t.Fatalf("Continue after game over: state=%v alive=%v", s.State(), s.Player().Alive())
	}
}

func TestSessionBossDefeat(t *testing.T) {
	s, hc := newTestSession(t, nil, nil)
	addKills(s, 20)
	s.Step(stepDT, object.Controls{})
	if !s.Boss().Active() {
		t.Fatal("boss not spawned")
	}
	scoreBefore := s.Score()

	s.bossBullets.Emit(physics.V3(0, 0, -10), physics.V3(0, 0, 1))
	// 6 shots of damage 1 deal 60 against 50 HP.
	for i := 0; i < 6; i++ {
		placeBullet(s, s.Boss().Pos, 1)
	}
	s.Step(stepDT, object.Controls{})

	if s.State() != GameStateStageClear {
		t.Fatalf("state = %v, want stage clear", s.State())
	}
	if s.Boss().Active() {
		t.Fatal("boss still active after defeat")
	}
	reward := object.DefaultBossCatalog()[0].Reward
	if got, want := s.Score()-scoreBefore, reward.Score; got != want {
		t.Fatalf("boss reward score = %d, want %d", got, want)
	}
	if got := s.Parts().Cores(); got != reward.Cores {
		t.Fatalf("cores = %d, want %d", got, reward.Cores)
	}
	if got := len(s.BossBullets()); got != 0 {
		t.Fatalf("%d boss bullets survived the defeat", got)
	}
	if !s.enemies.SpawningEnabled() {
		t.Fatal("enemy spawning not re-enabled")
	}
	if len(hc.defeated) != 1 || len(hc.clears) != 1 || hc.clears[0] {
		t.Fatalf("hooks: defeated=%v clears=%v", hc.defeated, hc.clears)
	}

	s.Continue()
	if s.State() != GameStatePlaying {
		t.Fatalf("Continue: state = %v, want playing", s.State())
	}
	if s.Kills() != 20 {
		t.Fatalf("Continue reset kills to %d", s.Kills())
	}
	next, ok := s.NextBoss()
	if !ok || next.Type != object.BossDestroyer {
		t.Fatalf("next boss = %v %v, want destroyer", next.Type, ok)
	}
}

func TestSessionFinalClearRestarts(t *testing.T) {
	catalog := object.DefaultBossCatalog()[:1]
	s, hc := newTestSession(t, catalog, nil)
	addKills(s, 20)
	s.Step(stepDT, object.Controls{})
	for i := 0; i < 6; i++ {
		placeBullet(s, s.Boss().Pos, 1)
	}
	s.Step(stepDT, object.Controls{})

	if !s.FinalClear() || len(hc.clears) != 1 || !hc.clears[0] {
		t.Fatalf("final clear not reported: final=%v clears=%v", s.FinalClear(), hc.clears)
	}
	if !s.Summary().Cleared {
		t.Fatal("summary not marked cleared")
	}
	cores := s.Parts().Cores()

	s.Continue()
	if s.State() != GameStatePlaying || s.Score() != 0 || s.Kills() != 0 {
		t.Fatalf("after final Continue: state=%v score=%d kills=%d", s.State(), s.Score(), s.Kills())
	}
	if s.Parts().Cores() != cores {
		t.Fatalf("restart dropped cores: %d, want %d", s.Parts().Cores(), cores)
	}
	if _, ok := s.NextBoss(); !ok {
		t.Fatal("tier progress not reset")
	}
}

func TestSessionShop(t *testing.T) {
	catalog := parts.Catalog{
		{
			ID:       parts.ShieldGenerator,
			Category: parts.CategoryDefense,
			Levels: []parts.Level{
				{Stats: map[string]float64{parts.StatMaxHP: 100}},
				{Price: 50, Stats: map[string]float64{parts.StatMaxHP: 150}},
			},
		},
	}
	pm := parts.NewManager(catalog, nil, "test")
	s, _ := newTestSession(t, nil, pm)

	if err := s.Upgrade(parts.ShieldGenerator); !errors.Is(err, ErrShopClosed) {
		t.Fatalf("Upgrade while playing = %v, want ErrShopClosed", err)
	}

	s.ToggleShop()
	if s.State() != GameStateShop {
		t.Fatalf("state = %v, want shop", s.State())
	}
	if err := s.Upgrade(parts.ShieldGenerator); !errors.Is(err, parts.ErrInsufficientFunds) {
		t.Fatalf("Upgrade without funds = %v, want ErrInsufficientFunds", err)
	}

	pm.AddScore(50)
	if err := s.Upgrade(parts.ShieldGenerator); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if got := s.Player().MaxHP(); got != 150 {
		t.Fatalf("max HP after upgrade = %v, want 150", got)
	}
	if got := s.Player().HP(); got != 150 {
		t.Fatalf("HP after upgrade = %v, want 150", got)
	}

	pos := s.Player().Pos
	s.Step(1, object.Controls{MoveX: 1})
	if s.Player().Pos != pos {
		t.Fatal("player moved while the shop was open")
	}

	s.ToggleShop()
	if s.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", s.State())
	}
}

func TestSessionFiresWithLoadout(t *testing.T) {
	s, _ := newTestSession(t, nil, nil)
	s.Step(stepDT, object.Controls{Fire: true})

	shots := s.PlayerBullets()
	if len(shots) != 1 {
		t.Fatalf("fired %d shots, want 1", len(shots))
	}
	l := parts.DefaultLoadout()
	if got := shots[0].Vel.Length(); !approx(got, l.BulletSpeed) {
		t.Fatalf("shot speed = %v, want %v", got, l.BulletSpeed)
	}
	if got := shots[0].Damage; got != l.Damage {
		t.Fatalf("shot damage = %v, want %v", got, l.Damage)
	}
}

func TestGameStateString(t *testing.T) {
	tests := []struct {
		state GameState
		want  string
	}{
		{GameStateStart, "start"},
		{GameStatePlaying, "playing"},
		{GameStateShop, "shop"},
		{GameStateStageClear, "stage_clear"},
		{GameStateGameOver, "game_over"},
		{GameState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
