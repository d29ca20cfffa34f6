// Package loop runs the game: the per-frame Session that orchestrates the
// simulation, and the terminal frame loop that feeds it input and draws it.
package loop

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/railshooter/internal/content"
	"github.com/tomz197/railshooter/internal/draw"
	"github.com/tomz197/railshooter/internal/input"
	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/store"
)

const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS
	maxFrameDelta   = 0.1 // Seconds; longer stalls are simulated as this
	leaderboardSize = 5
)

// Options configures Run. Zero values select in-memory, embedded-content
// defaults.
type Options struct {
	Profile      string
	Library      *content.Library
	Store        parts.Store
	Leaderboard  store.Leaderboard
	Recorder     store.RunRecorder
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Seed         int64 // 0 seeds from the clock
}

// Game is one terminal's frame loop around a Session.
type Game struct {
	ctx     context.Context
	opts    Options
	logger  *log.Logger
	session *Session
	parts   *parts.Manager
	stream  *input.Stream
	out     *draw.ChunkWriter
	canvas  *draw.Canvas
	view    *view

	contentVersion uint64
	running        bool
	message        string  // Shop feedback
	messageTimer   float64 // Seconds left to show message
	banner         string  // Boss warning
	bannerTimer    float64
	lastClear      object.BossConfig
	top            []store.LeaderboardEntry
}

// Run plays until the player quits, the input closes or ctx is done.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	g, err := NewGame(ctx, r, w, opts)
	if err != nil {
		return err
	}
	return g.Run()
}

// NewGame loads the profile and builds the session.
func NewGame(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Library == nil {
		lib, err := content.NewLibrary("")
		if err != nil {
			return nil, err
		}
		opts.Library = lib
	}
	if opts.Recorder == nil {
		opts.Recorder = store.NopRecorder{}
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger.With("profile", opts.Profile)

	pm := parts.NewManager(opts.Library.Parts(), opts.Store, opts.Profile)
	loadCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	err := pm.Load(loadCtx)
	cancel()
	if err != nil {
		return nil, err
	}

	g := &Game{
		ctx:            ctx,
		opts:           opts,
		logger:         logger,
		parts:          pm,
		stream:         input.StartStream(r),
		out:            draw.NewChunkWriter(w),
		contentVersion: opts.Library.Version(),
		running:        true,
	}
	g.session = NewSession(SessionOptions{
		Catalog: opts.Library.Bosses(),
		Parts:   pm,
		Rand:    rand.New(rand.NewSource(seed)),
		Logger:  logger,
		Hooks: Hooks{
			BossSpawned:  g.onBossSpawned,
			BossDefeated: g.onBossDefeated,
			StageClear:   g.onStageClear,
			GameOver:     g.onGameOver,
		},
	})

	tw, th, err := opts.TermSizeFunc()
	if err != nil {
		tw, th = 80, 24
	}
	g.canvas = draw.NewScaledCanvas(tw, th, viewWidth, viewHeight)
	g.view = newView(g.canvas)
	g.refreshLeaderboard()
	return g, nil
}

// Run starts the Input → Update → Draw loop.
func (g *Game) Run() error {
	draw.HideCursor(g.out)
	draw.ClearScreen(g.out)
	if err := g.out.Flush(); err != nil {
		return err
	}
	defer func() {
		draw.ShowCursor(g.out)
		draw.ClearScreen(g.out)
		_ = g.out.Flush()
	}()

	lastTime := time.Now()
	for g.running {
		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), maxFrameDelta)
		lastTime = frameStart

		if err := g.ctx.Err(); err != nil {
			g.savePartsOrLog()
			return nil
		}

		// ===== INPUT PHASE =====
		in := g.stream.Read(frameStart)

		// ===== UPDATE PHASE =====
		g.reloadContent()
		g.updateScreen()
		g.update(dt, in)

		// ===== DRAW PHASE =====
		if err := g.drawFrame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}
	g.savePartsOrLog()
	return nil
}

// update applies the frame's commands and steps the session.
func (g *Game) update(dt float64, in input.Input) {
	g.messageTimer = max(g.messageTimer-dt, 0)
	g.bannerTimer = max(g.bannerTimer-dt, 0)

	if in.Quit {
		g.running = false
		return
	}

	s := g.session
	switch s.State() {
	case GameStateStart:
		if in.Confirm {
			g.stream.Reset()
			s.Start()
		}
	case GameStatePlaying:
		switch {
		case in.Shop:
			s.ToggleShop()
		case in.Restart:
			s.Restart()
		}
	case GameStateShop:
		switch {
		case in.Shop || in.Confirm:
			g.stream.Reset()
			s.ToggleShop()
		case in.Buy >= 0:
			g.buy(shopSlot(in.Buy))
		}
	case GameStateStageClear, GameStateGameOver:
		if in.Confirm || in.Restart {
			g.stream.Reset()
			s.Continue()
		}
	}

	x, z := in.Axes()
	s.Step(dt, object.Controls{
		MoveX:    x,
		MoveZ:    z,
		AimLeft:  in.AimLeft,
		AimRight: in.AimRight,
		Fire:     in.Fire,
	})
}

// shopSlot maps the digit keys 1-9, 0 to catalog positions 0-9.
func shopSlot(digit int) int {
	return (digit + 9) % 10
}

func (g *Game) buy(slot int) {
	catalog := g.parts.Parts()
	if slot < 0 || slot >= len(catalog) {
		return
	}
	def := catalog[slot]
	switch err := g.session.Upgrade(def.ID); {
	case err == nil:
		g.flash(def.Name + " upgraded to level " + strconv.Itoa(g.parts.Level(def.ID)))
		g.savePartsOrLog()
	case errors.Is(err, parts.ErrMaxLevel):
		g.flash(def.Name + " is at max level")
	case errors.Is(err, parts.ErrInsufficientFunds):
		g.flash("Not enough credits or cores for " + def.Name)
	default:
		g.logger.Error("upgrade failed", "part", def.ID, "err", err)
	}
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTimer = 2.5
}

// reloadContent picks up catalogs the library reloaded since the last frame.
func (g *Game) reloadContent() {
	lib := g.opts.Library
	if v := lib.Version(); v != g.contentVersion {
		g.contentVersion = v
		g.session.SetBossCatalog(lib.Bosses())
		g.session.SetPartsCatalog(lib.Parts())
		g.logger.Debug("content applied", "version", v)
	}
}

// updateScreen follows terminal resizes.
func (g *Game) updateScreen() {
	tw, th, err := g.opts.TermSizeFunc()
	if err != nil {
		return
	}
	g.canvas.Resize(tw, th)
}

func (g *Game) onBossSpawned(cfg object.BossConfig) {
	g.banner = "WARNING: " + cfg.Name + " APPROACHING"
	g.bannerTimer = 3
}

func (g *Game) onBossDefeated(cfg object.BossConfig) {
	g.lastClear = cfg
}

func (g *Game) onStageClear(sum RunSummary, final bool) {
	g.savePartsOrLog()
	if final {
		g.finishRun(sum, store.OutcomeCleared)
	}
}

func (g *Game) onGameOver(sum RunSummary) {
	g.savePartsOrLog()
	g.finishRun(sum, store.OutcomeGameOver)
}

// finishRun records the run and submits its score.
func (g *Game) finishRun(sum RunSummary, outcome store.Outcome) {
	rec := store.NewRunRecord(g.opts.Profile, outcome, time.Now())
	rec.Score = sum.Score
	rec.Kills = sum.Kills
	rec.BossesDefeated = sum.BossesDefeated
	rec.Duration = sum.Duration

	ctx, cancel := context.WithTimeout(g.ctx, storeTimeout)
	defer cancel()
	if err := g.opts.Recorder.Record(ctx, rec); err != nil {
		g.logger.Error("record run", "err", err)
	}
	if g.opts.Leaderboard != nil {
		if err := g.opts.Leaderboard.Submit(ctx, g.opts.Profile, sum.Score); err != nil {
			g.logger.Error("submit score", "err", err)
		}
	}
	g.refreshLeaderboard()
}

func (g *Game) refreshLeaderboard() {
	if g.opts.Leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(g.ctx, storeTimeout)
	defer cancel()
	top, err := g.opts.Leaderboard.Top(ctx, leaderboardSize)
	if err != nil {
		g.logger.Error("load leaderboard", "err", err)
		return
	}
	g.top = top
}

func (g *Game) savePartsOrLog() {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(g.ctx), storeTimeout)
	defer cancel()
	if err := g.parts.Save(ctx); err != nil {
		g.logger.Error("save parts", "err", err)
	}
}

// Session exposes the underlying run, mainly for tests.
func (g *Game) Session() *Session {
	return g.session
}
