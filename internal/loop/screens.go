package loop

import (
	"fmt"

	"github.com/tomz197/railshooter/internal/draw"
)

// drawFrame renders the world and the overlay for the current state.
func (g *Game) drawFrame() error {
	g.canvas.Clear()
	if st := g.session.State(); st != GameStateStart && st != GameStateShop {
		g.view.drawWorld(g.session)
	}

	g.out.ClearScreen()
	if err := g.canvas.Render(g.out); err != nil {
		return err
	}
	g.drawUI()
	return g.out.Flush()
}

// drawUI draws the text overlay (after the canvas so it is on top).
func (g *Game) drawUI() {
	width := g.canvas.TerminalWidth()
	height := g.canvas.TerminalHeight()
	centerX := width / 2
	centerY := height / 2

	switch g.session.State() {
	case GameStateStart:
		g.drawStartScreen(centerX, centerY)
	case GameStatePlaying:
		g.drawPlayingHUD(width, height)
	case GameStateShop:
		g.drawShop(centerX)
	case GameStateStageClear:
		g.drawPlayingHUD(width, height)
		g.drawStageClear(centerX, centerY)
	case GameStateGameOver:
		g.drawGameOver(centerX, centerY)
	}
}

func (g *Game) drawStartScreen(centerX, centerY int) {
	out := g.out
	out.WriteCentered(centerX, centerY-4, "R A I L S H O O T E R")
	out.WriteCentered(centerX, centerY-1, "Press SPACE to start")
	out.WriteCentered(centerX, centerY+2, "WASD/arrows move   J/L aim   SPACE fire")
	out.WriteCentered(centerX, centerY+3, "P shop   R restart   Q quit")
	g.drawLeaderboard(centerX, centerY+6)
}

// drawPlayingHUD draws score, HP and currency, plus the boss bar when a boss
// is in play.
func (g *Game) drawPlayingHUD(width, height int) {
	s := g.session
	out := g.out
	p := s.Player()

	out.WriteAt(2, 1, fmt.Sprintf("Score %d   Kills %d", s.Score(), s.Kills()))
	hp := fmt.Sprintf("HP %s %3.0f/%.0f", draw.Bar(p.HP()/p.MaxHP(), 12), p.HP(), p.MaxHP())
	out.WriteAt(width-len([]rune(hp))-1, 1, hp)

	if b := s.Boss(); b.Active() {
		bar := fmt.Sprintf("%s %s %.0f/%.0f", b.Config().Name, draw.Bar(b.HPFraction(), 30), b.HP(), b.MaxHP())
		out.WriteCentered(width/2, 2, bar)
	} else if next, ok := s.NextBoss(); ok {
		out.WriteAt(2, 2, fmt.Sprintf("Next: %s at %d kills", next.Name, next.KillThreshold))
	}

	if g.bannerTimer > 0 {
		out.WriteCentered(width/2, 4, g.banner)
	}
	out.WriteAt(2, height, fmt.Sprintf("Credits %d   Cores %d   [P] shop", g.parts.Score(), g.parts.Cores()))
}

func (g *Game) drawShop(centerX int) {
	out := g.out
	pm := g.parts
	out.WriteCentered(centerX, 2, "P A R T S   S H O P")
	out.WriteCentered(centerX, 3, fmt.Sprintf("Credits %d   Cores %d", pm.Score(), pm.Cores()))

	row := 5
	for i, def := range pm.Parts() {
		key := (i + 1) % 10
		level := pm.Level(def.ID)
		maxLevel := len(def.Levels) - 1
		line := fmt.Sprintf("[%d] %-17s Lv %d/%d", key, def.Name, level, maxLevel)
		if next, ok := pm.NextLevel(def.ID); ok {
			cost := fmt.Sprintf("%d cr", next.Price)
			if next.CoreCost > 0 {
				cost += fmt.Sprintf(" + %d core", next.CoreCost)
			}
			mark := " "
			if pm.CanUpgrade(def.ID) {
				mark = "*"
			}
			line += fmt.Sprintf("  %s %-16s %s", mark, cost, next.Description)
		} else {
			line += "    MAX"
		}
		out.WriteAt(max(centerX-38, 1), row, line)
		row++
		if i == 9 {
			break
		}
	}

	if g.messageTimer > 0 {
		out.WriteCentered(centerX, row+1, g.message)
	}
	out.WriteCentered(centerX, row+3, "Digits buy   P or SPACE resume")
}

func (g *Game) drawStageClear(centerX, centerY int) {
	out := g.out
	s := g.session
	title := "S T A G E   C L E A R"
	if s.FinalClear() {
		title = "A L L   B O S S E S   D E F E A T E D"
	}
	out.WriteCentered(centerX, centerY-2, title)
	if cfg := g.lastClear; cfg.Name != "" {
		out.WriteCentered(centerX, centerY, fmt.Sprintf("%s destroyed: +%d score, +%d cores", cfg.Name, cfg.Reward.Score, cfg.Reward.Cores))
	}
	prompt := "Press SPACE to continue"
	if s.FinalClear() {
		prompt = "Press SPACE to start a new run"
	}
	out.WriteCentered(centerX, centerY+2, prompt)
}

func (g *Game) drawGameOver(centerX, centerY int) {
	out := g.out
	sum := g.session.Summary()
	out.WriteCentered(centerX, centerY-4, "G A M E   O V E R")
	out.WriteCentered(centerX, centerY-2, fmt.Sprintf("Score %d   Kills %d   Bosses %d", sum.Score, sum.Kills, sum.BossesDefeated))
	out.WriteCentered(centerX, centerY, "Press SPACE to restart")
	g.drawLeaderboard(centerX, centerY+3)
}

func (g *Game) drawLeaderboard(centerX, row int) {
	if len(g.top) == 0 {
		return
	}
	g.out.WriteCentered(centerX, row, "Best scores")
	for i, e := range g.top {
		g.out.WriteCentered(centerX, row+1+i, fmt.Sprintf("%d. %-12s %6d", i+1, e.Profile, e.Score))
	}
}
