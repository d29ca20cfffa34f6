package loop

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/railshooter/internal/input"
	"github.com/tomz197/railshooter/internal/parts"
	"github.com/tomz197/railshooter/internal/store"
)

type fakeRecorder struct {
	mu   sync.Mutex
	recs []store.RunRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec store.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func fixedSize() (int, int, error) { return 80, 24, nil }

func newTestGame(t *testing.T, keys string, mem *store.Memory, rec store.RunRecorder) (*Game, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	g, err := NewGame(context.Background(), bufio.NewReader(strings.NewReader(keys)), &out, Options{
		Profile:      "ann",
		Store:        mem,
		Leaderboard:  mem,
		Recorder:     rec,
		TermSizeFunc: fixedSize,
		Seed:         3,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g, &out
}

func press(f func(*input.Input)) input.Input {
	in := input.Input{Buy: -1}
	f(&in)
	return in
}

func TestShopSlot(t *testing.T) {
	tests := []struct{ digit, slot int }{{1, 0}, {9, 8}, {0, 9}}
	for _, tt := range tests {
		if got := shopSlot(tt.digit); got != tt.slot {
			t.Errorf("shopSlot(%d) = %d, want %d", tt.digit, got, tt.slot)
		}
	}
}

func TestGameCommands(t *testing.T) {
	mem := store.NewMemory()
	g, out := newTestGame(t, "", mem, nil)
	s := g.Session()

	g.update(stepDT, press(func(in *input.Input) {}))
	if s.State() != GameStateStart {
		t.Fatalf("state = %v, want start", s.State())
	}
	g.update(stepDT, press(func(in *input.Input) { in.Confirm = true }))
	if s.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", s.State())
	}

	g.update(stepDT, press(func(in *input.Input) { in.Shop = true }))
	if s.State() != GameStateShop {
		t.Fatalf("state = %v, want shop", s.State())
	}

	// Booster level 1 costs 40 credits; it is shop slot 7 (key 7).
	g.parts.AddScore(40)
	g.update(stepDT, press(func(in *input.Input) { in.Buy = 7 }))
	if got := g.parts.Level(parts.Booster); got != 1 {
		t.Fatalf("booster level = %d, want 1 (message %q)", got, g.message)
	}
	saved, found, _ := mem.LoadParts(context.Background(), "ann")
	if !found || saved.Equipped[parts.Booster] != 1 {
		t.Fatalf("upgrade not saved: found=%v %+v", found, saved)
	}

	g.update(stepDT, press(func(in *input.Input) { in.Buy = 7 }))
	if g.messageTimer <= 0 || !strings.Contains(g.message, "Not enough") {
		t.Fatalf("message = %q, want a funds warning", g.message)
	}

	if err := g.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "S H O P") {
		t.Fatal("shop screen not drawn")
	}

	g.update(stepDT, press(func(in *input.Input) { in.Shop = true }))
	if s.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", s.State())
	}

	g.update(stepDT, press(func(in *input.Input) { in.Quit = true }))
	if g.running {
		t.Fatal("Quit did not stop the loop")
	}
}

func TestGameRecordsGameOver(t *testing.T) {
	mem := store.NewMemory()
	rec := &fakeRecorder{}
	g, out := newTestGame(t, "", mem, rec)
	s := g.Session()
	s.Start()
	s.score = 120
	s.Player().TakeDamage(s.Player().MaxHP())

	g.update(stepDT, press(func(in *input.Input) {}))
	if s.State() != GameStateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if len(rec.recs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.recs))
	}
	if r := rec.recs[0]; r.Profile != "ann" || r.Score != 120 || r.Outcome != store.OutcomeGameOver {
		t.Fatalf("record = %+v", r)
	}
	if len(g.top) != 1 || g.top[0].Score != 120 {
		t.Fatalf("leaderboard = %+v", g.top)
	}

	if err := g.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "G A M E   O V E R") {
		t.Fatal("game over screen not drawn")
	}

	g.update(stepDT, press(func(in *input.Input) { in.Confirm = true }))
	if s.State() != GameStatePlaying || s.Score() != 0 {
		t.Fatalf("restart: state=%v score=%d", s.State(), s.Score())
	}
}

func TestRunQuitsOnInput(t *testing.T) {
	mem := store.NewMemory()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bufio.NewReader(strings.NewReader(" q")), &out, Options{
			Profile:      "bob",
			Store:        mem,
			TermSizeFunc: fixedSize,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if _, found, _ := mem.LoadParts(context.Background(), "bob"); !found {
		t.Fatal("parts not saved on quit")
	}
	if !strings.Contains(out.String(), "\033[?25h") {
		t.Fatal("cursor not restored")
	}
}
