package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	now := time.Unix(100, 0)
	tests := []struct {
		name  string
		bytes string
		check func(Input) bool
	}{
		{"wasd up", "w", func(in Input) bool { return in.Up && !in.Down }},
		{"arrow left", "\x1b[D", func(in Input) bool { return in.Left && !in.Right }},
		{"arrow right", "\x1b[C", func(in Input) bool { return in.Right }},
		{"aim", "jl", func(in Input) bool { return in.AimLeft && in.AimRight }},
		{"space fires and confirms", " ", func(in Input) bool { return in.Fire && in.Confirm }},
		{"enter confirms", "\r", func(in Input) bool { return in.Confirm && !in.Fire }},
		{"shop", "P", func(in Input) bool { return in.Shop }},
		{"restart", "r", func(in Input) bool { return in.Restart }},
		{"quit", "q", func(in Input) bool { return in.Quit }},
		{"ctrl-c", "\x03", func(in Input) bool { return in.Quit }},
		{"buy", "7", func(in Input) bool { return in.Buy == 7 }},
		{"no buy", "w", func(in Input) bool { return in.Buy == -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st held
			in := parse(&st, []byte(tt.bytes), now)
			if !tt.check(in) {
				t.Fatalf("unexpected input %+v", in)
			}
		})
	}
}

func TestHeldKeysExpire(t *testing.T) {
	var st held
	now := time.Unix(100, 0)
	parse(&st, []byte("d "), now)

	in := parse(&st, nil, now.Add(keyHoldDuration/2))
	if !in.Right || !in.Fire {
		t.Fatalf("keys released too early: %+v", in)
	}
	if in.Confirm {
		t.Fatal("Confirm repeated without a new key press")
	}

	in = parse(&st, nil, now.Add(keyHoldDuration))
	if in.Right || in.Fire {
		t.Fatalf("keys still held after the hold window: %+v", in)
	}
}

func TestAxes(t *testing.T) {
	tests := []struct {
		in   Input
		x, z float64
	}{
		{Input{}, 0, 0},
		{Input{Left: true, Up: true}, -1, -1},
		{Input{Right: true, Down: true}, 1, 1},
		{Input{Left: true, Right: true}, 0, 0},
	}
	for _, tt := range tests {
		if x, z := tt.in.Axes(); x != tt.x || z != tt.z {
			t.Errorf("%+v.Axes() = (%v, %v), want (%v, %v)", tt.in, x, z, tt.x, tt.z)
		}
	}
}

func TestStreamClosedQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("w")))
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Read(time.Now()).Quit {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("closed stream never reported Quit")
}
