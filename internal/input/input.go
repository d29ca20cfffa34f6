// Package input turns a raw terminal byte stream into per-frame controls.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only report key repeats, so held keys are inferred from recency.
const keyHoldDuration = 60 * time.Millisecond

// Input is one frame's input. Held keys (movement, aim, fire) stay true while
// repeats keep arriving; command keys are true only in the frame their byte
// arrived.
type Input struct {
	Up, Down, Left, Right bool
	AimLeft, AimRight     bool
	Fire                  bool

	Quit    bool
	Confirm bool // Space or Enter
	Shop    bool
	Restart bool
	Buy     int // Shop slot 0-9, -1 when none

	Pressed []byte // Raw bytes of this frame; reused by the next Read
}

// held tracks the last time each held key was seen.
type held struct {
	up, down, left, right time.Time
	aimLeft, aimRight     time.Time
	fire                  time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch    chan byte
	state held
	buf   []byte
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Read drains pending bytes without blocking and returns the frame's input.
// A closed stream reports Quit.
func (s *Stream) Read(now time.Time) Input {
	s.buf = s.buf[:0]
	closed := false
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}

	in := parse(&s.state, s.buf, now)
	in.Quit = in.Quit || closed
	return in
}

// Reset forgets held keys, e.g. after a screen change.
func (s *Stream) Reset() {
	s.state = held{}
}

// parse applies buf to the held-key state and builds the frame's input.
func parse(state *held, buf []byte, now time.Time) Input {
	in := Input{Buy: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow keys: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				state.up = now
			case 'B':
				state.down = now
			case 'C':
				state.right = now
			case 'D':
				state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case 'w', 'W':
			state.up = now
		case 's', 'S':
			state.down = now
		case 'a', 'A':
			state.left = now
		case 'd', 'D':
			state.right = now
		case 'j', 'J':
			state.aimLeft = now
		case 'l', 'L':
			state.aimRight = now
		case ' ':
			state.fire = now
			in.Confirm = true
		case '\n', '\r':
			in.Confirm = true
		case 'p', 'P':
			in.Shop = true
		case 'r', 'R':
			in.Restart = true
		case 'q', 'Q', '\x03':
			in.Quit = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			in.Buy = int(b - '0')
		}
	}

	recent := func(t time.Time) bool { return !t.IsZero() && now.Sub(t) < keyHoldDuration }
	in.Up = recent(state.up)
	in.Down = recent(state.down)
	in.Left = recent(state.left)
	in.Right = recent(state.right)
	in.AimLeft = recent(state.aimLeft)
	in.AimRight = recent(state.aimRight)
	in.Fire = recent(state.fire)
	return in
}

// Axes returns the movement input as x in [-1, 1] (right positive) and z in
// [-1, 1] (towards the camera positive).
func (in Input) Axes() (x, z float64) {
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Up {
		z--
	}
	if in.Down {
		z++
	}
	return x, z
}
