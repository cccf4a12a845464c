// Package input turns raw terminal bytes into per-frame control state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only report key repeats, so held keys are inferred from timing.
const keyHoldDuration = 80 * time.Millisecond

// Input is one frame of controls. Held controls stay true while the key
// repeats; the rest are true only in the frame their key arrived.
type Input struct {
	// Held
	TurnLeft    bool
	TurnRight   bool
	PowerUp     bool
	PowerDown   bool
	FastForward bool

	// One-shot
	Launch  bool
	AutoAim bool
	Restart bool
	Start   bool
	Quit    bool

	Pressed []byte // Raw bytes read this frame
	Closed  bool   // The reader hit EOF or an error
}

// keyState tracks the last time each held key was seen.
type keyState struct {
	left        time.Time
	right       time.Time
	up          time.Time
	down        time.Time
	fastForward time.Time
}

// Stream delivers input bytes through a channel so frames can poll without
// blocking.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
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

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// ReadInput drains all available bytes (non-blocking) and returns the
// resulting controls.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

// Reset forgets held keys, so a key held across a screen change does not
// leak into the next one.
func Reset(s *Stream) {
	s.state = keyState{}
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				s.closed = true
				return
			}
		default:
			return
		}
	}
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf, Closed: s.closed}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow keys: ESC [ A..D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		s.apply(&in, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	in.TurnLeft = held(s.state.left)
	in.TurnRight = held(s.state.right)
	in.PowerUp = held(s.state.up)
	in.PowerDown = held(s.state.down)
	in.FastForward = held(s.state.fastForward)
	return in
}

// apply records a single byte.
func (s *Stream) apply(in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // 0x03 is Ctrl-C in raw mode
		in.Quit = true
	case 'a', 'A', 'j', 'J':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case 'w', 'W', 'i', 'I':
		s.state.up = now
	case 's', 'S', 'k', 'K':
		s.state.down = now
	case 'f', 'F':
		s.state.fastForward = now
	case ' ':
		in.Launch = true
	case 't', 'T', '\t':
		in.AutoAim = true
	case 'r', 'R':
		in.Restart = true
	case '\n', '\r':
		in.Start = true
	}
}
