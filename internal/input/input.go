// Package input decodes raw terminal bytes into logical game actions.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so a hold is an echo of recent presses.
const keyHoldDuration = 80 * time.Millisecond

// Action is a logical gameplay action, independent of the physical key.
type Action int

const (
	RotateLeft Action = iota
	RotateRight
	Thrust
	Fire
	Hyperspace
	actionCount
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case RotateLeft:
		return "rotate-left"
	case RotateRight:
		return "rotate-right"
	case Thrust:
		return "thrust"
	case Fire:
		return "fire"
	case Hyperspace:
		return "hyperspace"
	default:
		return "unknown"
	}
}

// State answers whether a logical action is currently engaged.
// The simulation depends only on this interface.
type State interface {
	Engaged(a Action) bool
}

// Input represents the current frame's input state.
type Input struct {
	actions [actionCount]bool
	Quit    bool
	Number  int    // Last digit pressed, -1 if none
	Pressed []byte // Raw bytes received this frame (for text entry and menus)
}

// Engaged implements State.
func (in Input) Engaged(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return in.actions[a]
}

// With returns a copy of the input with the given actions engaged.
func (in Input) With(actions ...Action) Input {
	for _, a := range actions {
		if a >= 0 && a < actionCount {
			in.actions[a] = true
		}
	}
	return in
}

// Actions builds an input with only the given gameplay actions engaged.
func Actions(actions ...Action) Input {
	return Input{Number: -1}.With(actions...)
}

// None is an input with nothing engaged.
var None = Input{Number: -1}

// keyState tracks the last time each key was pressed.
type keyState struct {
	actions   [actionCount]time.Time
	quit      time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
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

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ResetKeyInput forgets every held key so a key used to leave a menu does
// not leak into gameplay.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	var buf []byte

drain:
	for {
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

	decode(&s.state, buf, now)

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }

	in := Input{
		Quit:    held(s.state.quit),
		Number:  -1,
		Pressed: buf,
	}
	for a := range in.actions {
		in.actions[a] = held(s.state.actions[a])
	}
	if held(s.state.number) {
		in.Number = s.state.numberVal
	}
	return in
}

// decode applies a batch of raw bytes to the key state at time now.
func decode(state *keyState, buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			var a Action = -1
			switch buf[i+2] {
			case 'A':
				a = Thrust
			case 'B':
				a = Hyperspace
			case 'C':
				a = RotateRight
			case 'D':
				a = RotateLeft
			}
			if a >= 0 {
				state.actions[a] = now
				i += 2
				continue
			}
		}

		applyByteToState(state, b, now)
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.actions[RotateLeft] = now
	case 'd', 'D', 'l', 'L':
		state.actions[RotateRight] = now
	case 'w', 'W', 'i', 'I':
		state.actions[Thrust] = now
	case 's', 'S', 'k', 'K':
		state.actions[Hyperspace] = now
	case ' ':
		state.actions[Fire] = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}

// Letters returns the ASCII letters in the pressed bytes, upper-cased.
// Escape sequences are skipped.
func (in Input) Letters() []byte {
	var out []byte
	for i := 0; i < len(in.Pressed); i++ {
		b := in.Pressed[i]
		if b == '\x1b' && i+2 < len(in.Pressed) && in.Pressed[i+1] == '[' {
			i += 2
			continue
		}
		switch {
		case b >= 'a' && b <= 'z':
			out = append(out, b-'a'+'A')
		case b >= 'A' && b <= 'Z':
			out = append(out, b)
		}
	}
	return out
}

// Typed reports whether any of keys arrived this frame. Unlike the held
// fields it is true for exactly one frame per key press, which suits menus.
func (in Input) Typed(keys ...byte) bool {
	for i := 0; i < len(in.Pressed); i++ {
		b := in.Pressed[i]
		if b == '\x1b' && i+2 < len(in.Pressed) && in.Pressed[i+1] == '[' {
			i += 2
			continue
		}
		for _, k := range keys {
			if b == k {
				return true
			}
		}
	}
	return false
}
