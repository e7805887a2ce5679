package input

import (
	"testing"
	"time"
)

func TestDecodeMapsKeysToActions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Action
	}{
		{"letter left", "a", RotateLeft},
		{"arrow left", "\x1b[D", RotateLeft},
		{"letter right", "l", RotateRight},
		{"arrow right", "\x1b[C", RotateRight},
		{"thrust", "w", Thrust},
		{"arrow up", "\x1b[A", Thrust},
		{"fire", " ", Fire},
		{"hyperspace", "s", Hyperspace},
		{"arrow down", "\x1b[B", Hyperspace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{ch: make(chan byte, 16), state: keyState{numberVal: -1}}
			for _, b := range []byte(tt.raw) {
				s.ch <- b
			}
			now := time.Now()
			in := readInputAt(s, now)
			if !in.Engaged(tt.want) {
				t.Errorf("%q did not engage %s", tt.raw, tt.want)
			}
			if in.Typed('\x1b') {
				t.Errorf("%q reported a bare escape", tt.raw)
			}
		})
	}
}

func TestHeldKeyExpires(t *testing.T) {
	s := &Stream{ch: make(chan byte, 4), state: keyState{numberVal: -1}}
	s.ch <- ' '
	now := time.Now()

	if in := readInputAt(s, now); !in.Engaged(Fire) {
		t.Fatal("fire not engaged on the frame it was pressed")
	}
	if in := readInputAt(s, now.Add(keyHoldDuration/2)); !in.Engaged(Fire) {
		t.Error("fire released before the hold duration elapsed")
	}
	if in := readInputAt(s, now.Add(keyHoldDuration)); in.Engaged(Fire) {
		t.Error("fire still engaged after the hold duration")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := &Stream{ch: make(chan byte, 4), state: keyState{numberVal: -1}}
	s.ch <- 'w'
	now := time.Now()
	readInputAt(s, now)

	ResetKeyInput(s)
	if in := readInputAt(s, now); in.Engaged(Thrust) {
		t.Error("thrust survived ResetKeyInput")
	}
}

func TestLettersAndNumber(t *testing.T) {
	s := &Stream{ch: make(chan byte, 16), state: keyState{numberVal: -1}}
	for _, b := range []byte("ab\x1b[A2c") {
		s.ch <- b
	}
	in := readInputAt(s, time.Now())
	if got := string(in.Letters()); got != "ABC" {
		t.Errorf("Letters = %q, want %q", got, "ABC")
	}
	if in.Number != 2 {
		t.Errorf("Number = %d, want 2", in.Number)
	}
}

func TestActionsHelper(t *testing.T) {
	in := Actions(Fire, Thrust)
	if !in.Engaged(Fire) || !in.Engaged(Thrust) {
		t.Error("Actions did not engage the requested actions")
	}
	if in.Engaged(Hyperspace) || None.Engaged(Fire) {
		t.Error("unrequested action engaged")
	}
	if in.Engaged(Action(99)) {
		t.Error("out-of-range action engaged")
	}
}

func TestTypedIsEdgeTriggered(t *testing.T) {
	s := &Stream{ch: make(chan byte, 16), state: keyState{numberVal: -1}}
	for _, b := range []byte("\x1b[Ah") {
		s.ch <- b
	}
	now := time.Now()
	in := readInputAt(s, now)
	if !in.Typed('h', 'H') {
		t.Error("h not reported as typed")
	}
	if in.Typed('A', '[') {
		t.Error("escape sequence bytes reported as typed")
	}

	// Next frame within the hold window: no new bytes, nothing typed.
	in = readInputAt(s, now.Add(10*time.Millisecond))
	if in.Typed('h') {
		t.Error("typed key repeated on the next frame")
	}
}
