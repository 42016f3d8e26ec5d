// Package command holds the shared command state between keyboard input and
// the render loop. Each flag has a single writer (the key dispatcher) and a
// single reader (the dashboard tick), but the two run on different
// goroutines, so all access goes through sync/atomic for visibility.
package command

import "sync/atomic"

// Flags carries the three single-key commands.
//
// Kill is latched: the watcher sets it and the render loop clears it exactly
// once when it handles the request. Freeze and speedtest are plain toggles
// that represent display state directly. The asymmetry is deliberate.
type Flags struct {
	kill      atomic.Bool
	frozen    atomic.Bool
	speedtest atomic.Bool
}

// RequestKill latches a kill-prompt request.
func (f *Flags) RequestKill() {
	f.kill.Store(true)
}

// ConsumeKill clears a pending kill request and reports whether one was
// pending. The compare-and-swap guarantees each request is handled once even
// if the reader races a new keypress.
func (f *Flags) ConsumeKill() bool {
	return f.kill.CompareAndSwap(true, false)
}

// KillPending reports whether a kill request is latched, without consuming it.
func (f *Flags) KillPending() bool {
	return f.kill.Load()
}

// ToggleFreeze flips the freeze state and returns the new value.
func (f *Flags) ToggleFreeze() bool {
	return toggle(&f.frozen)
}

// Frozen reports whether rendering is frozen.
func (f *Flags) Frozen() bool {
	return f.frozen.Load()
}

// ToggleSpeedtest flips the speedtest-panel state and returns the new value.
// The caller launches the probe when the returned value is true, so the
// launch happens exactly once per off-to-on transition.
func (f *Flags) ToggleSpeedtest() bool {
	return toggle(&f.speedtest)
}

// SpeedtestActive reports whether the speedtest panel replaces the network panel.
func (f *Flags) SpeedtestActive() bool {
	return f.speedtest.Load()
}

// toggle atomically inverts b and returns the new value.
func toggle(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
