package command

import "github.com/rileyhilliard/sour/internal/logger"

// Key bindings for the dashboard commands.
const (
	KeyKill      = "k"
	KeyFreeze    = "f"
	KeySpeedtest = "n"
)

// Dispatcher fans key events out to the flag setters. It is the single
// event-dispatch point between the terminal's input stream and the shared
// Flags; there is no per-key polling loop.
type Dispatcher struct {
	flags  *Flags
	launch func() // starts the speed probe on the off-to-on toggle
	log    logger.Logger
}

// NewDispatcher wires the flags and the probe launcher. launch may be nil
// in tests that only care about flag state.
func NewDispatcher(flags *Flags, launch func(), log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{flags: flags, launch: launch, log: log}
}

// Handle routes a key to its command. Returns false for keys the dispatcher
// does not own so the caller can fall through to other bindings.
func (d *Dispatcher) Handle(key string) bool {
	switch key {
	case KeyKill:
		d.flags.RequestKill()
		d.log.Debug("kill requested")
		return true

	case KeyFreeze:
		frozen := d.flags.ToggleFreeze()
		d.log.Debug("freeze toggled: %v", frozen)
		return true

	case KeySpeedtest:
		active := d.flags.ToggleSpeedtest()
		d.log.Debug("speedtest toggled: %v", active)
		// Launch only on the transition to active, never on the level.
		if active && d.launch != nil {
			d.launch()
		}
		return true
	}

	return false
}
