package dashboard

// Key bindings as constants for consistency. The command keys (kill,
// freeze, speedtest) live in the command package next to their dispatcher.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyConfirm = "enter"
	KeyCancel  = "esc"
)
