package vision

// Action is a flight command produced by a viewer keystroke.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTakeOff
	ActionLand
	ActionHover
	ActionPitchForward
	ActionPitchBack
	ActionRollLeft
	ActionRollRight
	ActionThrottleUp
	ActionThrottleDown
	ActionYawLeft
	ActionYawRight
)

// KeyAction maps an OpenCV WaitKey code onto a flight action. Unmapped
// keys, including the -1 idle code, are ActionNone.
func KeyAction(key int) Action {
	switch key {
	case 'q', 27: // esc
		return ActionQuit
	case 't':
		return ActionTakeOff
	case 'l':
		return ActionLand
	case 'h', ' ':
		return ActionHover
	case 'w':
		return ActionPitchForward
	case 's':
		return ActionPitchBack
	case 'a':
		return ActionRollLeft
	case 'd':
		return ActionRollRight
	case 'k':
		return ActionThrottleUp
	case 'j':
		return ActionThrottleDown
	case 'n':
		return ActionYawLeft
	case 'm':
		return ActionYawRight
	default:
		return ActionNone
	}
}
