package system

import "github.com/milk9111/knightrun/component"

const (
	stickPressThreshold   = 0.5
	stickReleaseThreshold = 0.3
)

// InputMapper turns held control levels into edge-triggered commands.
// A control must be released before it can fire again.
type InputMapper struct {
	left  bool
	right bool
	jump  bool

	stickLeft  bool
	stickRight bool
}

func NewInputMapper() *InputMapper {
	return &InputMapper{}
}

// Map returns the commands whose control rose this tick. Left and right
// rising together cancel out.
func (m *InputMapper) Map(raw component.RawInput) component.Commands {
	if m == nil {
		return component.Commands{}
	}

	left := stickLevel(&m.stickLeft, -raw.StickX) || raw.Left
	right := stickLevel(&m.stickRight, raw.StickX) || raw.Right

	cmd := component.Commands{
		MoveLeft:  left && !m.left,
		MoveRight: right && !m.right,
		Jump:      raw.Jump && !m.jump,
	}
	if cmd.MoveLeft && cmd.MoveRight {
		cmd.MoveLeft = false
		cmd.MoveRight = false
	}

	m.left = left
	m.right = right
	m.jump = raw.Jump
	return cmd
}

// Reset forgets held state, e.g. after unpausing.
func (m *InputMapper) Reset(raw component.RawInput) {
	if m == nil {
		return
	}
	*m = InputMapper{}
	m.stickLeft = -raw.StickX >= stickPressThreshold
	m.stickRight = raw.StickX >= stickPressThreshold
	m.left = raw.Left || m.stickLeft
	m.right = raw.Right || m.stickRight
	m.jump = raw.Jump
}

// stickLevel applies hysteresis so an axis resting near the threshold
// cannot flicker.
func stickLevel(held *bool, v float64) bool {
	if *held {
		if v < stickReleaseThreshold {
			*held = false
		}
	} else if v >= stickPressThreshold {
		*held = true
	}
	return *held
}
