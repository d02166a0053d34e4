package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/knightrun/component"
)

// sampleInput polls the keyboard and the first gamepad for held levels.
// Edge detection happens in the simulation.
func sampleInput() component.RawInput {
	var raw component.RawInput

	// Keyboard D/A or arrows
	raw.Left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	raw.Right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	raw.Jump = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW)

	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		id := ids[0]
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			raw.StickX = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			raw.Left = raw.Left || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
			raw.Right = raw.Right || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
			raw.Jump = raw.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		}
	}
	return raw
}
