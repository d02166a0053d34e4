package component

// RawInput is the held state of each control for one tick.
type RawInput struct {
	Left  bool
	Right bool
	Jump  bool
	// StickX is the analog lateral axis in [-1, 1].
	StickX float64
}

// Commands are discrete, edge-triggered requests for one tick.
type Commands struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
}

// Any reports whether any command is set.
func (c Commands) Any() bool {
	return c.MoveLeft || c.MoveRight || c.Jump
}
