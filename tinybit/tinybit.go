// Package tinybit defines the boundary between the console and a TinyBit
// game engine.
package tinybit

import (
	"errors"

	"github.com/tinybit/picobit/framebuffer"
)

const (
	ScreenWidth  = 128
	ScreenHeight = 128
	FrameRate    = 60
)

var ErrCartridge = errors.New("tinybit: invalid cartridge")

// Buttons is the set of pressed buttons.
type Buttons uint8

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonStart
	ButtonSelect
)

// Engine is a game engine driven by the console, one call to Update per
// frame.
type Engine interface {
	// FeedCartridge loads a cartridge image. It returns an error wrapping
	// ErrCartridge if the data can't be used.
	FeedCartridge(data []byte) error

	// Update advances the game by one frame. Return an error to exit the
	// game loop.
	Update(pressed Buttons) error

	// Draw renders the current frame into fb.
	Draw(fb *framebuffer.Framebuffer)

	// Samples returns the mono audio produced by the last Update. The slice
	// is only valid until the next Update.
	Samples() []int16
}
