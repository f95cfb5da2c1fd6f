// Package viz renders attractor sessions in the terminal.
//
// [Model] is a Bubble Tea program that pulls new steps from a session on
// every tick and draws the history window as fading 3D trails on a braille
// [Canvas], projected through a [Camera] fitted to the window bounds.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single frame while paused
//	↑/↓   - Double/halve steps per frame
//	x/y/z - Rotate (shift reverses)
//	+/-   - Zoom
//	M     - Toggle auto-rotate
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
