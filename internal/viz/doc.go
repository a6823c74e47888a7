// Package viz provides the terminal live view for zoom scenarios.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, stepping one scenario tick per frame
//   - [Canvas]: Braille-based pixel canvas drawing the field-of-view wedge
//
// # Key Bindings
//
//	1-9   - Publish a zoom command
//	+/-   - Step the zoom target up/down
//	T     - Tear rendering down
//	E     - Load the render engine
//	Space - Pause/Resume ticking
//	R     - Reset the scenario
//	?     - Show help overlay
//
// # Watching
//
// With a watcher attached, edits to the scenario config or zoom script
// are folded into the running session without resetting the controller.
package viz
