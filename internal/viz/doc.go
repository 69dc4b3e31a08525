// Package viz draws gravity runs in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas with a [Viewport] onto the plane
//   - [Model]: Bubble Tea live view that steps a session and draws trails
//   - [Graph], [CoordinateGraph]: asciigraph plots of energy and coordinates
//   - [Summary]: lipgloss panel describing a finished run
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart from the initial configuration
//	+/-   - Zoom in/out
//	F     - Fit the view to the trails
//	</>   - Halve/double iterations per frame
//	T     - Cycle color themes
package viz
