// Package viz renders growth trajectories in the terminal.
//
// Two surfaces are provided:
//
//   - [PlotTrajectory] and friends: static asciigraph charts for a
//     finished run
//   - [Live]: a Bubble Tea view that steps the simulation frame by
//     frame while it draws
//
// # Key Bindings (live view)
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	Tab   - Cycle focused child
//	Up/Dn - Adjust steps per frame
//	Q     - Quit
package viz
