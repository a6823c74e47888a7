// Package analysis provides offline analysis of recorded zoom
// trajectories.
//
// The package characterizes how the controller responded to its
// commands:
//
//   - [Step]: rise time and overshoot of the first goal change
//   - [TimeConstant]: exponential fit of the FOV error decay
//   - [PowerSpectrum], [DominantFrequency]: oscillation content of
//     script-driven runs
//
// # Reading a fit
//
// A slew-limited zoom converges geometrically, so the error decay is
// close to exponential and the fitted time constant approximates the
// stored focal length divided by the slew rate:
//
//	tau := analysis.TimeConstant(samples, 1e-9)
package analysis
