// Package zoom implements the camera zoom controller: it turns
// asynchronous zoom-factor commands into rate-limited horizontal
// field-of-view updates applied once per simulation tick.
//
//   - [Latch]: single-slot command mailbox (coalesce, deliver latest)
//   - [Limiter]: focal-length slew rate bound
//   - [System]: the tick driver wiring command polling, goal resolution,
//     and slew into the sim lifecycle
//
// The controller converges on goalHfov = referenceHfov / clampedZoom. Each
// tick it derives a sensor width from the camera's current focal length
// and FOV, advances the focal length toward the goal focal length by at
// most slewRate*dt meters, and converts back to FOV.
//
// # Thread Safety
//
// OnZoom (and Latch.Submit) may run on any goroutine. Everything else is
// owned by the tick context.
package zoom
