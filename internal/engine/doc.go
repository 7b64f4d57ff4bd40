// Package engine is the real-time core of the solar system viewer.
//
// An [Engine] owns the scene, the camera, the animation loop and pointer
// picking. Frontends (the raylib window, the terminal UI, headless commands)
// talk to it only through its facade:
//
//   - [Engine.Init] / [Engine.Dispose]: session lifecycle
//   - [Engine.TogglePause], [Engine.ResetPlanets], [Engine.SetPlanetSpeed]
//   - [Engine.SetShowLabels], [Engine.SetOnPlanetClick]
//   - [Engine.SetCameraMode], [Engine.FollowPlanet]
//
// # Frames
//
// The loop is a cancellable frame request: each frame asks its [Scheduler] for
// the next one, and Dispose cancels the outstanding request. Everything runs on
// the goroutine that fires the scheduler, so the engine holds no locks and is
// NOT safe for concurrent use.
//
// # Input
//
// Pointer and resize events arrive through a [Surface]. The engine registers
// one listener in Init and removes exactly that listener in Dispose.
package engine
