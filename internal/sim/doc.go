// Package sim drives a vector field as a continuous stream.
//
//   - [Streamer]: holds the current particle batch and produces the next k
//     steps on demand, never repeating the boundary sample
//   - [Session]: a Streamer feeding a [history.Window], the unit a renderer
//     pulls from once per frame
//
// # Example
//
//	integ := integrators.New(physics.NewLorenz(), integrators.NewEuler())
//	s, _ := sim.NewSession(integ, x0, sim.Config{Dt: 0.001, Capacity: 500})
//	for range ticker.C {
//	    window, _ := s.Advance(10)
//	    draw(window)
//	}
//
// # Thread Safety
//
// Sessions are NOT thread-safe. A driving loop owns the session; a consumer
// on another goroutine must hold one lock around Advance and any read of the
// returned window.
package sim
