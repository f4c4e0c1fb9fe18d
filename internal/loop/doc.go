// Package loop drives a fixed simulation step from a variable frame clock.
//
// Each [Driver.Tick] clamps the measured delta to MaxDelta, adds it to an
// accumulator and runs whole fixed steps while the accumulator holds one,
// up to MaxSteps. A tick that hits the cap drops the rest of its backlog.
// One render callback follows with the clamped delta.
//
//	d, _ := loop.New(loop.DefaultConfig(), world.Step, loop.WithClock(clock))
//	err := d.Run(ctx, time.Second/60)
package loop
