package noise

import "time"

// MaxStepsPerTick bounds the work done on a single scheduling tick so a
// stalled frame callback cannot trigger an unbounded burst of catch-up steps.
const MaxStepsPerTick = 8

// StepsFor converts elapsed wall time into the number of fixed-size steps
// needed to keep simulated time proportional to wall time times speed. This
// decouples the physical step size from whatever timer or frame callback
// drives the evolution loop.
func StepsFor(elapsed time.Duration, dtBase float64, speed float64) int {
	if elapsed <= 0 || dtBase <= 0 || speed <= 0 {
		return 0
	}
	steps := int(elapsed.Seconds() * speed / dtBase)
	if steps < 1 {
		return 1
	}
	if steps > MaxStepsPerTick {
		return MaxStepsPerTick
	}
	return steps
}
