package worker

import "time"

// RetryPolicy controls the backoff schedule for failed sync tasks.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before the given attempt (1-based). The delay
// grows geometrically from InitialDelay and is clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := r.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if delay <= 0 {
			// overflow; settle on the ceiling
			delay = r.MaxDelay
			break
		}
		if r.MaxDelay > 0 && delay >= r.MaxDelay {
			delay = r.MaxDelay
			break
		}
	}

	if delay <= 0 {
		delay = time.Second
	}
	if r.MaxDelay > 0 && delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	return delay
}
