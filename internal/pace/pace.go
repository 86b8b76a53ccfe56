// Package pace inserts a uniformly random delay before outbound calls.
// The jitter is the anti-abuse control: no two platform calls ever run
// back to back, and the interval is configurable per run.
package pace

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"bilisweep/internal/log"
)

// Pacer wraps operations with a randomized pre-call delay.
type Pacer struct {
	min, max time.Duration

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Pacer drawing delays uniformly from [min, max].
func New(min, max time.Duration) (*Pacer, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("invalid lag range %v..%v (need 0 <= min <= max)", min, max)
	}
	return &Pacer{min: min, max: max, sleep: sleepContext}, nil
}

// Run sleeps the pacing delay and then invokes op. The delay is
// interruptible: a canceled context returns before op runs.
func (p *Pacer) Run(ctx context.Context, op func(context.Context) error) error {
	d := p.delay()
	log.Debug("pacing delay", "duration", d)
	if err := p.sleep(ctx, d); err != nil {
		return err
	}
	return op(ctx)
}

// RunValue runs op under p's pacing delay and returns its value.
func RunValue[T any](ctx context.Context, p *Pacer, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := p.Run(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (p *Pacer) delay() time.Duration {
	if p.max == p.min {
		return p.min
	}
	return p.min + rand.N(p.max-p.min+1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
