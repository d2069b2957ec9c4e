package provider

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxRetries   = 1
	DefaultInitialDelay = 2 * time.Second
)

// RetryPolicy retries throttled or unavailable upstream calls. The delay
// before retry n (0-based) is InitialDelay * 2^n.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration

	// sleep waits for d or until ctx ends. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, InitialDelay: DefaultInitialDelay}
}

// BackoffSchedule returns the wait before each retry, computed up front.
func (p RetryPolicy) BackoffSchedule() []time.Duration {
	if p.MaxRetries <= 0 {
		return nil
	}
	schedule := make([]time.Duration, p.MaxRetries)
	delay := p.InitialDelay
	for i := range schedule {
		schedule[i] = delay
		delay *= 2
	}
	return schedule
}

// Do calls fn at most MaxRetries+1 times. It retries only errors accepted by
// IsRetryable and returns the last error once the schedule is used up.
func (p RetryPolicy) Do(ctx context.Context, label string, fn func(ctx context.Context) (string, error)) (string, error) {
	schedule := p.BackoffSchedule()
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		text string
		err  error
	)
	for attempt := 0; attempt <= len(schedule); attempt++ {
		text, err = fn(ctx)
		if err == nil {
			return text, nil
		}
		if attempt == len(schedule) || !IsRetryable(err) {
			break
		}

		delay := schedule[attempt]
		log.Warnf("Retrying for %s in %s (attempt %d/%d): %v", label, delay, attempt+2, len(schedule)+1, err)
		if serr := sleep(ctx, delay); serr != nil {
			return "", err
		}
	}
	return "", err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
