package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"agriverify/internal/port"
)

// circuitState tracks rate-limit backoff for a single recognizer.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackRecognizer tries recognizers in order, skipping those with open
// circuits. It implements port.TextRecognizer.
type FallbackRecognizer struct {
	recognizers []port.TextRecognizer
	circuits    []*circuitState
	names       []string
}

// NewFallbackRecognizer creates a FallbackRecognizer from an ordered list of
// recognizers and their names.
func NewFallbackRecognizer(recognizers []port.TextRecognizer, names []string) *FallbackRecognizer {
	circuits := make([]*circuitState, len(recognizers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackRecognizer{
		recognizers: recognizers,
		circuits:    circuits,
		names:       names,
	}
}

func (f *FallbackRecognizer) Recognize(ctx context.Context, input port.RecognitionInput) (*port.RecognitionOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, r := range f.recognizers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("recognizer.FallbackRecognizer: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := r.Recognize(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Printf("recognizer.FallbackRecognizer: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil {
		// All recognizers were skipped due to open circuits
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all recognizers rate limited"), int(retryAfter.Seconds()))
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all recognizers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all recognizers failed: %w", lastErr)
}
