package infra

import "time"

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the exponential backoff delay for a retry
// attempt, capped at backoffMax.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	delay := backoffBase << uint(retryCount)
	if delay > backoffMax || delay <= 0 {
		delay = backoffMax
	}
	return delay
}
