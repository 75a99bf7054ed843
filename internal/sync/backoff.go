package sync

import "time"

// backoffLadder is the fixed retry-delay schedule. A record that has
// already failed retryCount times waits ladder[min(retryCount, 4)]
// before it becomes eligible again: 5m, 30m, 2h, 8h, 24h.
var backoffLadder = [...]time.Duration{
	5 * time.Minute,
	30 * time.Minute,
	120 * time.Minute,
	480 * time.Minute,
	1440 * time.Minute,
}

// NextRetryDelay returns the backoff for a record whose retry_count is
// retryCount at the moment of failure, before the counter increments.
func NextRetryDelay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount >= len(backoffLadder) {
		retryCount = len(backoffLadder) - 1
	}
	return backoffLadder[retryCount]
}
