package util

import (
	"math"
	"time"
)

// CalculateExponentialBackoff computes exponential backoff with optional jitter.
// Formula: baseDelay * 2^(attempt-1). attempt is 1-based, so the first retry
// uses baseDelay unchanged. No cap is applied, matching the retry policy's
// contract. jitterPercent, when > 0, spreads the result by up to
// ±jitterPercent/2 so concurrent callers don't retry in lockstep.
func CalculateExponentialBackoff(attempt int, baseDelay time.Duration, jitterPercent float64) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := float64(baseDelay) * math.Pow(2, float64(attempt-1))

	if jitterPercent > 0 {
		// Time-based pseudo-random avoids threading a *rand.Rand through the
		// stateless retry policy.
		pseudoRandom := float64(time.Now().UnixNano()%1000) / 1000.0
		jitter := backoff * jitterPercent * (pseudoRandom - 0.5)
		backoff += jitter
	}

	return time.Duration(backoff)
}
