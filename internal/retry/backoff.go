package retry

import (
	"math"
	"time"

	"github.com/vvka-141/webshot/pkg/webshot"
)

// maxDuration is the largest representable delay. Products that would
// overflow saturate here instead of wrapping negative.
const maxDuration = time.Duration(math.MaxInt64)

// DelayFor returns the pause after the given failed attempt (1-based).
//
//	fixed:       base
//	linear:      base * attempt
//	exponential: base * 2^(attempt-1)
//
// Unknown strategies behave like fixed. There is no jitter and no cap.
func DelayFor(attempt int, base time.Duration, strategy webshot.BackoffStrategy) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}

	switch strategy {
	case webshot.BackoffLinear:
		return saturatingMul(base, int64(attempt))
	case webshot.BackoffExponential:
		shift := attempt - 1
		if shift >= 63 {
			return maxDuration
		}
		return saturatingMul(base, int64(1)<<shift)
	default:
		return base
	}
}

func saturatingMul(d time.Duration, n int64) time.Duration {
	if n > 0 && int64(d) > math.MaxInt64/n {
		return maxDuration
	}
	return d * time.Duration(n)
}
