package analysis

import (
	"errors"
	"time"

	"NewsPulse/internal/infrastructure/deepseek"
)

// errorClass partitions provider failures into the retry taxonomy.
type errorClass int

const (
	classTransient errorClass = iota
	classAuthLockout
	classRateLimit
	classMalformed
)

func (c errorClass) String() string {
	switch c {
	case classAuthLockout:
		return "auth_lockout"
	case classRateLimit:
		return "rate_limit"
	case classMalformed:
		return "malformed_response"
	default:
		return "transient"
	}
}

const (
	authLockoutCooldown = 70 * time.Second
	rateLimitBase       = 60 * time.Second
	rateLimitStep       = 30 * time.Second
	transientBase       = 2 * time.Second
)

// classify maps a provider error onto its class. Unknown errors count as
// transient so they stay inside the retry loop.
func classify(err error) errorClass {
	var (
		authErr      *deepseek.AuthLockoutError
		rateErr      *deepseek.RateLimitError
		malformedErr *deepseek.MalformedError
	)
	switch {
	case errors.As(err, &authErr):
		return classAuthLockout
	case errors.As(err, &rateErr):
		return classRateLimit
	case errors.As(err, &malformedErr):
		return classMalformed
	default:
		return classTransient
	}
}

// backoffDelay is a pure function of (class, attempt); attempt starts at 1.
// Auth lockouts wait a fixed cooldown, rate limits escalate linearly
// (60s, 90s, 120s, ...), transient errors double from a short base. Malformed
// responses never wait: the request itself succeeded, so retrying buys nothing.
func backoffDelay(class errorClass, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	switch class {
	case classAuthLockout:
		return authLockoutCooldown
	case classRateLimit:
		return rateLimitBase + time.Duration(attempt-1)*rateLimitStep
	case classMalformed:
		return 0
	default:
		return transientBase << (attempt - 1)
	}
}
