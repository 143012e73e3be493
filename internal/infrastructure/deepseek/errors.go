package deepseek

import "fmt"

// AuthLockoutError marks a provider-side temporary lockout (HTTP 401). The
// orchestrator waits out a fixed cooldown before the next attempt.
type AuthLockoutError struct {
	Status string
}

func (e *AuthLockoutError) Error() string {
	return fmt.Sprintf("provider auth lockout: %s", e.Status)
}

// RateLimitError marks HTTP 429; the orchestrator escalates its cooldown per
// attempt.
type RateLimitError struct {
	Status string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider rate limited: %s", e.Status)
}

// TransientError covers timeouts, connection failures and 5xx replies.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("provider transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// MalformedError marks a reply delivered with a success status whose body
// did not carry a usable completion. The request itself succeeded, so the
// orchestrator degrades without spending further attempts.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("provider malformed response: %s", e.Reason)
}
