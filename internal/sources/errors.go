// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package sources

import (
	"errors"
	"fmt"
	"time"
)

// ErrorClass partitions fetch failures by how the pipeline should react.
type ErrorClass string

const (
	// ClassNotFound: the resource does not exist upstream (HTTP 404).
	// Not retryable; for optional feeds the caller treats it as empty.
	ClassNotFound ErrorClass = "not_found"

	// ClassRateLimited: the source rejected the request for pacing
	// reasons (HTTP 429). Retryable after the cooldown window.
	ClassRateLimited ErrorClass = "rate_limited"

	// ClassTransient: a server-side or connection failure (5xx, timeouts,
	// resets). Retryable with backoff.
	ClassTransient ErrorClass = "transient"

	// ClassMalformed: the response arrived but could not be decoded into
	// the expected shape. Not retryable; the payload dead-letters.
	ClassMalformed ErrorClass = "malformed"
)

// FetchError carries the classification of a failed upstream request so the
// retry loop can distinguish backoff-worthy failures from permanent ones.
type FetchError struct {
	Source     string
	Class      ErrorClass
	StatusCode int
	// RetryAfter is the source's requested wait from a Retry-After header,
	// zero when the source did not supply one.
	RetryAfter time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch failed (%s, HTTP %d): %v", e.Source, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch failed (%s): %v", e.Source, e.Class, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth another attempt.
func (e *FetchError) Retryable() bool {
	return e.Class == ClassRateLimited || e.Class == ClassTransient
}

// Classify extracts the ErrorClass from err, or empty string when err is
// not a FetchError (treated as transient by callers).
func Classify(err error) ErrorClass {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Class
	}
	return ""
}

// IsNotFound reports whether err represents an upstream 404.
func IsNotFound(err error) bool {
	return Classify(err) == ClassNotFound
}

// IsRateLimited reports whether err represents an upstream throttle.
func IsRateLimited(err error) bool {
	return Classify(err) == ClassRateLimited
}
