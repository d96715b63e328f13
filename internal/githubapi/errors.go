package githubapi

import (
	stderrors "errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

var (
	// ErrAlreadyExists is returned when GitHub rejects a create because the resource exists.
	ErrAlreadyExists = stderrors.New("resource already exists")

	// ErrMalformedResponse is returned when a response is missing fields the caller depends on.
	ErrMalformedResponse = stderrors.New("malformed API response")
)

// IsAlreadyExists reports whether err signals a create conflict.
func IsAlreadyExists(err error) bool {
	return stderrors.Is(err, ErrAlreadyExists)
}

// isAlreadyExistsHTTP reports whether a REST error is a 422 with an already_exists item.
func isAlreadyExistsHTTP(err error) bool {
	var httpErr *api.HTTPError
	if !stderrors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, item := range httpErr.Errors {
		if item.Code == "already_exists" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(httpErr.Message), "already exists")
}

// RetryAfter reports whether err is a rate-limit rejection and how long GitHub asked us to wait.
// A zero duration with ok=true means "rate limited, no hint given".
func RetryAfter(err error, now time.Time) (time.Duration, bool) {
	var httpErr *api.HTTPError
	if stderrors.As(err, &httpErr) {
		return retryAfterHTTP(httpErr, now)
	}

	var gqlErr *api.GraphQLError
	if stderrors.As(err, &gqlErr) {
		for _, item := range gqlErr.Errors {
			if item.Type == "RATE_LIMITED" {
				return 0, true
			}
		}
	}
	return 0, false
}

func retryAfterHTTP(httpErr *api.HTTPError, now time.Time) (time.Duration, bool) {
	if httpErr.StatusCode != http.StatusTooManyRequests && httpErr.StatusCode != http.StatusForbidden {
		return 0, false
	}

	if v := httpErr.Headers.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second, true
		}
	}

	if httpErr.Headers.Get("X-RateLimit-Remaining") == "0" {
		if v := httpErr.Headers.Get("X-RateLimit-Reset"); v != "" {
			if epoch, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				wait := time.Unix(epoch, 0).Sub(now)
				if wait < 0 {
					wait = 0
				}
				return wait, true
			}
		}
		return 0, true
	}

	// A 403 without rate limit headers is a permission problem.
	if httpErr.StatusCode == http.StatusForbidden {
		msg := strings.ToLower(httpErr.Message)
		return 0, strings.Contains(msg, "secondary rate limit") || strings.Contains(msg, "abuse")
	}
	return 0, true
}

// HasProjectScope reports whether the token scopes allow Projects (v2) writes.
func HasProjectScope(scopes []string) bool {
	return slices.Contains(scopes, "project")
}
