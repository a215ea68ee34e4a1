package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
)

// FailureKind buckets backend failures for logging and metrics.
// The caller-visible behavior is the same for all of them (degrade to
// fallback text); the kind only makes the distinction observable.
type FailureKind string

const (
	FailureAuth      FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureTimeout   FailureKind = "timeout"
	FailureCanceled  FailureKind = "canceled"
	FailureMalformed FailureKind = "malformed"
	FailureOther     FailureKind = "other"
)

// Classify maps an error from the chat backend to a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return FailureAuth
		case apiErr.StatusCode == 429:
			return FailureRateLimit
		}
		return FailureOther
	}

	if strings.Contains(err.Error(), "no choices") ||
		strings.Contains(err.Error(), "unmarshal response") ||
		strings.Contains(err.Error(), "empty completion") {
		return FailureMalformed
	}

	return FailureOther
}

const placeholderKey = "sk-your-api-key-here"

// ValidateKey rejects missing, placeholder, or malformed OpenAI API keys.
// A key that fails validation disables the generative path entirely.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return errors.New("API key is required")
	case key == placeholderKey:
		return errors.New("API key is the placeholder value")
	case !strings.HasPrefix(key, "sk-"):
		return errors.New("API key must start with sk-")
	case len(key) < 30:
		return errors.New("API key is too short")
	}
	return nil
}
