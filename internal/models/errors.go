package models

import (
	"fmt"
	"strings"
)

// NormalizeError maps common SDK failure strings onto friendlier wrappers so
// callers can surface something actionable instead of raw transport noise.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "401", "403", "unauthorized", "invalid api key", "forbidden"):
		return fmt.Errorf("authentication failed: %w", err)
	case containsAny(msg, "429", "rate limit", "quota", "too many requests"):
		return fmt.Errorf("rate limited: %w", err)
	case containsAny(msg, "context length", "too many tokens", "token limit"):
		return fmt.Errorf("context too long: %w", err)
	case containsAny(msg, "model not found", "404"):
		return fmt.Errorf("model not found: %w", err)
	case containsAny(msg, "connection", "eof", "timeout", "dial", "refused"):
		return fmt.Errorf("connection error: %w", err)
	}
	return err
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
