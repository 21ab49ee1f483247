package retry

import (
	"strings"
)

// retryablePatterns are matched against the lowercased error message.
// The browser engine reports failures as text only, so there are no
// structured codes to inspect.
var retryablePatterns = []string{
	"timeout",
	"network",
	"connection",
	"econnrefused",
	"econnreset",
	"etimedout",
	"failed to navigate",
	"navigation",
	"net::",
}

// MessageClassifier implements webshot.ErrorClassifier using substring
// heuristics on the error message. False positives and false negatives are
// both possible.
type MessageClassifier struct {
	patterns []string
}

// NewMessageClassifier creates a classifier with the built-in vocabulary.
func NewMessageClassifier() *MessageClassifier {
	return &MessageClassifier{patterns: retryablePatterns}
}

// IsRetryable reports whether err looks transient.
func (c *MessageClassifier) IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range c.patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewMessageClassifier()

// IsRetryableError classifies err with the built-in vocabulary.
func IsRetryableError(err error) bool {
	return defaultClassifier.IsRetryable(err)
}
