package errors

import (
	"math"
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateTileID validates a caller-supplied tile ID.
//
// The rules are conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateTileID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "tile id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "tile id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "tile id contains invalid control characters")
		}
	}
	return nil
}

// ValidateKey validates a storage key. Keys become file names, Redis keys and
// document IDs, so path traversal sequences are rejected as well.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "storage key cannot be empty")
	}
	if len(key) > maxIDLength {
		return New(ErrCodeInvalidInput, "storage key too long (max %d characters)", maxIDLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "storage key contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "storage key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidatePercentage rejects NaN, infinities and values outside [0, 100].
// Clamping into a split's narrower bounds is the layout's job.
func ValidatePercentage(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return New(ErrCodeInvalidInput, "percentage must be a finite number")
	}
	if p < 0 || p > 100 {
		return New(ErrCodeInvalidInput, "percentage %g outside [0, 100]", p)
	}
	return nil
}
