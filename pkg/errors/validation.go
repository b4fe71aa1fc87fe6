package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSplitRatio checks the balance coefficient used by the splitter.
// The ratio must lie strictly between 0 and 0.5 so that the minimum allowed
// component size stays below the maximum allowed size.
func ValidateSplitRatio(alpha float64) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return New(ErrCodeInvalidOptions, "split ratio must be a finite number")
	}
	if alpha <= 0 || alpha >= 0.5 {
		return New(ErrCodeInvalidOptions, "split ratio must satisfy 0 < ratio < 0.5, got %g", alpha)
	}
	return nil
}

// ValidateMaxDeletions checks the deletion-set size bound k.
// The enumeration is polynomial in n only for small k, so the bound is capped.
func ValidateMaxDeletions(k int) error {
	const maxBound = 8
	if k < 1 {
		return New(ErrCodeInvalidOptions, "max deletions must be at least 1, got %d", k)
	}
	if k > maxBound {
		return New(ErrCodeInvalidOptions, "max deletions too large (max %d), got %d", maxBound, k)
	}
	return nil
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a backend connection string.
// Only the schemes understood by the cache and archive backends are accepted.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
