package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxDimension bounds the viewport size accepted from users, in pixels.
const MaxDimension = 16384

// ValidateFieldName validates the name of a record field used as an accessor.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "field name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDimensions validates a viewport size.
//
// Zero and negative sizes are accepted: they produce an empty chart rather
// than an error. NaN, infinities and sizes above [MaxDimension] are rejected.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidDimensions, "dimensions must be finite numbers")
		}
		if v > MaxDimension {
			return New(ErrCodeInvalidDimensions, "dimension %.0f exceeds maximum of %d pixels", v, MaxDimension)
		}
	}
	return nil
}

// ValidatePadding validates a band padding fraction.
func ValidatePadding(p float64) error {
	if math.IsNaN(p) || p < 0 || p >= 1 {
		return New(ErrCodeInvalidInput, "padding must be in [0, 1), got %v", p)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI writes to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
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

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
