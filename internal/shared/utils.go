// Package shared provides small helpers used by the CLI and services.
package shared

import units "github.com/docker/go-units"

// WipeByteArray zeroes b in place. Used for passwords after use.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// FormatFileSize renders n bytes in binary units, e.g. "1.5MiB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0B"
	}
	return units.BytesSize(float64(n))
}
