package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 6), b)

	WipeByteArray(nil)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0B", FormatFileSize(0))
	assert.Equal(t, "512B", FormatFileSize(512))
	assert.Equal(t, "1.5KiB", FormatFileSize(1536))
	assert.Equal(t, "2MiB", FormatFileSize(2*1024*1024))
}
