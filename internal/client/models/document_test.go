package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizedSet_Contains(t *testing.T) {
	s := AuthorizedSet{"b1", "b2"}

	assert.True(t, s.Contains("b1"))
	assert.False(t, s.Contains("b3"))
	assert.False(t, s.Contains(""))
	assert.False(t, AuthorizedSet(nil).Contains("b1"))
}

func TestAuthorizedSet_With(t *testing.T) {
	s := AuthorizedSet{"b1"}

	got := s.With("b2")
	assert.Equal(t, AuthorizedSet{"b1", "b2"}, got)
	assert.Equal(t, AuthorizedSet{"b1"}, s, "original untouched")

	assert.Equal(t, AuthorizedSet{"b1"}, s.With("b1"))
	assert.Equal(t, AuthorizedSet{"b1"}, s.With(""))
}

func TestDownloadKind_String(t *testing.T) {
	assert.Equal(t, "binary", DownloadBinary.String())
	assert.Equal(t, "envelope", DownloadEnvelope.String())
	assert.Equal(t, "path-reference", DownloadPathReference.String())
	assert.Equal(t, "unknown", DownloadKind(0).String())
}
