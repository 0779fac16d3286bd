package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "abc", NormalizeID("abc"))
	assert.Equal(t, "42", NormalizeID(42))
	assert.Equal(t, "42", NormalizeID(int64(42)))
	assert.Equal(t, "42", NormalizeID(uint(42)))
	// JSON 数字解码为 float64
	assert.Equal(t, "42", NormalizeID(float64(42)))
	assert.Equal(t, "", NormalizeID(nil))
}

func TestIsVideoMime(t *testing.T) {
	assert.True(t, IsVideoMime("video/mp4"))
	assert.True(t, IsVideoMime("video/webm"))
	assert.False(t, IsVideoMime("application/pdf"))
	assert.False(t, IsVideoMime("image/png"))
	assert.False(t, IsVideoMime(""))
}
