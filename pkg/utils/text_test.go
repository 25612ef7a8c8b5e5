package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeText(t *testing.T) {
	assert.Equal(t, "hello world", SafeText("  hello \n\t world  "))
	assert.Equal(t, "no control", SafeText("no\x00 control\x07"))
	assert.Equal(t, "", SafeText("   \n\t  "))
	assert.Equal(t, "plain", SafeText("plain"))
}

func TestSafeText_InvalidUTF8(t *testing.T) {
	assert.Equal(t, "ab", SafeText("a\xffb"))
}
