package helpers

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel", TruncateString("hello", 3))
	assert.Equal(t, "", TruncateString("hello", 0))

	t.Run("never splits a rune", func(t *testing.T) {
		s := "héllo wörld" // é and ö are two bytes each
		for max := 0; max <= len(s); max++ {
			got := TruncateString(s, max)
			assert.True(t, utf8.ValidString(got), "max=%d produced %q", max, got)
			assert.LessOrEqual(t, len(got), max)
		}
	})

	t.Run("emoji boundary", func(t *testing.T) {
		s := "ok 🎭 done"
		got := TruncateString(s, 4) // cuts inside the 4-byte emoji at offset 3
		assert.Equal(t, "ok ", got)
	})
}
