package analyzers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 3))

	t.Run("multibyte titles stay valid UTF-8", func(t *testing.T) {
		title := strings.Repeat("é", 40)
		for max := 1; max < 20; max++ {
			got := truncate(title, max)
			assert.True(t, utf8.ValidString(got), "max=%d produced %q", max, got)
		}
	})
}

func TestNormalisePriority(t *testing.T) {
	assert.Equal(t, "critical", normalisePriority("critical"))
	assert.Equal(t, "normal", normalisePriority("SUPER-URGENT"))
	assert.Equal(t, "normal", normalisePriority(""))
}

func TestNormaliseEffort(t *testing.T) {
	assert.Equal(t, "XS", normaliseEffort("XS"))
	assert.Equal(t, "M", normaliseEffort("3 days"))
	assert.Equal(t, "M", normaliseEffort(""))
}
