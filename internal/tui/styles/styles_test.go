package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Stalker", Truncate("Stalker", 10))
	assert.Equal(t, "Stalke...", Truncate("Stalker 1979", 9))
	assert.Equal(t, "", Truncate("Stalker", 0))
	// Rune counting, not bytes
	assert.Equal(t, "Nausicaä", Truncate("Nausicaä", 8))
	assert.Equal(t, "Naus...", Truncate("Nausicaä of the Valley", 7))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", Pad("ab", 4))
	assert.Equal(t, "ab", Pad("abcd", 2))
	assert.Equal(t, "crè ", Pad("crè", 4))
}
