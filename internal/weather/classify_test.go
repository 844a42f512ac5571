package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdverse_AllCodesInTable(t *testing.T) {
	for code := range adverseCodes {
		assert.True(t, IsAdverse(code), "code %d should be adverse", code)
	}
}

func TestIsAdverse_TableSize(t *testing.T) {
	assert.Len(t, adverseCodes, 43)
}

func TestIsAdverse_NonAdverseCodes(t *testing.T) {
	nonAdverse := []int{
		0,
		-1,
		1000, // Sunny
		1003, // Partly cloudy
		1006, // Cloudy
		1009, // Overcast
		1030, // Mist
		1062, // neighbor of a table entry
		1064,
		1283, // just past the storm group
		9999,
	}

	for _, code := range nonAdverse {
		assert.False(t, IsAdverse(code), "code %d should not be adverse", code)
	}
}
