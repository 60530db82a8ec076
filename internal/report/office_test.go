package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfficeNumber(t *testing.T) {
	assert.Equal(t, "ISTLA-VR-2025-100-O", OfficeNumber(DefaultOfficePrefix, 2025, 100))
	assert.Equal(t, "ISTLA-VR-2025-7-O", OfficeNumber("", 2025, 7))
}

func TestOfficeNumbers_StrictlySequential(t *testing.T) {
	got := OfficeNumbers(DefaultOfficePrefix, 2026, 41, 5)

	assert.Len(t, got, 5)
	for i, n := range got {
		assert.Equal(t, fmt.Sprintf("ISTLA-VR-2026-%d-O", 41+i), n)
	}
	assert.Empty(t, OfficeNumbers(DefaultOfficePrefix, 2026, 1, 0))
}
