package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 45, Days(base, base.AddDate(0, 0, 45)))
	assert.Equal(t, 0, Days(base, base))
	assert.Equal(t, 0, Days(base, base.Add(12*time.Hour)))
}

func TestDaysClampsNegativeDelta(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, Days(base, base.AddDate(0, 0, -10)))
}

func TestDaysUnknownCreation(t *testing.T) {
	assert.Equal(t, 0, Days(time.Time{}, time.Now()))
}
