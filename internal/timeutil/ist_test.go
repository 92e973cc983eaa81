package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 3, 14, 18, 45, 12, 0, IST)
	start := StartOfDay(ts)

	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 14, start.Day())
	assert.Zero(t, start.Hour())
	assert.Zero(t, start.Minute())
	assert.Equal(t, IST, start.Location())
}

func TestNowIsPlantLocal(t *testing.T) {
	assert.Equal(t, IST, Now().Location())
}
