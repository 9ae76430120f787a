package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateTimeTR(t *testing.T) {
	utc := time.Date(2026, 3, 9, 21, 30, 0, 0, time.UTC)

	assert.Equal(t, "10.03.2026 00:30", FormatDateTimeTR(utc))
	assert.Equal(t, "10.03.2026", FormatDateTR(utc))
}

func TestFormatDateTimeTR_ZeroTime(t *testing.T) {
	assert.Empty(t, FormatDateTimeTR(time.Time{}))
	assert.Empty(t, FormatDateTR(time.Time{}))
}
