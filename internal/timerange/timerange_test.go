package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	now := time.Date(2024, 2, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name Name
		want time.Time
	}{
		{LastDay, time.Date(2024, 2, 19, 15, 30, 0, 0, time.UTC)},
		{LastWeek, time.Date(2024, 2, 13, 15, 30, 0, 0, time.UTC)},
		{LastMonth, time.Date(2024, 1, 22, 15, 30, 0, 0, time.UTC)}, // February 2024 has 29 days
		{MonthToDate, time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)},
		{LastYear, time.Date(2023, 2, 21, 15, 30, 0, 0, time.UTC)}, // spans 29 February
		{YearToDate, time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)},
		{Last5Years, time.Date(2019, 2, 22, 15, 30, 0, 0, time.UTC)},
		{All, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got, err := Start(tt.name, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartUnknown(t *testing.T) {
	_, err := Start("LAST_DECADE", time.Now())
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	got, err := Parse(" ytd ")
	require.NoError(t, err)
	assert.Equal(t, YearToDate, got)

	_, err = Parse("yesterday")
	assert.Error(t, err)
}
