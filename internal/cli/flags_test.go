package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlag(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		in       string
		endOfDay bool
		want     time.Time
	}{
		{"rfc3339", "2025-03-14T12:00:00Z", false, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
		{"local clock", "2025-03-14 08:30", false, time.Date(2025, 3, 14, 8, 30, 0, 0, berlin)},
		{"date start", "2025-03-14", false, time.Date(2025, 3, 14, 0, 0, 0, 0, berlin)},
		{"date end", "2025-03-14", true, time.Date(2025, 3, 15, 0, 0, 0, 0, berlin)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeFlag(tt.in, berlin, tt.endOfDay)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}

	_, err = parseTimeFlag("tomorrow", berlin, false)
	assert.Error(t, err)
}

func TestWeekdaysValue(t *testing.T) {
	var days []time.Weekday
	v := newWeekdaysValue(&days)

	require.NoError(t, v.Set("mon,fri"))
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, days)
	assert.Equal(t, "weekdays", v.Type())
	assert.Error(t, v.Set("funday"))
}

func TestPriorityValue(t *testing.T) {
	p := 1
	v := &priorityValue{p: &p}

	require.NoError(t, v.Set("High"))
	assert.Equal(t, 2, p)
	require.NoError(t, v.Set("7"))
	assert.Equal(t, 7, p)
	assert.Error(t, v.Set("urgent"))
}
