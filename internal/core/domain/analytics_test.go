package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsPeriod_Since(t *testing.T) {
	now := time.Date(2024, time.May, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period AnalyticsPeriod
		want   time.Time
	}{
		{PeriodDay, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2024, time.May, 8, 14, 30, 0, 0, time.UTC)},
		{PeriodMonth, time.Date(2024, time.April, 15, 14, 30, 0, 0, time.UTC)},
		{PeriodQuarter, time.Date(2024, time.February, 15, 14, 30, 0, 0, time.UTC)},
		{PeriodYear, time.Date(2023, time.May, 15, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := tt.period.Since(now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, PeriodAll.Since(now))
	assert.True(t, PeriodAll.IsValid())
	assert.False(t, AnalyticsPeriod("decade").IsValid())
}
