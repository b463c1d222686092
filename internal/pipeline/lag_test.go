package pipeline

import (
	"testing"
	"time"
)

func TestLastPublished(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		months, days int
		want         time.Time
	}{
		{
			name:   "default lag",
			now:    time.Date(2022, 5, 5, 0, 0, 0, 0, time.UTC),
			months: 2, days: 23,
			want: time.Date(2022, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "clamped to month end",
			now:    time.Date(2022, 4, 30, 0, 0, 0, 0, time.UTC),
			months: 2, days: 0,
			want: time.Date(2022, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "crosses year",
			now:    time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			months: 2, days: 23,
			want: time.Date(2022, 10, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "leap year",
			now:    time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			months: 2, days: 1,
			want: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "no lag",
			now:    time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC),
			months: 0, days: 0,
			want: time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastPublished(tt.now, tt.months, tt.days)
			if !got.Equal(tt.want) {
				t.Errorf("LastPublished(%v, %d, %d) = %v, want %v", tt.now, tt.months, tt.days, got, tt.want)
			}
		})
	}
}
