package xrotate

import (
	"testing"
	"time"
)

func TestUntilNextBoundary(t *testing.T) {
	base := time.Date(2026, 3, 14, 15, 20, 30, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{
			name:     "mid hour",
			now:      base, // 15:20:30
			interval: time.Hour,
			want:     39*time.Minute + 30*time.Second,
		},
		{
			name:     "exactly on boundary",
			now:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
			interval: time.Hour,
			want:     time.Hour,
		},
		{
			name:     "sub second interval",
			now:      base.Add(30 * time.Millisecond),
			interval: 100 * time.Millisecond,
			want:     70 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := untilNextBoundary(tt.now, tt.interval); got != tt.want {
				t.Errorf("untilNextBoundary() = %v, want %v", got, tt.want)
			}
		})
	}
}
