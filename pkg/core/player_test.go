// pkg/core/player_test.go
package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"zone-less", `"2024-05-01T12:00:00"`, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"fractional", `"2024-05-01T12:00:00.250000"`, time.Date(2024, 5, 1, 12, 0, 0, 250_000_000, time.UTC)},
		{"rfc3339", `"2024-05-01T14:00:00+02:00"`, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "want %v got %v", tt.want, ts.Time)
		})
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestRunStats(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := RunStats{StartTime: start}
	assert.Equal(t, 0.0, s.Average())

	s.Add(10)
	s.Add(30)
	s.Score = 4

	r := s.Result(start.Add(35*time.Second + 400*time.Millisecond))
	assert.Equal(t, 20.0, r.AvgMicLevel)
	assert.Equal(t, 30.0, r.MaxMicLevel)
	assert.Equal(t, 35, r.DurationSeconds)
	assert.Equal(t, 4, r.Score)
}

func TestPlayerObject_MoveTo(t *testing.T) {
	p := PlayerObject{X: 120, Width: 28, Height: 28}
	p.MoveTo(100)

	assert.Equal(t, Rect{Left: 120, Top: 100, Width: 28, Height: 28}, p.Bounds)
	assert.Equal(t, 148.0, p.Bounds.Right())
	assert.Equal(t, 128.0, p.Bounds.Bottom())
}
