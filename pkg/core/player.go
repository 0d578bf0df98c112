// pkg/core/player.go
package core

import (
	"fmt"
	"strings"
	"time"
)

// Player is the authenticated account as returned by the backend.
type Player struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"created_at"`
}

// PlayerStats holds the backend's aggregate stats for one player.
// BestScore is the authoritative personal best.
type PlayerStats struct {
	PlayerID   int     `json:"player_id"`
	TotalGames int     `json:"total_games"`
	BestScore  int     `json:"best_score"`
	AvgScore   float64 `json:"avg_score"`
}

// Timestamp accepts RFC 3339 times as well as the zone-less ISO 8601 times the
// backend emits, which are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return t.Time.UTC().MarshalJSON()
}
