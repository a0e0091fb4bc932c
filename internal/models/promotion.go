package models

import "time"

// Promotion is a transfer/purchase promotion spotted in an external
// announcement feed. Keyed by link, which doubles as the seen-before dedup.
type Promotion struct {
	Link     string    `badgerhold:"key" json:"link"`
	Title    string    `json:"title"`
	Source   string    `json:"source"`
	Program  Program   `json:"program,omitempty"`
	BonusPct float64   `json:"bonus_pct,omitempty"`
	FoundAt  time.Time `json:"found_at"`
}
