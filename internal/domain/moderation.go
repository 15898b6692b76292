package domain

import "time"

// BlockedWord is one entry of the persisted moderation blocklist.
// Words are stored case-normalized and the set only ever grows.
type BlockedWord struct {
	ID        int64
	Word      string
	CreatedAt time.Time
}

// Verdict is the external classifier's structured judgment of a text.
type Verdict struct {
	Inappropriate bool     `json:"inappropriate"`
	Words         []string `json:"words"`
}
