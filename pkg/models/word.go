package models

import "time"

// MaxFrequencyRank is the last position in the frequency-ordered vocabulary
// list. Ranks outside [1, MaxFrequencyRank] are clamped before use.
const MaxFrequencyRank = 60000

// Word represents a catalog entry to be learned.
type Word struct {
	ID            int64     `json:"id" db:"id"`
	Text          string    `json:"text" db:"word"`
	Translation   string    `json:"translation" db:"translation"`
	Examples      string    `json:"examples" db:"examples"`
	FrequencyRank int       `json:"frequency_rank" db:"frequency_rank"` // 1 = most common
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
