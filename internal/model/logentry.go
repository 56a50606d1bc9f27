package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format for entry dates.
const DateLayout = "2006-01-02"

// Event is one timed activity derived from one line of a daily log.
type Event struct {
	Title      string `json:"title" yaml:"title"`
	Date       string `json:"date" yaml:"date"`             // YYYY-MM-DD, inherited from the entry
	StartTime  string `json:"startTime" yaml:"startTime"`   // HH:MM, 24-hour
	SourceText string `json:"sourceText" yaml:"sourceText"` // original trimmed line
}

// ParsedResult is the structured payload stored next to the raw text.
type ParsedResult struct {
	Summary string  `json:"summary" yaml:"summary"`
	Events  []Event `json:"events" yaml:"events"`
}

// LogEntry is one user's free-text log for one calendar date.
// There is at most one entry per (OwnerID, EntryDate).
type LogEntry struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	OwnerID   uuid.UUID    `db:"user_id" json:"owner_id"`
	EntryDate string       `db:"entry_date" json:"entry_date"`
	RawText   string       `db:"raw_text" json:"raw_text"`
	Parsed    ParsedResult `db:"parsed_json" json:"parsed"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}
