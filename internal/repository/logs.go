package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workcal/workcal/internal/model"
)

// CorruptSummary replaces the summary of a stored payload that cannot be decoded.
const CorruptSummary = "Stored log could not be parsed; showing raw entry only."

// LogRepository persists daily logs, one row per user per entry date.
type LogRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository returns a LogRepository using the given pool.
func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

const logColumns = `id, user_id, to_char(entry_date, 'YYYY-MM-DD'), raw_text, parsed_json, created_at, updated_at`

// Upsert stores entry for (OwnerID, EntryDate), replacing raw text and parsed
// payload of an existing row. ID and timestamps are filled from the stored row.
func (r *LogRepository) Upsert(ctx context.Context, entry *model.LogEntry) error {
	payload, err := json.Marshal(entry.Parsed)
	if err != nil {
		return fmt.Errorf("encode parsed result: %w", err)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO daily_logs (id, user_id, entry_date, raw_text, parsed_json)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (user_id, entry_date) DO UPDATE
		SET raw_text = EXCLUDED.raw_text,
		    parsed_json = EXCLUDED.parsed_json,
		    updated_at = now()
		RETURNING id, created_at, updated_at`,
		entry.ID,
		entry.OwnerID,
		entry.EntryDate,
		entry.RawText,
		payload,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

// ListByUser returns all entries of userID, newest entry date first.
func (r *LogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.LogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs
		WHERE user_id = $1
		ORDER BY entry_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.LogEntry{}
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *entry)
	}
	return list, rows.Err()
}

// GetByDate returns the entry of userID for date, or nil if there is none.
func (r *LogRepository) GetByDate(ctx context.Context, userID uuid.UUID, date string) (*model.LogEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs
		WHERE user_id = $1 AND entry_date = $2::date`, userID, date)
	entry, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanLog(row pgx.Row) (*model.LogEntry, error) {
	var (
		entry   model.LogEntry
		payload []byte
	)
	if err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.EntryDate,
		&entry.RawText,
		&payload,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	entry.Parsed = DecodeParsed(payload)
	return &entry, nil
}

// DecodeParsed decodes a stored payload. Corrupt payloads become an empty
// result carrying CorruptSummary so callers always see well-formed data.
func DecodeParsed(payload []byte) model.ParsedResult {
	var parsed model.ParsedResult
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return model.ParsedResult{Summary: CorruptSummary, Events: []model.Event{}}
	}
	if parsed.Events == nil {
		parsed.Events = []model.Event{}
	}
	return parsed
}
