package store

import (
	"time"

	"travelease/internal/summary/document"
	"travelease/internal/summary/model"
)

// Summary is a row of the summaries table.
type Summary struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"` // JSON text as produced by the summarizer
	CreatedAt time.Time `json:"created_at"`
}

// Record converts the row into the display-layer record. Content parsing is
// left to the consumer.
func (s Summary) Record() model.SummaryRecord {
	rec := model.SummaryRecord{
		ID:      s.ID,
		Content: document.Raw(s.Content),
	}
	if !s.CreatedAt.IsZero() {
		rec.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return rec
}
