package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"travelease/internal/summary/document"
	"travelease/internal/summary/model"
	"travelease/pkg/logger"
	"travelease/store"
)

var ErrNotFound = errors.New("summary not found")

type SummaryRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{DB: db, Now: time.Now}
}

// ListByUser returns the user's summaries, freshest first.
func (r *SummaryRepository) ListByUser(ctx context.Context, userID string) ([]model.SummaryRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, content, created_at FROM summaries WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list summaries for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	records := []model.SummaryRecord{}
	for rows.Next() {
		var s store.Summary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan summary row: %v", err)
			return nil, err
		}
		records = append(records, s.Record())
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to iterate summaries for user %s: %v", userID, err)
		return nil, err
	}
	return records, nil
}

func (r *SummaryRepository) Get(ctx context.Context, userID string, id int64) (model.SummaryRecord, error) {
	var s store.Summary
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at FROM summaries WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SummaryRecord{}, ErrNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get summary %d: %v", id, err)
		return model.SummaryRecord{}, err
	}
	return s.Record(), nil
}

// Insert stores content for the user. Decoded documents are written as
// compact JSON, raw text as-is.
func (r *SummaryRepository) Insert(ctx context.Context, userID string, content document.Content) (model.SummaryRecord, error) {
	s := store.Summary{
		UserID:    userID,
		Content:   content.Encode(),
		CreatedAt: r.Now().UTC(),
	}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO summaries (user_id, content, created_at) VALUES ($1, $2, $3) RETURNING id`,
		s.UserID, s.Content, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert summary for user %s: %v", userID, err)
		return model.SummaryRecord{}, err
	}
	return s.Record(), nil
}
