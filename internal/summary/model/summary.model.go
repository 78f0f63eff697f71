package model

import (
	"travelease/internal/summary/document"
)

// SummaryRecord is one stored summary as handed to the display layer.
type SummaryRecord struct {
	ID        int64            `json:"id"`
	Content   document.Content `json:"content"`
	CreatedAt string           `json:"created_at,omitempty"` // ISO-8601
}

type StoreSummaryRequest struct {
	Content document.Content `json:"content"`
}

type ProcessRequest struct {
	Link string `json:"link"`
}

type ProcessResponse struct {
	Summary document.Value `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
