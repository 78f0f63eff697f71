package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"travelease/internal/summarizer"
	"travelease/internal/summary/document"
	"travelease/internal/summary/extract"
	"travelease/internal/summary/model"
	"travelease/internal/summary/render"
	"travelease/internal/summary/repository"
	"travelease/internal/summary/tile"
	"travelease/pkg/logger"
)

var (
	ErrNotFound       = repository.ErrNotFound
	ErrNoLink         = summarizer.ErrNoLink
	ErrInvalidLink    = summarizer.ErrInvalidLink
	ErrInvalidSummary = summarizer.ErrInvalidSummary
	ErrEmptyContent   = errors.New("content is required")
	ErrUnknownFormat  = errors.New("unknown render format")
	ErrNoSummarizer   = errors.New("no summarizer configured")
)

// Render formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]model.SummaryRecord, error)
	Get(ctx context.Context, userID string, id int64) (model.SummaryRecord, error)
	Insert(ctx context.Context, userID string, content document.Content) (model.SummaryRecord, error)
}

// Notifier is told about every newly stored summary.
type Notifier interface {
	PublishSummary(userID string, rec model.SummaryRecord)
}

type SummaryService struct {
	Repo       Repository
	Summarizer summarizer.Summarizer
	Notifier   Notifier
	Location   *time.Location
	// ProcessTimeout bounds a whole Process call, retries included. Zero
	// means no bound beyond the caller's context.
	ProcessTimeout time.Duration

	extractor *extract.Extractor
	renderer  *render.Renderer
}

func NewSummaryService(repo Repository, s summarizer.Summarizer, limits extract.Limits, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{
		Repo:       repo,
		Summarizer: s,
		Location:   loc,
		extractor:  extract.NewExtractor(limits),
		renderer:   render.New(),
	}
}

// NewTile mounts rec in a collapsed tile using the service's heuristics.
func (s *SummaryService) NewTile(rec model.SummaryRecord) *tile.Tile {
	return tile.New(rec,
		tile.WithExtractor(s.extractor),
		tile.WithRenderer(s.renderer),
		tile.WithLocation(s.Location),
	)
}

func (s *SummaryService) ListRecords(ctx context.Context, userID string) ([]model.SummaryRecord, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ListTiles returns collapsed views of the user's summaries, freshest first.
func (s *SummaryService) ListTiles(ctx context.Context, userID string) ([]tile.View, error) {
	records, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]tile.View, 0, len(records))
	for _, rec := range records {
		views = append(views, s.NewTile(rec).View())
	}
	return views, nil
}

func (s *SummaryService) GetRecord(ctx context.Context, userID string, id int64) (model.SummaryRecord, error) {
	return s.Repo.Get(ctx, userID, id)
}

// GetTile returns one summary as a collapsed or expanded view.
func (s *SummaryService) GetTile(ctx context.Context, userID string, id int64, expanded bool) (tile.View, error) {
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return tile.View{}, err
	}
	t := s.NewTile(rec)
	if expanded {
		t.Toggle()
	}
	return t.View(), nil
}

// Rendered is a summary rendering in one output format.
type Rendered struct {
	ContentType string
	Body        []byte
}

// Render renders a stored summary as json (the render tree), markdown or
// html.
func (s *SummaryService) Render(ctx context.Context, userID string, id int64, format string) (Rendered, error) {
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Rendered{}, err
	}
	return RenderContent(s.renderer, rec.Content, format)
}

// RenderContent renders content in the given format without touching the
// store.
func RenderContent(r *render.Renderer, c document.Content, format string) (Rendered, error) {
	tree := r.Summary(c)
	switch format {
	case "", FormatJSON:
		body, err := json.Marshal(tree)
		if err != nil {
			return Rendered{}, fmt.Errorf("marshal render tree: %w", err)
		}
		return Rendered{ContentType: "application/json", Body: body}, nil
	case FormatMarkdown:
		return Rendered{ContentType: "text/markdown; charset=utf-8", Body: []byte(render.Markdown(tree))}, nil
	case FormatHTML:
		out, err := render.HTML(tree)
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{ContentType: "text/html; charset=utf-8", Body: []byte(out)}, nil
	}
	return Rendered{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Store saves content for the user and announces it.
func (s *SummaryService) Store(ctx context.Context, userID string, content document.Content) (model.SummaryRecord, error) {
	if content.Empty() {
		return model.SummaryRecord{}, ErrEmptyContent
	}
	rec, err := s.Repo.Insert(ctx, userID, content)
	if err != nil {
		return model.SummaryRecord{}, err
	}
	if s.Notifier != nil {
		s.Notifier.PublishSummary(userID, rec)
	}
	return rec, nil
}

// Process summarizes link, stores the result for the user and returns the
// summary document.
func (s *SummaryService) Process(ctx context.Context, userID, link string) (document.Value, model.SummaryRecord, error) {
	if s.Summarizer == nil {
		return document.Value{}, model.SummaryRecord{}, ErrNoSummarizer
	}
	normalized, err := summarizer.NormalizeLink(link)
	if err != nil {
		return document.Value{}, model.SummaryRecord{}, err
	}

	if s.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ProcessTimeout)
		defer cancel()
	}

	summary, err := s.Summarizer.Summarize(ctx, normalized)
	// A summary that arrives after the deadline is dropped; the caller has
	// already given up on it.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("summarize %s: %w", normalized, ctxErr)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to summarize %s: %v", normalized, err)
		return document.Value{}, model.SummaryRecord{}, err
	}

	rec, err := s.Store(ctx, userID, document.Doc(summary))
	if err != nil {
		return document.Value{}, model.SummaryRecord{}, err
	}
	logger.Sugar.Infof("Stored summary %d for user %s", rec.ID, userID)
	return summary, rec, nil
}
