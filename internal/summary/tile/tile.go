// Package tile holds the per-record presentation state that switches a
// summary between its preview and its full rendering.
package tile

import (
	"time"

	"travelease/internal/summary/extract"
	"travelease/internal/summary/model"
	"travelease/internal/summary/render"
)

type State int

const (
	Collapsed State = iota
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Target is the part of a tile that received a click.
type Target string

const (
	Body      Target = "body"
	Indicator Target = "indicator"
)

// Valid reports whether t names a clickable part.
func (t Target) Valid() bool { return t == Body || t == Indicator }

// Expand indicator glyphs.
const (
	IndicatorCollapsed = "▼"
	IndicatorExpanded  = "▲"
)

// Tile wraps one SummaryRecord. It is not safe for concurrent use; each
// viewer owns its own tiles.
type Tile struct {
	record    model.SummaryRecord
	state     State
	extractor *extract.Extractor
	renderer  *render.Renderer
	loc       *time.Location
}

type Option func(*Tile)

func WithExtractor(e *extract.Extractor) Option {
	return func(t *Tile) { t.extractor = e }
}

func WithRenderer(r *render.Renderer) Option {
	return func(t *Tile) { t.renderer = r }
}

// WithLocation sets the time zone dates are shown in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tile) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New mounts rec in a collapsed tile.
func New(rec model.SummaryRecord, opts ...Option) *Tile {
	t := &Tile{
		extractor: extract.NewExtractor(extract.DefaultLimits()),
		renderer:  render.New(),
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Mount(rec)
	return t
}

// Mount replaces the record and resets the tile to collapsed.
func (t *Tile) Mount(rec model.SummaryRecord) {
	t.record = rec
	t.state = Collapsed
}

func (t *Tile) Record() model.SummaryRecord { return t.record }

func (t *Tile) State() State { return t.state }

// Toggle flips between collapsed and expanded.
func (t *Tile) Toggle() {
	if t.state == Collapsed {
		t.state = Expanded
	} else {
		t.state = Collapsed
	}
}

// Click applies a click on target and reports whether the state changed.
// The body only expands a collapsed tile. The indicator toggles either way
// and stops the click from reaching the body.
func (t *Tile) Click(target Target) bool {
	switch target {
	case Indicator:
		t.Toggle()
		return true
	case Body:
		if t.state == Collapsed {
			t.Toggle()
			return true
		}
	}
	return false
}

// View is what a tile shows in its current state. Preview is set while
// collapsed, Content while expanded.
type View struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	Expanded  bool         `json:"expanded"`
	Indicator string       `json:"indicator"`
	Preview   string       `json:"preview,omitempty"`
	Content   *render.Node `json:"content,omitempty"`
}

func (t *Tile) View() View {
	v := View{
		ID:        t.record.ID,
		Title:     t.extractor.Title(t.record.Content),
		Date:      FormatDate(t.record.CreatedAt, t.loc),
		Expanded:  t.state == Expanded,
		Indicator: IndicatorCollapsed,
	}
	if v.Expanded {
		v.Indicator = IndicatorExpanded
		v.Content = t.renderer.Summary(t.record.Content)
	} else {
		v.Preview = t.extractor.Preview(t.record.Content)
	}
	return v
}
