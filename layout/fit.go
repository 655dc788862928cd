package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultReferencePair is measured for the line height when a font does not
// report ascent and descent.
const DefaultReferencePair = "Ay"

// Request describes one auto-fit layout problem.
type Request struct {
	// Width and Height are the target rectangle size in pixels
	Width, Height float64

	// Margin is kept clear on every side of the rectangle
	Margin float64

	// Text may contain hard line breaks
	Text string

	// Family is passed to the metrics provider unchanged
	Family string

	// StartSize is the first (largest) size tried
	StartSize int

	// MinSize is the smallest size tried. Zero or negative uses the
	// engine's floor.
	MinSize int

	// LineSpacingPercent sets the gap between lines as a percentage of the
	// line height. Negative values tighten lines.
	LineSpacingPercent float64
}

// Line is one positioned line of a plan.
type Line struct {
	// Text holds no hard line breaks
	Text string

	// Width is the measured ink width
	Width float64

	// Bearing is the ink offset from the pen origin; draw at X-Bearing
	Bearing float64

	// X is the left edge of the ink, centered in the available width
	X float64

	// Y is the top of the line box
	Y float64
}

// Plan is the result of fitting text into a rectangle.
type Plan struct {
	// Family and Size identify the chosen font
	Family string
	Size   int

	// Lines in drawing order
	Lines []Line

	// BaseHeight is the height of one line box
	BaseHeight float64

	// Ascent is the baseline offset from the top of a line box
	Ascent float64

	// Spacing is added between consecutive lines (never before the first
	// or after the last)
	Spacing float64

	// OriginX and OriginY are the top-left of the first line
	OriginX, OriginY float64

	// BlockWidth and BlockHeight are the measured size of all lines together
	BlockWidth, BlockHeight float64

	// Fits is false when the plan was accepted at the floor size without fitting
	Fits bool
}

// Advance returns the vertical distance between consecutive line tops.
func (p *Plan) Advance() float64 {
	return p.BaseHeight + p.Spacing
}

// Text returns the plan's lines joined with newlines.
func (p *Plan) Text() string {
	parts := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// Option configures an Engine.
type Option func(*Engine)

// WithFloor sets the absolute smallest size used when a request carries no
// MinSize (default: 1).
func WithFloor(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.floor = size
		}
	}
}

// WithReferencePair sets the string measured for line height when the
// provider has no line metrics.
func WithReferencePair(pair string) Option {
	return func(e *Engine) {
		if pair != "" {
			e.referencePair = pair
		}
	}
}

// Engine chooses the largest font size at which text fits a rectangle.
// An Engine holds no per-call state and is safe for concurrent use when its
// Metrics is.
type Engine struct {
	metrics       Metrics
	floor         int
	referencePair string
}

// NewEngine creates an engine measuring with metrics.
func NewEngine(metrics Metrics, opts ...Option) *Engine {
	e := &Engine{
		metrics:       metrics,
		floor:         1,
		referencePair: DefaultReferencePair,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fit lays out req.Text. See FitContext.
func (e *Engine) Fit(req Request) (*Plan, error) {
	return e.FitContext(context.Background(), req)
}

// FitContext tries sizes from StartSize down to MinSize, one at a time, and
// returns the first plan whose block fits the rectangle minus margins.
//
// Sizes the font cannot load at are skipped. When no size fits, the plan at
// the smallest loadable size is returned with Fits set to false. When no
// size loads at all, ErrNoLoadableFont is returned. Cancelling ctx stops the
// descent between sizes.
func (e *Engine) FitContext(ctx context.Context, req Request) (*Plan, error) {
	if e.metrics == nil {
		return nil, ErrNoMetrics
	}

	text := norm.NFC.String(strings.TrimSpace(req.Text))

	minSize := req.MinSize
	if minSize <= 0 {
		minSize = e.floor
	}
	startSize := req.StartSize
	if startSize < minSize {
		startSize = minSize
	}

	m := newMemo(e.metrics, req.Family)
	var last *Plan

	for size := startSize; size >= minSize; size-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		plan, err := e.attempt(m, req, text, size)
		if errors.Is(err, ErrFontUnavailable) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("size %d: %w", size, err)
		}

		// Empty text is accepted at the first size that loads.
		if text == "" {
			plan.Fits = true
			return plan, nil
		}
		if plan.Fits {
			return plan, nil
		}
		last = plan
	}

	if last == nil {
		return nil, fmt.Errorf("%w: family %q, sizes %d..%d", ErrNoLoadableFont, req.Family, minSize, startSize)
	}
	return last, nil
}

// attempt wraps and positions text at one size.
func (e *Engine) attempt(m *memo, req Request, text string, size int) (*Plan, error) {
	availW := req.Width - 2*req.Margin
	availH := req.Height - 2*req.Margin

	base, ascent, err := e.lineHeight(m, size)
	if err != nil {
		return nil, err
	}

	wrapped, err := wrapText(text, size, availW, m)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Family:     req.Family,
		Size:       size,
		Lines:      make([]Line, len(wrapped)),
		BaseHeight: base,
		Ascent:     ascent,
		Spacing:    base * req.LineSpacingPercent / 100,
	}

	for i, s := range wrapped {
		ext, err := m.measure(s, size)
		if err != nil {
			return nil, err
		}
		plan.Lines[i] = Line{Text: s, Width: ext.Width, Bearing: ext.Bearing}
		if ext.Width > plan.BlockWidth {
			plan.BlockWidth = ext.Width
		}
	}

	n := float64(len(plan.Lines))
	plan.BlockHeight = n*base + (n-1)*plan.Spacing
	plan.Fits = plan.BlockHeight <= availH && plan.BlockWidth <= availW

	plan.OriginY = req.Margin + (availH-plan.BlockHeight)/2
	for i := range plan.Lines {
		line := &plan.Lines[i]
		line.X = req.Margin + (availW-line.Width)/2
		line.Y = plan.OriginY + float64(i)*plan.Advance()
	}
	plan.OriginX = plan.Lines[0].X

	return plan, nil
}

// lineHeight returns the line box height and baseline offset at size.
// Without line metrics the line box is the reference pair's ink box, with
// the baseline at the pair's ink ascent so its descender stays inside.
func (e *Engine) lineHeight(m *memo, size int) (base, ascent float64, err error) {
	asc, desc, err := e.metrics.LineMetrics(FontDescriptor{Family: m.family, Size: size})
	if err == nil {
		return asc + desc, asc, nil
	}
	if !errors.Is(err, ErrNoLineMetrics) {
		return 0, 0, err
	}

	ext, err := m.measure(e.referencePair, size)
	if err != nil {
		return 0, 0, err
	}
	ascent = ext.Ascent
	if ascent <= 0 || ascent > ext.Height {
		// Provider did not report the ink offset.
		ascent = ext.Height
	}
	return ext.Height, ascent, nil
}
