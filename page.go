package retypeset

import (
	"context"
	"errors"
	"fmt"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/retypeset/cluster"
	"github.com/tsawler/retypeset/layout"
	"github.com/tsawler/retypeset/model"
	"github.com/tsawler/retypeset/ocr"
	"github.com/tsawler/retypeset/render"
	"github.com/tsawler/retypeset/translate"
)

// ErrNoEngine is returned by Layout when no layout engine is given.
var ErrNoEngine = errors.New("retypeset: no layout engine")

// FaceSource supplies sized font faces for drawing. *font.Provider
// implements it.
type FaceSource interface {
	Face(fd layout.FontDescriptor) (xfont.Face, error)
}

// RegionLayout is the layout result for one region.
type RegionLayout struct {
	Region model.RegionBox

	// Plan is nil when Err is set
	Plan *layout.Plan

	// Err is a fatal layout error for this region only
	Err error
}

// Page provides a fluent interface over the detections of one page image.
// Each configuration method returns a new Page instance, making it safe for
// concurrent use and allowing method chaining.
type Page struct {
	// Detections, shared by every Page derived from the same source
	src *source

	// Configuration
	options PageOptions

	// Accumulated error (fail-fast)
	err error
}

// source holds the detections of a page, loaded at most once.
type source struct {
	path string

	once sync.Once
	dets []model.Detection
	err  error
}

// loadedSource returns a source that needs no loading.
func loadedSource(dets []model.Detection) *source {
	s := &source{dets: dets}
	s.once.Do(func() {})
	return s
}

// detections returns the source's detections, reading path on first use.
// Detections are never modified after loading.
func (s *source) detections() ([]model.Detection, error) {
	s.once.Do(func() {
		s.dets, s.err = readPaddle(s.path)
	})
	return s.dets, s.err
}

func readPaddle(path string) ([]model.Detection, error) {
	if path == "" {
		return nil, fmt.Errorf("no detections source specified")
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open OCR result: %w", err)
	}
	defer f.Close()

	dets, err := ocr.DecodePaddle(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode OCR result: %w", err)
	}
	return dets, nil
}

// clone creates a shallow copy of the Page with a copy of options.
func (p *Page) clone() *Page {
	return &Page{
		src:     p.src,
		options: p.options.clone(),
		err:     p.err,
	}
}

// ============================================================================
// Configuration Methods (return new Page instance)
// ============================================================================

// MinScore keeps only detections whose score is at least min.
//
// Example:
//
//	regions, _, err := retypeset.OpenPaddle("page.json").MinScore(0.7).Regions()
func (p *Page) MinScore(min float64) *Page {
	newPage := p.clone()
	if min < 0 || min > 1 {
		newPage.err = fmt.Errorf("min score %v outside [0, 1]", min)
		return newPage
	}
	newPage.options.minScore = min
	return newPage
}

// MarginFactor sets how far each detection reaches for neighbours, as a
// fraction of the square root of its area.
func (p *Page) MarginFactor(factor float64) *Page {
	newPage := p.clone()
	if factor < 0 {
		newPage.err = fmt.Errorf("margin factor %v is negative", factor)
		return newPage
	}
	newPage.options.marginFactor = factor
	return newPage
}

// ReadingOrder sorts regions into reading order for the given direction
// instead of aggregation order. Translation then sees the dialogue in the
// order a reader would.
//
// Example:
//
//	regions, _, err := retypeset.OpenPaddle("page.json").ReadingOrder(cluster.RightToLeft).Regions()
func (p *Page) ReadingOrder(dir cluster.ReadingDirection) *Page {
	newPage := p.clone()
	newPage.options.readingOrder = true
	newPage.options.direction = dir
	return newPage
}

// Family sets the font family used for layout and drawing.
func (p *Page) Family(family string) *Page {
	newPage := p.clone()
	newPage.options.family = family
	return newPage
}

// FontSizes sets the largest and smallest sizes tried for each region.
// A start of 0 starts at the region's inner height; a min of 0 uses the
// engine's floor.
func (p *Page) FontSizes(start, min int) *Page {
	newPage := p.clone()
	newPage.options.startSize = start
	newPage.options.minSize = min
	return newPage
}

// Margin sets the clearance kept inside each region, in pixels.
func (p *Page) Margin(margin float64) *Page {
	newPage := p.clone()
	newPage.options.margin = margin
	return newPage
}

// LineSpacing sets the gap between lines as a percentage of line height.
// Negative values tighten the lines.
func (p *Page) LineSpacing(percent float64) *Page {
	newPage := p.clone()
	newPage.options.lineSpacingPercent = percent
	return newPage
}

// Workers bounds the number of regions laid out concurrently.
func (p *Page) Workers(n int) *Page {
	newPage := p.clone()
	if n > 0 {
		newPage.options.workers = n
	}
	return newPage
}

// Logger sets a logger for per-region traces. Pages are silent by default.
func (p *Page) Logger(l logrus.FieldLogger) *Page {
	newPage := p.clone()
	newPage.options.logger = l
	return newPage
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Detections returns the validated detections that pass the score filter,
// in their original order.
func (p *Page) Detections() ([]model.Detection, error) {
	dets, _, err := p.detections()
	return dets, err
}

func (p *Page) detections() ([]model.Detection, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	all, err := p.src.detections()
	if err != nil {
		return nil, nil, err
	}
	if err := model.ValidateAll(all); err != nil {
		return nil, nil, err
	}

	kept := model.FilterByScore(all, p.options.minScore)

	var warnings []Warning
	if dropped := len(all) - len(kept); dropped > 0 {
		warnings = append(warnings, Warning{
			Region:  NoRegion,
			Message: fmt.Sprintf("%d of %d detections below score %.2f", dropped, len(all), p.options.minScore),
		})
	}
	return kept, warnings, nil
}

// Clusters returns the connected groups of filtered detections as sorted
// index lists into the result of Detections.
func (p *Page) Clusters() ([][]int, error) {
	dets, _, err := p.detections()
	if err != nil {
		return nil, err
	}
	return p.clusterer().Cluster(dets)
}

// Regions clusters the filtered detections and returns one region per
// cluster, ordered by first member unless ReadingOrder was set.
//
// Example:
//
//	regions, warnings, err := retypeset.OpenPaddle("page.json").Regions()
func (p *Page) Regions() ([]model.RegionBox, []Warning, error) {
	dets, warnings, err := p.detections()
	if err != nil {
		return nil, nil, err
	}

	regions, err := p.clusterer().Regions(dets)
	if err != nil {
		return nil, warnings, err
	}
	if p.options.readingOrder {
		regions = cluster.SortReadingOrder(regions, p.options.direction)
	}

	log := p.options.log()
	for _, r := range regions {
		log.WithFields(logrus.Fields{
			"region": r.Cluster,
			"bounds": r.Bounds,
		}).Debugf("region text %q", r.Text)
	}
	return regions, warnings, nil
}

// Translate computes Regions and fills each region's Translated field in
// reading order, passing the dialogue so far to t. A nil hist starts a fresh
// dialogue; pass the same History across pages of a chapter to keep context.
func (p *Page) Translate(ctx context.Context, t translate.Translator, hist *translate.History) ([]model.RegionBox, []Warning, error) {
	regions, warnings, err := p.Regions()
	if err != nil {
		return nil, warnings, err
	}
	if err := translate.Regions(ctx, t, regions, hist); err != nil {
		return nil, warnings, err
	}
	return regions, warnings, nil
}

// Layout fits each region's display text into its bounds. Regions are laid
// out concurrently, bounded by Workers, and results keep the input order.
//
// A layout error affects only its region and is recorded in the result and
// as a warning. Text that overflows at the smallest size is reported as a
// warning. Only cancellation of ctx fails the whole call.
func (p *Page) Layout(ctx context.Context, engine *layout.Engine, regions []model.RegionBox) ([]RegionLayout, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	if engine == nil {
		return nil, nil, ErrNoEngine
	}

	results := make([]RegionLayout, len(regions))
	log := p.options.log()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.workers)

	for i, region := range regions {
		results[i].Region = region
		g.Go(func() error {
			plan, err := engine.FitContext(gctx, p.request(region))
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.WithField("region", region.Cluster).WithError(err).Warn("layout failed")
				results[i].Err = err
				return nil
			}
			log.WithFields(logrus.Fields{
				"region": region.Cluster,
				"size":   plan.Size,
				"lines":  len(plan.Lines),
				"fits":   plan.Fits,
			}).Debug("region laid out")
			results[i].Plan = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, r := range results {
		switch {
		case r.Err != nil:
			warnings = append(warnings, Warning{Region: r.Region.Cluster, Message: r.Err.Error()})
		case !r.Plan.Fits:
			warnings = append(warnings, Warning{
				Region:  r.Region.Cluster,
				Message: fmt.Sprintf("text overflows at size %d", r.Plan.Size),
			})
		}
	}
	return results, warnings, nil
}

// request builds the layout request for a region.
func (p *Page) request(region model.RegionBox) layout.Request {
	o := p.options
	req := layout.Request{
		Width:              region.Bounds.Width(),
		Height:             region.Bounds.Height(),
		Margin:             o.margin,
		Text:               region.DisplayText(),
		Family:             o.family,
		StartSize:          o.startSize,
		MinSize:            o.minSize,
		LineSpacingPercent: o.lineSpacingPercent,
	}
	if req.StartSize <= 0 {
		// No glyph taller than the box can fit.
		req.StartSize = int(req.Height - 2*req.Margin)
	}
	return req
}

// Render erases every laid-out region in img and draws its plan at the
// region's position. Regions without a plan are left untouched; regions
// partly outside img are clipped, not shifted.
func (p *Page) Render(img draw.Image, faces FaceSource, layouts []RegionLayout) error {
	if p.err != nil {
		return p.err
	}

	for _, rl := range layouts {
		if rl.Plan == nil {
			continue
		}
		face, err := faces.Face(layout.FontDescriptor{Family: rl.Plan.Family, Size: rl.Plan.Size})
		if err != nil {
			return fmt.Errorf("region %d: %w", rl.Region.Cluster, err)
		}
		render.Replace(img, rl.Region.Bounds, rl.Plan, face)
	}
	return nil
}

func (p *Page) clusterer() *cluster.Clusterer {
	return cluster.New(cluster.Config{MarginFactor: p.options.marginFactor})
}
