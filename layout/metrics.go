package layout

import "errors"

// Sentinel errors for the layout package.
var (
	// ErrFontUnavailable is returned by a Metrics implementation when the font
	// cannot be loaded at the requested size. The engine skips that size.
	ErrFontUnavailable = errors.New("layout: font unavailable at size")

	// ErrNoLineMetrics is returned by LineMetrics when the font does not
	// expose ascent/descent. The engine falls back to a reference glyph pair.
	ErrNoLineMetrics = errors.New("layout: line metrics unavailable")

	// ErrNoLoadableFont is returned when no size in the requested range loads.
	ErrNoLoadableFont = errors.New("layout: no font size in range could be loaded")

	// ErrNoMetrics is returned when the engine has no metrics provider.
	ErrNoMetrics = errors.New("layout: no metrics provider")
)

// FontDescriptor identifies a font family at an integer pixel size.
type FontDescriptor struct {
	Family string
	Size   int
}

// Extent is the tight ink box of a measured string.
type Extent struct {
	// Width is the horizontal ink extent in pixels
	Width float64

	// Height is the vertical ink extent in pixels
	Height float64

	// Bearing is the distance from the pen origin to the left edge of the ink
	Bearing float64

	// Ascent is the distance from the baseline up to the top of the ink
	Ascent float64
}

// Metrics measures strings for a font descriptor. Implementations must be
// deterministic for identical inputs; the engine may call them many times
// per layout.
type Metrics interface {
	// Measure returns the tight ink box of text rendered with fd.
	Measure(text string, fd FontDescriptor) (Extent, error)

	// LineMetrics returns the font's ascent and descent (both positive) at fd.
	LineMetrics(fd FontDescriptor) (ascent, descent float64, err error)
}

// memoKey identifies one measurement within a single layout call
type memoKey struct {
	size int
	text string
}

// memo caches measurements for the duration of one Fit call.
type memo struct {
	metrics Metrics
	family  string
	cache   map[memoKey]Extent
}

func newMemo(metrics Metrics, family string) *memo {
	return &memo{
		metrics: metrics,
		family:  family,
		cache:   make(map[memoKey]Extent),
	}
}

// measure returns the extent of text at size. The empty string measures zero.
func (m *memo) measure(text string, size int) (Extent, error) {
	if text == "" {
		return Extent{}, nil
	}
	key := memoKey{size: size, text: text}
	if ext, ok := m.cache[key]; ok {
		return ext, nil
	}
	ext, err := m.metrics.Measure(text, FontDescriptor{Family: m.family, Size: size})
	if err != nil {
		return Extent{}, err
	}
	m.cache[key] = ext
	return ext, nil
}

// width is a convenience wrapper around measure
func (m *memo) width(text string, size int) (float64, error) {
	ext, err := m.measure(text, size)
	return ext.Width, err
}
