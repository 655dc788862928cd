package font

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/retypeset/layout"
)

// Built-in family names registered by NewDefaultProvider.
const (
	FamilyGoRegular = "Go"
	FamilyGoBold    = "Go Bold"
)

// ErrInvalidFont is returned when font data cannot be parsed.
var ErrInvalidFont = errors.New("font: invalid font data")

// Option configures a Provider.
type Option func(*Provider)

// WithHinting sets the hinting used for new faces (default: none, which
// keeps fractional advances).
func WithHinting(h font.Hinting) Option {
	return func(p *Provider) {
		p.hinting = h
	}
}

// Provider measures text with OpenType/TrueType fonts registered by family
// name. It implements layout.Metrics. Faces are created lazily per size and
// cached; a Provider is safe for concurrent use.
type Provider struct {
	mu      sync.Mutex
	fonts   map[string]*opentype.Font
	faces   map[layout.FontDescriptor]font.Face
	hinting font.Hinting
}

var _ layout.Metrics = (*Provider)(nil)

// NewProvider creates an empty provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		fonts:   make(map[string]*opentype.Font),
		faces:   make(map[layout.FontDescriptor]font.Face),
		hinting: font.HintingNone,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDefaultProvider creates a provider with the Go fonts registered as
// FamilyGoRegular and FamilyGoBold.
func NewDefaultProvider(opts ...Option) *Provider {
	p := NewProvider(opts...)
	// The embedded Go fonts are known-good.
	_ = p.Register(FamilyGoRegular, goregular.TTF)
	_ = p.Register(FamilyGoBold, gobold.TTF)
	return p
}

// Register parses TTF/OTF data and makes it available under family,
// replacing any font previously registered under that name.
func (p *Provider) Register(family string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty data for %q", ErrInvalidFont, family)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidFont, family, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.fonts[family] = f
	for fd, face := range p.faces {
		if fd.Family == family {
			face.Close()
			delete(p.faces, fd)
		}
	}
	return nil
}

// RegisterFile reads a font file and registers it under family.
func (p *Provider) RegisterFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("font: reading %s: %w", path, err)
	}
	return p.Register(family, data)
}

// Families returns the registered family names in sorted order.
func (p *Provider) Families() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.fonts))
	for name := range p.fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Face returns the cached face for fd, creating it if needed. Faces are not
// safe for concurrent use; draw with them from one goroutine at a time.
func (p *Provider) Face(fd layout.FontDescriptor) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.faceLocked(fd)
}

// faceLocked looks up or creates a face. p.mu must be held.
func (p *Provider) faceLocked(fd layout.FontDescriptor) (font.Face, error) {
	if face, ok := p.faces[fd]; ok {
		return face, nil
	}

	f, ok := p.fonts[fd.Family]
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", layout.ErrFontUnavailable, fd.Family)
	}
	if fd.Size <= 0 {
		return nil, fmt.Errorf("%w: size %d", layout.ErrFontUnavailable, fd.Size)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(fd.Size),
		DPI:     72,
		Hinting: p.hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q at %d: %v", layout.ErrFontUnavailable, fd.Family, fd.Size, err)
	}
	p.faces[fd] = face
	return face, nil
}

// Measure implements layout.Metrics. It returns the tight ink box of text;
// whitespace-only strings have zero width.
func (p *Provider) Measure(text string, fd layout.FontDescriptor) (layout.Extent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	face, err := p.faceLocked(fd)
	if err != nil {
		return layout.Extent{}, err
	}
	if text == "" {
		return layout.Extent{}, nil
	}

	bounds, _ := font.BoundString(face, text)
	return layout.Extent{
		Width:   fixedToFloat64(bounds.Max.X - bounds.Min.X),
		Height:  fixedToFloat64(bounds.Max.Y - bounds.Min.Y),
		Bearing: fixedToFloat64(bounds.Min.X),
		Ascent:  fixedToFloat64(-bounds.Min.Y),
	}, nil
}

// Advance returns the pen advance of text, including trailing whitespace.
func (p *Provider) Advance(text string, fd layout.FontDescriptor) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	face, err := p.faceLocked(fd)
	if err != nil {
		return 0, err
	}
	return fixedToFloat64(font.MeasureString(face, text)), nil
}

// LineMetrics implements layout.Metrics.
func (p *Provider) LineMetrics(fd layout.FontDescriptor) (float64, float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	face, err := p.faceLocked(fd)
	if err != nil {
		return 0, 0, err
	}

	m := face.Metrics()
	if m.Ascent == 0 && m.Descent == 0 {
		return 0, 0, layout.ErrNoLineMetrics
	}
	// x/image reports Descent as a positive distance below the baseline.
	return fixedToFloat64(m.Ascent), fixedToFloat64(m.Descent), nil
}

// Close releases every cached face. The provider stays usable; faces are
// recreated on demand.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for fd, face := range p.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.faces, fd)
	}
	return errors.Join(errs...)
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
