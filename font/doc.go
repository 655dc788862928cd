// Package font measures text with real OpenType and TrueType fonts for the
// layout engine.
//
// A [Provider] holds parsed fonts by family name and creates sized faces on
// demand through golang.org/x/image/font/opentype. It implements
// layout.Metrics:
//
//	p := font.NewProvider()
//	if err := p.RegisterFile("Komika", "fonts/komika.ttf"); err != nil {
//	    return err
//	}
//	engine := layout.NewEngine(p)
//
// [NewDefaultProvider] registers the Go fonts so a provider works without
// any font files on disk.
//
// # Measurement
//
// Measure returns the ink bounds of a string at 72 DPI, so one point equals
// one pixel. Width and Height come from the tight glyph box, and Bearing is
// the left side offset of the ink from the pen origin. LineMetrics reports
// the face ascent and descent.
//
// Unknown families and sizes that cannot produce a face are reported as
// layout.ErrFontUnavailable, which the engine treats as "skip this size".
package font
