// Package retypeset replaces the lettering of a page image with new text.
//
// A page starts from OCR detections. Detections are filtered by confidence,
// grouped into regions (speech balloons, captions) by proximity, optionally
// translated, and finally laid out so that each region's text fills its box
// at the largest size that fits.
//
// Basic usage:
//
//	regions, warnings, err := retypeset.OpenPaddle("page.json").Regions()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", retypeset.FormatWarnings(warnings))
//	}
//
// With options:
//
//	page := retypeset.OpenPaddle("page.json").
//	    MinScore(0.7).
//	    MarginFactor(0.1).
//	    Family("Komika").
//	    LineSpacing(-20)
//	regions, _, err := page.Translate(ctx, translator, nil)
//	layouts, _, err := page.Layout(ctx, engine, regions)
//	err = page.Render(img, provider, layouts)
//
// The lower-level packages cluster, layout, font, ocr, render and translate
// can be used on their own.
package retypeset

import (
	"github.com/tsawler/retypeset/model"
)

// OpenPaddle returns a Page reading PaddleOCR JSON from path. The file is
// read by the first terminal operation.
//
// Example:
//
//	regions, _, err := retypeset.OpenPaddle("page.json").Regions()
func OpenPaddle(path string) *Page {
	return &Page{
		src:     &source{path: path},
		options: defaultOptions(),
	}
}

// FromDetections returns a Page over detections produced elsewhere, for
// example by ocr.Client.Detect. The slice is copied.
func FromDetections(dets []model.Detection) *Page {
	return &Page{
		src:     loadedSource(append([]model.Detection(nil), dets...)),
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	clusters := retypeset.Must(retypeset.OpenPaddle("page.json").Clusters())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRegions is a helper that wraps a call to Regions() or Translate() and
// panics if the error is non-nil. It discards warnings.
//
// Example:
//
//	regions := retypeset.MustRegions(retypeset.OpenPaddle("page.json").Regions())
func MustRegions(val []model.RegionBox, _ []Warning, err error) []model.RegionBox {
	if err != nil {
		panic(err)
	}
	return val
}
