package ocr

import (
	"image"
	"strings"

	"github.com/tsawler/retypeset/model"
)

// boxDetection converts an axis-aligned engine box into a detection with
// corners in clockwise order from the top-left. Confidence is on a 0-100
// scale.
func boxDetection(r image.Rectangle, text string, confidence float64) model.Detection {
	r = r.Canon()
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X), float64(r.Max.Y)

	score := confidence / 100
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	return model.Detection{
		Points: []model.Point{
			{X: minX, Y: minY},
			{X: maxX, Y: minY},
			{X: maxX, Y: maxY},
			{X: minX, Y: maxY},
		},
		Text:  strings.TrimSpace(text),
		Score: score,
	}
}
