package model

import (
	"errors"
	"fmt"
)

// ErrMalformedQuad is returned when a detection does not carry exactly four points.
var ErrMalformedQuad = errors.New("model: detection polygon must have exactly 4 points")

// DefaultMinScore is the recognition confidence below which detections are
// usually discarded before clustering.
const DefaultMinScore = 0.5

// Detection is one OCR-recognized string with its location and confidence.
// A detection is identified by its index in the slice it was produced in.
type Detection struct {
	// Points is the detected polygon. Valid detections have exactly 4 points.
	Points []Point `json:"points"`

	// Text is the recognized string
	Text string `json:"text"`

	// Score is the recognition confidence in [0,1]
	Score float64 `json:"score"`
}

// Validate reports ErrMalformedQuad if the detection is not a quadrilateral.
func (d Detection) Validate() error {
	if len(d.Points) != 4 {
		return fmt.Errorf("%w: got %d", ErrMalformedQuad, len(d.Points))
	}
	return nil
}

// Quad returns the detection polygon as a Quad.
// The detection must be valid.
func (d Detection) Quad() Quad {
	var q Quad
	copy(q[:], d.Points)
	return q
}

// ValidateAll checks every detection and reports the first malformed one
// together with its index.
func ValidateAll(dets []Detection) error {
	for i, d := range dets {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("detection %d: %w", i, err)
		}
	}
	return nil
}

// FilterByScore returns the detections whose score is at least minScore,
// preserving their relative order. Indices in the result refer to the
// returned slice, not the input.
func FilterByScore(dets []Detection, minScore float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Score >= minScore {
			out = append(out, d)
		}
	}
	return out
}

// RegionBox is the axis-aligned box and concatenated text of one cluster.
type RegionBox struct {
	// Cluster is the id of the cluster this box was built from
	Cluster int `json:"cluster"`

	// Bounds encloses every corner of every member detection
	Bounds BBox `json:"bounds"`

	// Text is the member texts joined by a single space, in detection order
	Text string `json:"text"`

	// Translated is attached downstream once the text has been translated
	Translated string `json:"translated,omitempty"`
}

// DisplayText returns the translated text when present, otherwise the source text.
func (r RegionBox) DisplayText() string {
	if r.Translated != "" {
		return r.Translated
	}
	return r.Text
}

// Scaled returns a copy of the detection with every coordinate multiplied
// by factor, for mapping between a resized image and the original.
func (d Detection) Scaled(factor float64) Detection {
	points := make([]Point, len(d.Points))
	for i, p := range d.Points {
		points[i] = Point{X: p.X * factor, Y: p.Y * factor}
	}
	d.Points = points
	return d
}
