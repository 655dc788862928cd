package ocr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/retypeset/model"
)

// ErrMalformedResult is returned when a PaddleOCR result cannot be turned
// into detections.
var ErrMalformedResult = errors.New("ocr: malformed PaddleOCR result")

// PaddleResult is one page of PaddleOCR predict output as written by
// save_to_json. Unrelated keys are ignored.
type PaddleResult struct {
	Texts  []string      `json:"rec_texts"`
	Polys  [][][]float64 `json:"rec_polys"`
	Scores []float64     `json:"rec_scores"`
}

// Detections converts the page into detections in recognition order.
func (r *PaddleResult) Detections() ([]model.Detection, error) {
	if len(r.Polys) != len(r.Texts) || len(r.Scores) != len(r.Texts) {
		return nil, fmt.Errorf("%w: %d texts, %d polygons, %d scores",
			ErrMalformedResult, len(r.Texts), len(r.Polys), len(r.Scores))
	}

	dets := make([]model.Detection, len(r.Texts))
	for i, poly := range r.Polys {
		if len(poly) != 4 {
			return nil, fmt.Errorf("line %d: %w: got %d", i, model.ErrMalformedQuad, len(poly))
		}
		points := make([]model.Point, 4)
		for j, p := range poly {
			if len(p) < 2 {
				return nil, fmt.Errorf("%w: line %d point %d has %d coordinates", ErrMalformedResult, i, j, len(p))
			}
			points[j] = model.Point{X: p[0], Y: p[1]}
		}
		dets[i] = model.Detection{
			Points: points,
			Text:   r.Texts[i],
			Score:  r.Scores[i],
		}
	}
	return dets, nil
}

// DecodePaddlePages reads PaddleOCR JSON holding either a single page
// object or a list of pages.
func DecodePaddlePages(r io.Reader) ([][]model.Detection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ocr: reading result: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedResult)
	}

	var pages []PaddleResult
	if data[0] == '[' {
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
	} else {
		var page PaddleResult
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
		pages = []PaddleResult{page}
	}

	out := make([][]model.Detection, len(pages))
	for i := range pages {
		dets, err := pages[i].Detections()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		out[i] = dets
	}
	return out, nil
}

// DecodePaddle reads PaddleOCR JSON and returns the detections of the first
// page. A list with no pages yields no detections.
func DecodePaddle(r io.Reader) ([]model.Detection, error) {
	pages, err := DecodePaddlePages(r)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return pages[0], nil
}

// NewPaddleResult converts detections back into the PaddleOCR page shape.
func NewPaddleResult(dets []model.Detection) PaddleResult {
	r := PaddleResult{
		Texts:  make([]string, len(dets)),
		Polys:  make([][][]float64, len(dets)),
		Scores: make([]float64, len(dets)),
	}
	for i, d := range dets {
		r.Texts[i] = d.Text
		r.Scores[i] = d.Score
		poly := make([][]float64, len(d.Points))
		for j, p := range d.Points {
			poly[j] = []float64{p.X, p.Y}
		}
		r.Polys[i] = poly
	}
	return r
}

// EncodePaddle writes detections as a single-page PaddleOCR JSON object,
// readable by DecodePaddle.
func EncodePaddle(w io.Writer, dets []model.Detection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPaddleResult(dets)); err != nil {
		return fmt.Errorf("ocr: encoding result: %w", err)
	}
	return nil
}
