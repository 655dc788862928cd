// Package model provides the data types shared by the clustering, layout and
// rendering stages.
//
// # Detections
//
// A [Detection] is one OCR-recognized string, its four-point polygon and a
// confidence score. Detections are identified by their index in the slice the
// OCR pass produced; every later stage refers to them that way.
//
//	dets = model.FilterByScore(dets, 0.7)
//	if err := model.ValidateAll(dets); err != nil {
//	    // a polygon without exactly 4 points
//	}
//
// # Regions
//
// A [RegionBox] is the result of aggregating one cluster of detections: an
// axis-aligned [BBox] in source-image pixels plus the member texts joined in
// reading order. Downstream code attaches a translation via Translated.
//
// # Geometry
//
//   - [Point] - 2D point with distance and vector helpers
//   - [Quad] - four-point polygon with shoelace area
//   - [BBox] - axis-aligned box with intersection, union and expansion
package model
