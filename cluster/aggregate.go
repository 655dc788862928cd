package cluster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/retypeset/model"
)

// Sentinel errors for aggregation.
var (
	// ErrLabelMismatch is returned when labels and detections differ in length.
	ErrLabelMismatch = errors.New("cluster: label count does not match detection count")

	// ErrUnlabelled is returned when a detection carries a negative cluster id.
	ErrUnlabelled = errors.New("cluster: detection has no cluster")
)

// Aggregate builds one RegionBox per distinct label. Boxes are ordered by the
// first detection (in index order) carrying each label, which keeps crop and
// file ordering reproducible across runs.
//
// The bounding box covers all four corners of every member quad and the text
// joins member texts with a single space in increasing detection index.
func Aggregate(dets []model.Detection, labels []int) ([]model.RegionBox, error) {
	if len(labels) != len(dets) {
		return nil, fmt.Errorf("%w: %d labels for %d detections", ErrLabelMismatch, len(labels), len(dets))
	}
	if err := model.ValidateAll(dets); err != nil {
		return nil, err
	}

	slot := make(map[int]int)
	var boxes []model.RegionBox
	var texts [][]string

	for i, d := range dets {
		label := labels[i]
		if label < 0 {
			return nil, fmt.Errorf("detection %d: %w", i, ErrUnlabelled)
		}

		bounds := model.BBoxOf(d.Points...)
		s, ok := slot[label]
		if !ok {
			s = len(boxes)
			slot[label] = s
			boxes = append(boxes, model.RegionBox{Cluster: label, Bounds: bounds})
			texts = append(texts, nil)
		} else {
			boxes[s].Bounds = boxes[s].Bounds.Union(bounds)
		}
		texts[s] = append(texts[s], d.Text)
	}

	for s := range boxes {
		boxes[s].Text = strings.Join(texts[s], " ")
	}
	return boxes, nil
}

// Regions clusters the detections and aggregates the result in one call.
func (c *Clusterer) Regions(dets []model.Detection) ([]model.RegionBox, error) {
	clusters, err := c.Cluster(dets)
	if err != nil {
		return nil, err
	}
	return Aggregate(dets, Labels(clusters, len(dets)))
}
