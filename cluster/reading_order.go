package cluster

import (
	"sort"

	"github.com/tsawler/retypeset/model"
)

// ReadingDirection indicates the horizontal reading direction of a page.
type ReadingDirection int

const (
	// LeftToRight is the default for most Western comics
	LeftToRight ReadingDirection = iota
	// RightToLeft is used for manga
	RightToLeft
)

// String returns a string representation of the reading direction
func (d ReadingDirection) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// rowOverlap is the share of the shorter box height two regions must overlap
// vertically to be read as the same row.
const rowOverlap = 0.5

// SortReadingOrder returns a copy of regions ordered as a reader would meet
// them: rows from top to bottom, and within a row by horizontal position in
// the given direction. A region joins the current row when it overlaps the
// row's vertical band by more than half of the shorter height.
//
// Cluster ids are kept, so the result can still be matched to crops named by
// aggregation order.
func SortReadingOrder(regions []model.RegionBox, dir ReadingDirection) []model.RegionBox {
	out := append([]model.RegionBox(nil), regions...)
	if len(out) <= 1 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bounds.MinY < out[j].Bounds.MinY
	})

	var rows [][]model.RegionBox
	var bandMin, bandMax float64
	for _, r := range out {
		if len(rows) > 0 && sameRow(bandMin, bandMax, r.Bounds) {
			last := len(rows) - 1
			rows[last] = append(rows[last], r)
			bandMax = max(bandMax, r.Bounds.MaxY)
			continue
		}
		rows = append(rows, []model.RegionBox{r})
		bandMin, bandMax = r.Bounds.MinY, r.Bounds.MaxY
	}

	out = out[:0]
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			if dir == RightToLeft {
				return row[i].Bounds.MaxX > row[j].Bounds.MaxX
			}
			return row[i].Bounds.MinX < row[j].Bounds.MinX
		})
		out = append(out, row...)
	}
	return out
}

// sameRow reports whether b overlaps the band [bandMin, bandMax] enough to
// share its row.
func sameRow(bandMin, bandMax float64, b model.BBox) bool {
	overlap := min(bandMax, b.MaxY) - max(bandMin, b.MinY)
	minHeight := min(bandMax-bandMin, b.Height())
	if minHeight <= 0 {
		return overlap >= 0
	}
	return overlap > minHeight*rowOverlap
}
