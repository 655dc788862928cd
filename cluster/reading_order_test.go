package cluster

import (
	"testing"

	"github.com/tsawler/retypeset/model"
)

func region(id int, minX, minY, maxX, maxY float64) model.RegionBox {
	return model.RegionBox{Cluster: id, Bounds: model.BBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}}
}

func clusterIDs(regions []model.RegionBox) []int {
	ids := make([]int, len(regions))
	for i, r := range regions {
		ids[i] = r.Cluster
	}
	return ids
}

func TestSortReadingOrder(t *testing.T) {
	// Two balloons side by side at the top (slightly offset), one below
	regions := []model.RegionBox{
		region(0, 10, 300, 100, 350),
		region(1, 200, 12, 300, 60),
		region(2, 10, 10, 100, 58),
	}

	tests := []struct {
		dir  ReadingDirection
		want []int
	}{
		{LeftToRight, []int{2, 1, 0}},
		{RightToLeft, []int{1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			got := clusterIDs(SortReadingOrder(regions, tt.dir))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected order %v, got %v", tt.want, got)
				}
			}
		})
	}

	// Input is not modified
	if regions[0].Cluster != 0 || regions[2].Cluster != 2 {
		t.Errorf("input slice was reordered: %v", clusterIDs(regions))
	}
}

func TestSortReadingOrderSmallOverlap(t *testing.T) {
	// The second box only grazes the first one's band, so it starts a new row
	regions := []model.RegionBox{
		region(0, 200, 0, 300, 40),
		region(1, 0, 35, 100, 75),
	}

	got := clusterIDs(SortReadingOrder(regions, LeftToRight))
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("expected [0 1], got %v", got)
	}
}

func TestSortReadingOrderTrivial(t *testing.T) {
	if got := SortReadingOrder(nil, LeftToRight); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	one := []model.RegionBox{region(5, 0, 0, 1, 1)}
	if got := SortReadingOrder(one, RightToLeft); len(got) != 1 || got[0].Cluster != 5 {
		t.Errorf("expected single region unchanged, got %v", got)
	}
}
