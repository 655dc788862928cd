package cluster

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tsawler/retypeset/model"
)

// makeRect creates an axis-aligned detection with the given corner and size
func makeRect(text string, x, y, w, h float64) model.Detection {
	return model.Detection{
		Points: []model.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}},
		Text:   text,
		Score:  1,
	}
}

// randomDetections builds n pseudo-random quads, some rotated, some degenerate
func randomDetections(seed int64, n int) []model.Detection {
	rng := rand.New(rand.NewSource(seed))
	dets := make([]model.Detection, n)
	for i := range dets {
		x := rng.Float64() * 500
		y := rng.Float64() * 500
		w := 5 + rng.Float64()*60
		h := 5 + rng.Float64()*20
		switch i % 7 {
		case 3:
			// skewed quad
			dets[i] = model.Detection{Points: []model.Point{
				{X: x, Y: y}, {X: x + w, Y: y + h/3}, {X: x + w - 4, Y: y + h}, {X: x - 3, Y: y + h - 2},
			}}
		case 5:
			// degenerate: all points collinear
			dets[i] = model.Detection{Points: []model.Point{
				{X: x, Y: y}, {X: x + w, Y: y}, {X: x + 2*w, Y: y}, {X: x + 3*w, Y: y},
			}}
		default:
			dets[i] = makeRect("", x, y, w, h)
		}
	}
	return dets
}

// bruteForce clusters without the sweep, for comparison
func bruteForce(dets []model.Detection, factor float64) [][]int {
	c := New(Config{MarginFactor: factor})
	nodes := c.prepare(dets)
	uf := newUnionFind(len(nodes))
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if adjacent(nodes[i], nodes[j]) {
				uf.union(i, j)
			}
		}
	}
	return uf.components()
}

func TestCluster_Empty(t *testing.T) {
	clusters, err := Cluster(nil, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 0 {
		t.Errorf("Expected 0 clusters, got %d", len(clusters))
	}
}

func TestCluster_UnitSquaresScenario(t *testing.T) {
	dets := []model.Detection{
		makeRect("a", 0, 0, 1, 1),
		makeRect("b", 0.5, 0, 1, 1),
		makeRect("c", 2, 2, 1, 1),
		makeRect("d", 2.5, 2, 1, 1),
	}

	clusters, err := Cluster(dets, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]int{{0, 1}, {2, 3}}
	if !reflect.DeepEqual(clusters, want) {
		t.Errorf("Cluster() = %v, want %v", clusters, want)
	}
}

func TestCluster_MarginBridgesGap(t *testing.T) {
	// 10x10 boxes 1.5 apart: margin 1.0 each at factor 0.1 bridges the gap.
	dets := []model.Detection{
		makeRect("a", 0, 0, 10, 10),
		makeRect("b", 11.5, 0, 10, 10),
	}

	tight, _ := Cluster(dets, 0.05)
	if len(tight) != 2 {
		t.Errorf("factor 0.05: expected 2 clusters, got %d", len(tight))
	}

	loose, _ := Cluster(dets, 0.1)
	if len(loose) != 1 {
		t.Errorf("factor 0.1: expected 1 cluster, got %d", len(loose))
	}
}

func TestCluster_ScaleAware(t *testing.T) {
	// A large title tolerates a bigger gap than two small captions with
	// the same gap.
	big := []model.Detection{
		makeRect("title", 0, 0, 400, 100),
		makeRect("sub", 0, 115, 400, 100),
	}
	small := []model.Detection{
		makeRect("x", 0, 0, 40, 10),
		makeRect("y", 0, 25, 40, 10),
	}

	if got, _ := Cluster(big, 0.1); len(got) != 1 {
		t.Errorf("large boxes: expected 1 cluster, got %d", len(got))
	}
	if got, _ := Cluster(small, 0.1); len(got) != 2 {
		t.Errorf("small boxes: expected 2 clusters, got %d", len(got))
	}
}

func TestCluster_Transitive(t *testing.T) {
	// A touches B, B touches C, A and C are far apart.
	dets := []model.Detection{
		makeRect("A", 0, 0, 10, 10),
		makeRect("B", 0, 10, 10, 10),
		makeRect("C", 0, 20, 10, 10),
	}
	clusters, _ := Cluster(dets, 0)
	if len(clusters) != 1 || len(clusters[0]) != 3 {
		t.Errorf("Expected one cluster of 3, got %v", clusters)
	}
}

func TestCluster_Containment(t *testing.T) {
	dets := []model.Detection{
		makeRect("outer", 0, 0, 100, 100),
		makeRect("inner", 40, 40, 5, 5),
	}
	clusters, _ := Cluster(dets, 0)
	if len(clusters) != 1 {
		t.Errorf("Expected contained box to merge, got %v", clusters)
	}
}

func TestCluster_RotatedQuads(t *testing.T) {
	// Two diamonds whose bounding boxes overlap but whose polygons do not.
	a := model.Detection{Points: []model.Point{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}}}
	b := model.Detection{Points: []model.Point{{X: 13, Y: 8}, {X: 18, Y: 13}, {X: 13, Y: 18}, {X: 8, Y: 13}}}

	clusters, _ := Cluster([]model.Detection{a, b}, 0)
	if len(clusters) != 2 {
		t.Errorf("Expected diamonds to stay apart, got %v", clusters)
	}
}

func TestCluster_DegenerateQuad(t *testing.T) {
	line := model.Detection{Points: []model.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 15, Y: 0}}}
	point := model.Detection{Points: []model.Point{{X: 50, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 50}}}
	box := makeRect("box", 0, 1, 10, 10)

	clusters, err := Cluster([]model.Detection{line, point, box}, 0.1)
	if err != nil {
		t.Fatalf("degenerate quads must not fail: %v", err)
	}
	// The box's margin (1.0) reaches the line one unit above it.
	want := [][]int{{0, 2}, {1}}
	if !reflect.DeepEqual(clusters, want) {
		t.Errorf("Cluster() = %v, want %v", clusters, want)
	}
}

func TestCluster_MalformedRejected(t *testing.T) {
	dets := []model.Detection{
		makeRect("ok", 0, 0, 1, 1),
		{Points: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
	}
	clusters, err := Cluster(dets, 0.1)
	if !errors.Is(err, model.ErrMalformedQuad) {
		t.Errorf("Expected ErrMalformedQuad, got %v", err)
	}
	if clusters != nil {
		t.Errorf("Expected no partial clustering, got %v", clusters)
	}
}

func TestCluster_PartitionProperty(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		dets := randomDetections(seed, 60)
		clusters, err := Cluster(dets, 0.1)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		seen := make(map[int]int)
		for _, c := range clusters {
			if len(c) == 0 {
				t.Fatalf("seed %d: empty cluster", seed)
			}
			for _, idx := range c {
				seen[idx]++
			}
		}
		if len(seen) != len(dets) {
			t.Errorf("seed %d: %d indices covered, want %d", seed, len(seen), len(dets))
		}
		for idx, n := range seen {
			if n != 1 {
				t.Errorf("seed %d: index %d appears in %d clusters", seed, idx, n)
			}
		}
	}
}

func TestCluster_MarginMonotonicity(t *testing.T) {
	factors := []float64{0, 0.05, 0.1, 0.2, 0.4, 0.8, 1.6}
	for seed := int64(1); seed <= 10; seed++ {
		dets := randomDetections(seed, 50)
		prev := len(dets) + 1
		for _, f := range factors {
			clusters, _ := Cluster(dets, f)
			if len(clusters) > prev {
				t.Errorf("seed %d: factor %v produced %d clusters, more than %d", seed, f, len(clusters), prev)
			}
			prev = len(clusters)
		}
	}
}

func TestCluster_SweepMatchesBruteForce(t *testing.T) {
	for seed := int64(1); seed <= 15; seed++ {
		dets := randomDetections(seed, 80)
		got, _ := Cluster(dets, 0.15)
		want := bruteForce(dets, 0.15)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("seed %d: sweep %v != brute force %v", seed, got, want)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	dets := randomDetections(42, 70)
	first, _ := Cluster(dets, 0.1)
	for i := 0; i < 5; i++ {
		again, _ := Cluster(dets, 0.1)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
	for i, c := range first {
		if i > 0 && c[0] <= first[i-1][0] {
			t.Errorf("clusters not ordered by smallest member: %v", first)
		}
	}
}

func TestLabels(t *testing.T) {
	labels := Labels([][]int{{0, 2}, {1}}, 4)
	want := []int{0, 1, 0, -1}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Labels() = %v, want %v", labels, want)
	}
}

func TestQuadDistance(t *testing.T) {
	unit := model.Quad{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tests := []struct {
		name     string
		other    model.Quad
		expected float64
	}{
		{"overlap", model.Quad{{X: 0.5, Y: 0.5}, {X: 2, Y: 0.5}, {X: 2, Y: 2}, {X: 0.5, Y: 2}}, 0},
		{"touching edge", model.Quad{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}}, 0},
		{"gap right", model.Quad{{X: 3, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 3, Y: 1}}, 2},
		{"diagonal", model.Quad{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 6}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quadDistance(unit, tt.other)
			if got < tt.expected-1e-9 || got > tt.expected+1e-9 {
				t.Errorf("quadDistance() = %v, want %v", got, tt.expected)
			}
		})
	}
}
