// Package cluster groups OCR detections into semantic text regions and
// aggregates each group into a single bounding box with its text.
package cluster

import (
	"math"
	"sort"

	"github.com/tsawler/retypeset/model"
)

// DefaultMarginFactor is the expansion ratio used when none is configured.
const DefaultMarginFactor = 0.1

// Config holds configuration for region clustering
type Config struct {
	// MarginFactor scales each detection's expansion margin:
	// margin = sqrt(area) * MarginFactor (default: 0.1)
	MarginFactor float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MarginFactor: DefaultMarginFactor,
	}
}

// Clusterer partitions detections into connected components of the
// "expanded polygons intersect" graph.
type Clusterer struct {
	config Config
}

// New creates a clusterer with the given configuration.
func New(config Config) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster is shorthand for New(Config{MarginFactor: marginFactor}).Cluster(dets).
func Cluster(dets []model.Detection, marginFactor float64) ([][]int, error) {
	return New(Config{MarginFactor: marginFactor}).Cluster(dets)
}

// node is one detection prepared for adjacency testing
type node struct {
	quad     model.Quad
	margin   float64
	expanded model.BBox
}

// Cluster returns the clusters of detection indices. Every index appears in
// exactly one cluster. Clusters are ordered by their smallest member and
// members are sorted ascending, so repeated runs over the same input give
// the same ids.
//
// A detection without exactly four points aborts the whole call.
func (c *Clusterer) Cluster(dets []model.Detection) ([][]int, error) {
	if err := model.ValidateAll(dets); err != nil {
		return nil, err
	}
	if len(dets) == 0 {
		return nil, nil
	}

	nodes := c.prepare(dets)
	uf := newUnionFind(len(nodes))

	// Sweep over expanded boxes sorted by left edge. Pairs whose expanded
	// boxes are disjoint cannot have intersecting expanded polygons.
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]].expanded.MinX < nodes[order[b]].expanded.MinX
	})

	for oi, i := range order {
		for _, j := range order[oi+1:] {
			if nodes[j].expanded.MinX > nodes[i].expanded.MaxX {
				break
			}
			if !nodes[i].expanded.Intersects(nodes[j].expanded) {
				continue
			}
			if adjacent(nodes[i], nodes[j]) {
				uf.union(i, j)
			}
		}
	}

	return uf.components(), nil
}

// prepare computes each detection's margin and expanded bounding box
func (c *Clusterer) prepare(dets []model.Detection) []node {
	nodes := make([]node, len(dets))
	for i, d := range dets {
		q := d.Quad()
		nodes[i] = node{
			quad:     q,
			margin:   expansionMargin(q, c.config.MarginFactor),
			expanded: q.Bounds(),
		}
		nodes[i].expanded = nodes[i].expanded.Expand(nodes[i].margin + eps)
	}
	return nodes
}

// expansionMargin returns sqrt(area) * factor, or 0 for degenerate quads.
func expansionMargin(q model.Quad, factor float64) float64 {
	area := q.Area()
	if area <= 0 || factor <= 0 {
		return 0
	}
	return math.Sqrt(area) * factor
}

// adjacent reports whether the two quads, each grown by its own margin, touch.
func adjacent(a, b node) bool {
	return quadDistance(a.quad, b.quad) <= a.margin+b.margin+eps
}

// Labels converts clusters into a per-detection slice of cluster ids.
// Indices not present in any cluster are labelled -1.
func Labels(clusters [][]int, n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for id, members := range clusters {
		for _, idx := range members {
			if idx >= 0 && idx < n {
				labels[idx] = id
			}
		}
	}
	return labels
}

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// components returns the sets in order of their smallest element, each
// sorted ascending.
func (uf *unionFind) components() [][]int {
	slot := make(map[int]int)
	var out [][]int
	for i := range uf.parent {
		root := uf.find(i)
		s, ok := slot[root]
		if !ok {
			s = len(out)
			slot[root] = s
			out = append(out, nil)
		}
		out[s] = append(out[s], i)
	}
	return out
}
