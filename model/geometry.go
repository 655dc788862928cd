package model

import "math"

// Point represents a 2D point in image pixel coordinates (Y grows downward).
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Cross returns the z component of the cross product of p and other
// treated as vectors.
func (p Point) Cross(other Point) float64 {
	return p.X*other.Y - p.Y*other.X
}

// Dot returns the dot product of p and other treated as vectors.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// BBox represents an axis-aligned bounding box.
type BBox struct {
	MinX float64 // Left
	MinY float64 // Top (image coordinate system)
	MaxX float64 // Right
	MaxY float64 // Bottom
}

// NewBBox creates a bounding box from its corner coordinates, normalizing
// swapped edges.
func NewBBox(minX, minY, maxX, maxY float64) BBox {
	return BBox{
		MinX: math.Min(minX, maxX),
		MinY: math.Min(minY, maxY),
		MaxX: math.Max(minX, maxX),
		MaxY: math.Max(minY, maxY),
	}
}

// BBoxOf returns the smallest box enclosing all points.
// It returns the zero box when points is empty.
func BBoxOf(points ...Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.MinX + b.MaxX) / 2,
		Y: (b.MinY + b.MaxY) / 2,
	}
}

// Contains checks if a point is inside the bounding box (edges included)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}

// Intersects checks if two bounding boxes intersect. Touching edges count.
func (b BBox) Intersects(other BBox) bool {
	return !(b.MaxX < other.MinX ||
		b.MinX > other.MaxX ||
		b.MaxY < other.MinY ||
		b.MinY > other.MaxY)
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
	}
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Quad is a four-point polygon as produced by text detectors. It is not
// necessarily axis-aligned or convex.
type Quad [4]Point

// Area returns the unsigned planar area using the shoelace formula.
// Degenerate quads (collinear or repeated points) have area 0.
func (q Quad) Area() float64 {
	var sum float64
	for i := range q {
		j := (i + 1) % len(q)
		sum += q[i].Cross(q[j])
	}
	return math.Abs(sum) / 2
}

// Bounds returns the axis-aligned box enclosing all four corners.
func (q Quad) Bounds() BBox {
	return BBoxOf(q[:]...)
}
