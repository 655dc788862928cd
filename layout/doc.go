// Package layout fits arbitrary text into a fixed rectangle by choosing the
// largest font size and line breaks for which the text does not overflow.
//
// The engine does not render or load fonts itself. It measures candidate
// strings through the [Metrics] interface, which a font backend implements
// (see package font):
//
//	engine := layout.NewEngine(provider)
//	plan, err := engine.Fit(layout.Request{
//	    Width: 200, Height: 100, Margin: 5,
//	    Text:   "HELLO WORLD",
//	    Family: "Komika",
//	    StartSize: 40, MinSize: 8,
//	    LineSpacingPercent: -20,
//	})
//
// # Size Descent
//
// Sizes are tried one at a time from StartSize down to MinSize. At each size
// the text is word-wrapped to the available width, the block height is
// computed from the line height and spacing, and the first size whose block
// fits both dimensions is accepted. Hard line breaks always start a new line.
// A word too wide for a line on its own is split into character chunks.
//
// If nothing fits, the plan at the smallest size is returned with
// [Plan.Fits] false. Overflow is then possible and is not an error.
//
// # Positioning
//
// The block is centered vertically in the rectangle minus margins, and each
// line is centered horizontally on its own. A rasterizer draws line i at
// (Lines[i].X - Lines[i].Bearing, Lines[i].Y + Ascent) and advances
// BaseHeight + Spacing per line.
package layout
