// Package render handles the raster side of retypesetting: loading and
// downscaling page images, cutting region crops, blanking the original
// lettering and drawing a fitted layout.Plan back into the region.
//
// Colors follow a simple contrast rule. A region whose mean gray level is
// above the midpoint is treated as light: it is erased to white and new text
// is drawn in black. Dark regions are erased to black and drawn in white.
package render
