package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/retypeset/layout"
	"github.com/tsawler/retypeset/model"
)

// LightThreshold is the mean gray level above which a region counts as light.
const LightThreshold = 255.0 / 2

// MeanGray returns the average luminance of img over r, in 0..255.
// An empty rectangle yields 0.
func MeanGray(img image.Image, r image.Rectangle) float64 {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0
	}

	var sum uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			sum += uint64(g.Y)
		}
	}
	return float64(sum) / float64(r.Dx()*r.Dy())
}

// Background returns the erase color for a region of the given mean gray.
func Background(mean float64) color.Color {
	if mean > LightThreshold {
		return color.White
	}
	return color.Black
}

// InkColor returns the text color that contrasts with background.
func InkColor(background color.Color) color.Color {
	g := color.GrayModel.Convert(background).(color.Gray)
	if float64(g.Y) > LightThreshold {
		return color.Black
	}
	return color.White
}

// Erase fills r in dst with a solid color chosen from its mean gray level and
// returns that color.
func Erase(dst draw.Image, r image.Rectangle) color.Color {
	bg := Background(MeanGray(dst, r))
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
	return bg
}

// Draw renders plan into dst with face, offsetting the plan's coordinates by
// (originX, originY). Each line's ink starts at its X; the pen is moved left
// by the line's bearing to get there. Ink outside dst is clipped.
func Draw(dst draw.Image, originX, originY float64, plan *layout.Plan, face font.Face, ink color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
	}

	for _, line := range plan.Lines {
		if line.Text == "" {
			continue
		}
		x := originX + line.X - line.Bearing
		y := originY + line.Y + plan.Ascent
		d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
		d.DrawString(line.Text)
	}
}

// Replace erases the part of bounds that lies in dst and draws plan in the
// contrasting color. The plan must have been fitted to the size of bounds;
// it is positioned at bounds' top-left even when that lies outside dst.
// It returns false when bounds does not overlap dst.
func Replace(dst draw.Image, bounds model.BBox, plan *layout.Plan, face font.Face) bool {
	r := outerRect(bounds, dst.Bounds())
	if r.Empty() {
		return false
	}
	bg := Erase(dst, r)
	Draw(dst, bounds.MinX, bounds.MinY, plan, face, InkColor(bg))
	return true
}

// outerRect is the smallest pixel rectangle covering bounds, clipped to
// within.
func outerRect(bounds model.BBox, within image.Rectangle) image.Rectangle {
	r := image.Rect(
		int(math.Floor(bounds.MinX)), int(math.Floor(bounds.MinY)),
		int(math.Ceil(bounds.MaxX)), int(math.Ceil(bounds.MaxY)),
	)
	return r.Intersect(within)
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
