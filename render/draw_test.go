package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	xfont "golang.org/x/image/font"

	"github.com/tsawler/retypeset/font"
	"github.com/tsawler/retypeset/layout"
	"github.com/tsawler/retypeset/model"
)

// noLineMetrics hides the font's ascent and descent so the engine falls back
// to the reference pair.
type noLineMetrics struct {
	*font.Provider
}

func (noLineMetrics) LineMetrics(layout.FontDescriptor) (float64, float64, error) {
	return 0, 0, layout.ErrNoLineMetrics
}

func isInk(img image.Image, x, y int) bool {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 128
}

// inkBox returns the columns and rows holding ink, or ok false when none do.
func inkBox(img image.Image) (minX, minY, maxX, maxY int, ok bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY = b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isInk(img, x, y) {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	return minX, minY, maxX, maxY, maxX >= minX
}

func fitAndFace(t *testing.T, metrics layout.Metrics, provider *font.Provider, req layout.Request) (*layout.Plan, xfont.Face) {
	t.Helper()
	plan, err := layout.NewEngine(metrics).Fit(req)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	face, err := provider.Face(layout.FontDescriptor{Family: plan.Family, Size: plan.Size})
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	return plan, face
}

// TestMeanGray tests average luminance
func TestMeanGray(t *testing.T) {
	img := solid(10, 10, color.White)
	if g := MeanGray(img, img.Bounds()); g != 255 {
		t.Errorf("expected 255 for white, got %f", g)
	}

	// Left half black
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.Black)
		}
	}
	if g := MeanGray(img, img.Bounds()); g != 127.5 {
		t.Errorf("expected 127.5 for half black, got %f", g)
	}
	if g := MeanGray(img, image.Rect(5, 0, 10, 10)); g != 255 {
		t.Errorf("expected 255 for white half, got %f", g)
	}
	if g := MeanGray(img, image.Rect(20, 20, 30, 30)); g != 0 {
		t.Errorf("expected 0 for empty rect, got %f", g)
	}
}

// TestBackgroundAndInk tests the contrast rule
func TestBackgroundAndInk(t *testing.T) {
	tests := []struct {
		mean   float64
		wantBg color.Color
		wantFg color.Color
	}{
		{255, color.White, color.Black},
		{128, color.White, color.Black},
		{127.5, color.Black, color.White},
		{0, color.Black, color.White},
	}

	for _, tt := range tests {
		bg := Background(tt.mean)
		if bg != tt.wantBg {
			t.Errorf("Background(%f) = %v, expected %v", tt.mean, bg, tt.wantBg)
		}
		if fg := InkColor(bg); fg != tt.wantFg {
			t.Errorf("InkColor(%v) = %v, expected %v", bg, fg, tt.wantFg)
		}
	}
}

// TestErase tests that a region is filled with its background color
func TestErase(t *testing.T) {
	img := solid(40, 40, color.Gray{Y: 40})
	r := image.Rect(10, 10, 20, 20)

	if bg := Erase(img, r); bg != color.Black {
		t.Errorf("expected black background for dark region, got %v", bg)
	}
	if g := MeanGray(img, r); g != 0 {
		t.Errorf("expected erased region to be black, got mean %f", g)
	}
	if g := color.GrayModel.Convert(img.At(5, 5)).(color.Gray).Y; g != 40 {
		t.Errorf("expected pixels outside region untouched, got %d", g)
	}
}

// TestReplace tests erasing and drawing a fitted plan
func TestReplace(t *testing.T) {
	provider := font.NewDefaultProvider()
	defer provider.Close()

	canvas := solid(300, 200, color.Gray{Y: 200})
	r := image.Rect(50, 40, 250, 140)
	bounds := model.BBox{MinX: 50, MinY: 40, MaxX: 250, MaxY: 140}

	plan, err := layout.NewEngine(provider).Fit(layout.Request{
		Width: float64(r.Dx()), Height: float64(r.Dy()), Margin: 4,
		Text:   "HELLO WORLD",
		Family: font.FamilyGoRegular,
		StartSize: 40, MinSize: 8,
	})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	face, err := provider.Face(layout.FontDescriptor{Family: plan.Family, Size: plan.Size})
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}

	if !Replace(canvas, bounds, plan, face) {
		t.Fatal("expected region to be drawn")
	}

	dark := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.GrayModel.Convert(canvas.At(x, y)).(color.Gray).Y < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected black text pixels inside the region")
	}

	// Corners of the region stay background, outside is untouched
	if g := color.GrayModel.Convert(canvas.At(r.Min.X, r.Min.Y)).(color.Gray).Y; g != 255 {
		t.Errorf("expected white region corner, got %d", g)
	}
	if g := color.GrayModel.Convert(canvas.At(10, 10)).(color.Gray).Y; g != 200 {
		t.Errorf("expected pixels outside region untouched, got %d", g)
	}
}

// TestReplaceWithoutLineMetrics tests that descenders stay inside the block
// when the line box comes from the reference pair
func TestReplaceWithoutLineMetrics(t *testing.T) {
	provider := font.NewDefaultProvider()
	defer provider.Close()

	const margin = 2.0
	req := layout.Request{
		Width: 300, Height: 40, Margin: margin,
		Text:   "Ay yA",
		Family: font.FamilyGoRegular,
		StartSize: 60, MinSize: 4,
	}
	plan, face := fitAndFace(t, noLineMetrics{provider}, provider, req)
	if !plan.Fits {
		t.Fatalf("expected plan to fit, got size %d", plan.Size)
	}
	if plan.Ascent >= plan.BaseHeight {
		t.Errorf("expected baseline above the bottom of the line box, ascent %f base %f", plan.Ascent, plan.BaseHeight)
	}

	canvas := solid(300, 40, color.White)
	Replace(canvas, model.BBox{MaxX: 300, MaxY: 40}, plan, face)

	_, minY, _, maxY, ok := inkBox(canvas)
	if !ok {
		t.Fatal("expected text to be drawn")
	}
	if top := int(math.Floor(margin)); minY < top {
		t.Errorf("ink starts at row %d, above the margin at %d", minY, top)
	}
	if bottom := int(math.Ceil(req.Height - margin)); maxY >= bottom {
		t.Errorf("ink reaches row %d, expected rows below %d", maxY, bottom)
	}
}

// TestReplaceClippedRegion tests that a region partly outside the image keeps
// its own centering and only the visible part is erased
func TestReplaceClippedRegion(t *testing.T) {
	provider := font.NewDefaultProvider()
	defer provider.Close()

	bounds := model.BBox{MinX: -20, MinY: 10, MaxX: 80, MaxY: 50}
	plan, face := fitAndFace(t, provider, provider, layout.Request{
		Width: bounds.Width(), Height: bounds.Height(), Margin: 2,
		Text:   "HI",
		Family: font.FamilyGoRegular,
		StartSize: 30, MinSize: 4,
	})

	canvas := solid(100, 100, color.Gray{Y: 200})
	if !Replace(canvas, bounds, plan, face) {
		t.Fatal("expected region to be drawn")
	}

	minX, _, maxX, _, ok := inkBox(canvas)
	if !ok {
		t.Fatal("expected text to be drawn")
	}
	// The region's center is x=30 in image coordinates
	if mid := float64(minX+maxX+1) / 2; math.Abs(mid-30) > 2 {
		t.Errorf("expected ink centered near x=30, got %f (columns %d..%d)", mid, minX, maxX)
	}

	if g := color.GrayModel.Convert(canvas.At(0, 10)).(color.Gray).Y; g != 255 {
		t.Errorf("expected visible part erased, got %d", g)
	}
	if g := color.GrayModel.Convert(canvas.At(85, 30)).(color.Gray).Y; g != 200 {
		t.Errorf("expected pixels right of the region untouched, got %d", g)
	}
}

// TestReplaceOutsideImage tests that a region off the image is skipped
func TestReplaceOutsideImage(t *testing.T) {
	provider := font.NewDefaultProvider()
	defer provider.Close()

	bounds := model.BBox{MinX: 200, MinY: 200, MaxX: 260, MaxY: 230}
	plan, face := fitAndFace(t, provider, provider, layout.Request{
		Width: bounds.Width(), Height: bounds.Height(),
		Text: "HI", Family: font.FamilyGoRegular, StartSize: 20,
	})

	canvas := solid(100, 100, color.Gray{Y: 200})
	if Replace(canvas, bounds, plan, face) {
		t.Error("expected Replace to report no overlap")
	}
	if _, _, _, _, ok := inkBox(canvas); ok {
		t.Error("expected no ink on the canvas")
	}
}
