package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/retypeset/model"
)

// ErrEmptyRegion is returned when a region does not overlap the image.
var ErrEmptyRegion = errors.New("render: region is empty")

// Load decodes the image at path. See Decode for maxSide.
func Load(path string, maxSide int) (*image.RGBA, float64, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, fmt.Errorf("render: open image: %w", err)
	}
	defer f.Close()

	return Decode(f, maxSide)
}

// Decode reads a PNG, JPEG, GIF or WebP image into a drawable RGBA image.
// When maxSide is positive and the image is larger, it is downscaled so that
// neither side exceeds maxSide. The returned factor is original width / new width, and
// 1.0 when the image was not resized.
func Decode(r io.Reader, maxSide int) (*image.RGBA, float64, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("render: decode image: %w", err)
	}

	if maxSide <= 0 {
		return toRGBA(src), 1.0, nil
	}
	img, factor := Resize(src, maxSide)
	return img, factor, nil
}

// Resize scales img down with Catmull-Rom resampling so that its longer side
// is at most maxSide. Images already small enough are copied unchanged.
func Resize(img image.Image, maxSide int) (*image.RGBA, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || w == 0 || h == 0 {
		return toRGBA(img), 1.0
	}

	scale := min(float64(maxSide)/float64(w), float64(maxSide)/float64(h), 1.0)
	if scale == 1.0 {
		return toRGBA(img), 1.0
	}

	nw := max(int(float64(w)*scale), 1)
	nh := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, float64(w) / float64(nw)
}

// Rect converts region bounds to pixel coordinates by truncation, clipped
// to the image bounds.
func Rect(bounds model.BBox, within image.Rectangle) image.Rectangle {
	r := image.Rect(int(bounds.MinX), int(bounds.MinY), int(bounds.MaxX), int(bounds.MaxY))
	return r.Intersect(within)
}

// Crop copies the part of img inside bounds into a new image whose origin is
// (0, 0).
func Crop(img image.Image, bounds model.BBox) (*image.RGBA, error) {
	r := Rect(bounds, img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst, nil
}

// SavePNG writes img as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("render: create file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: encode PNG: %w", err)
	}
	return f.Close()
}

// CropName returns the file name used for the crop of region i.
func CropName(i int) string {
	return fmt.Sprintf("cluster_%d.png", i)
}

// SaveCrops writes one PNG per region into dir, named by CropName in region
// order, and returns the written paths.
func SaveCrops(dir string, img image.Image, regions []model.RegionBox) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}

	paths := make([]string, 0, len(regions))
	for i, region := range regions {
		crop, err := Crop(img, region.Bounds)
		if err != nil {
			return paths, fmt.Errorf("region %d: %w", i, err)
		}
		path := filepath.Join(dir, CropName(i))
		if err := SavePNG(path, crop); err != nil {
			return paths, fmt.Errorf("region %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Copy(dst, b.Min, img, b, xdraw.Src, nil)
	return dst
}
