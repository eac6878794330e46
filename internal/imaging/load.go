package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// LoadResult describes a file decoded into a plane.
type LoadResult struct {
	Plane  *Plane
	Format string // "png", "jpeg", "gif", "tiff"
	Is16   bool   // true when the source carried 16-bit samples
}

// LoadPlane decodes an image file into a luminance plane.
//
// PNG, JPEG, GIF and TIFF are supported. 8-bit sources produce values in
// 0-255, 16-bit sources in 0-65535; color images convert through the
// Rec. 601 luma weights.
func LoadPlane(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	plane, is16 := planeFromImage(img)
	return &LoadResult{Plane: plane, Format: format, Is16: is16}, nil
}

// SupportedExt reports whether path has a loadable image extension.
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff":
		return true
	}
	return false
}

func planeFromImage(img image.Image) (*Plane, bool) {
	bounds := img.Bounds()
	p := NewPlane(bounds.Dx(), bounds.Dy())

	is16 := false
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		is16 = true
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit components
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			if !is16 {
				lum /= 257 // back to the native 8-bit range
			}
			p.Set(x-bounds.Min.X, y-bounds.Min.Y, lum)
		}
	}
	return p, is16
}
