package imaging

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// SavePlane writes a single intensity plane to disk as 16-bit grayscale.
// TIFF is used for .tif/.tiff paths, PNG otherwise.
func SavePlane(p *Plane, path string) error {
	_, hi := p.MinMax()
	scale := 1.0
	if hi <= 255 {
		scale = 257 // spread 8-bit values across the 16-bit range
	}

	gray := image.NewGray16(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			v := p.At(x, y) * scale
			if v < 0 {
				v = 0
			}
			if v > 65535 {
				v = 65535
			}
			i := gray.PixOffset(x, y)
			gray.Pix[i] = uint8(uint16(v) >> 8)
			gray.Pix[i+1] = uint8(uint16(v))
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := tiff.Encode(f, gray, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("encode tiff %s: %w", path, err)
		}
		return nil
	default:
		if err := imaging.Save(gray, path); err != nil {
			return fmt.Errorf("save plane %s: %w", path, err)
		}
		return nil
	}
}

// SaveJSON writes v as indented JSON, the storage format for non-image
// layers (points, shapes, surfaces, vectors).
func SaveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
