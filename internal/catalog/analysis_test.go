package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LLNL/bioimage-agent/internal/imaging"
)

func TestScreenshot(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 16, 12)

	result := exec(t, r, v, "screenshot").(*imaging.ScreenshotResult)
	if result.Width != 16 || result.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 16x12", result.Width, result.Height)
	}
	if result.MimeType != "image/png" || result.ImageBase64 == "" {
		t.Errorf("payload: mime %q, %d bytes of base64", result.MimeType, len(result.ImageBase64))
	}
}

func TestScreenshotEmptyViewer(t *testing.T) {
	r, v := testViewer()
	result := exec(t, r, v, "screenshot").(*imaging.ScreenshotResult)
	if result.Width != 256 || result.Height != 256 {
		t.Errorf("empty viewer screenshot: got %dx%d, want 256x256", result.Width, result.Height)
	}
}

func TestExportScreenshot(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 8, 8)

	path := filepath.Join(t.TempDir(), "view") // extension omitted on purpose
	result := exec(t, r, v, "export_screenshot", path).(map[string]any)
	saved := result["path"].(string)
	if filepath.Ext(saved) != ".png" {
		t.Errorf("default extension: got %q", saved)
	}
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestCropLayer(t *testing.T) {
	r, v := testViewer()
	l := addTestImage(v, "cells", 10, 10)

	exec(t, r, v, "crop_layer", "cells", []any{2.0, 3.0, 8.0, 9.0})
	if l.Image.Width() != 6 || l.Image.Height() != 6 {
		t.Errorf("cropped size: got %dx%d, want 6x6", l.Image.Width(), l.Image.Height())
	}

	t.Run("bad bounds", func(t *testing.T) {
		tagged := execErr(t, r, v, "crop_layer", "cells", []any{0.0, 0.0, 99.0, 99.0})
		if tagged.Kind != KindValidation {
			t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
		}
	})
	t.Run("wrong arity", func(t *testing.T) {
		tagged := execErr(t, r, v, "crop_layer", "cells", []any{0.0, 0.0, 5.0})
		if tagged.Kind != KindValidation {
			t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
		}
	})
}

func TestMeasureDistanceCommand(t *testing.T) {
	r, v := testViewer()

	result := exec(t, r, v, "measure_distance", []any{0.0, 0.0}, []any{3.0, 4.0}).(*imaging.DistanceResult)
	if result.Distance != 5 {
		t.Errorf("distance: got %v, want 5", result.Distance)
	}

	tagged := execErr(t, r, v, "measure_distance", []any{0.0, 0.0}, []any{1.0, 2.0, 3.0})
	if tagged.Kind != KindValidation {
		t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
	}
}

func TestGetLayerStatistics(t *testing.T) {
	r, v := testViewer()
	addTestImage(v, "cells", 4, 4) // values 0..15

	result := exec(t, r, v, "get_layer_statistics", "cells").(map[string]any)
	if result["min"] != 0.0 || result["max"] != 15.0 {
		t.Errorf("min/max: got %v/%v", result["min"], result["max"])
	}
	if result["mean"] != 7.5 {
		t.Errorf("mean: got %v, want 7.5", result["mean"])
	}
	if result["layer"] != "cells" {
		t.Errorf("layer: got %v", result["layer"])
	}

	t.Run("points layer rejected", func(t *testing.T) {
		exec(t, r, v, "add_points", []any{[]any{1.0, 2.0}}, nil, "spots")
		tagged := execErr(t, r, v, "get_layer_statistics", "spots")
		if tagged.Kind != KindValidation {
			t.Errorf("kind: got %s, want %s", tagged.Kind, KindValidation)
		}
	})
}
