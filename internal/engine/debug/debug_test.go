package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/scop/internal/raster"
	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

func fixedCapture(dir, format string) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "scop", format)
	sc.now = func() time.Time { return time.Date(2026, 10, 16, 12, 30, 45, 0, time.UTC) }
	return sc
}

func TestGenerateFilename(t *testing.T) {
	sc := fixedCapture("shots", raster.FormatWebP)
	want := filepath.Join("shots", "scop_2026-10-16_12-30-45.000.webp")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename() = %q, want %q", got, want)
	}

	sc.SetOutputDir("")
	if got := sc.GenerateFilename(); strings.Contains(got, string(filepath.Separator)) {
		t.Errorf("expected a bare filename, got %q", got)
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := t.TempDir()
	sc := fixedCapture(filepath.Join(dir, "out"), raster.FormatPNG)

	// 1x2 image: bottom row red, top row blue in GL order
	pixels := []byte{
		255, 0, 0, 0,
		0, 0, 255, 0,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, _, b, a := img.At(0, 0).RGBA()
	if b>>8 != 255 || r != 0 || a>>8 != 255 {
		t.Errorf("expected opaque blue on top, got r=%d b=%d a=%d", r>>8, b>>8, a>>8)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r>>8 != 255 || b != 0 {
		t.Errorf("expected red at the bottom, got r=%d b=%d", r>>8, b>>8)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := fixedCapture(t.TempDir(), raster.FormatPNG)
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureUnknownFormat(t *testing.T) {
	sc := fixedCapture(t.TempDir(), "tiff")
	if _, err := sc.CaptureFromPixels(make([]byte, 4), 1, 1); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestGenerateBBoxWireframeVertices(t *testing.T) {
	lo := math.Vec3[float32]{X: -1, Y: -2, Z: -3}
	hi := math.Vec3[float32]{X: 1, Y: 2, Z: 3}
	color := math.Vec3[float32]{X: 1, Y: 1}

	verts := GenerateBBoxWireframeVertices(hi, lo, 0.5, color)
	if len(verts) != BBoxWireframeVertexCount {
		t.Fatalf("expected %d vertices, got %d", BBoxWireframeVertexCount, len(verts))
	}

	for i, v := range verts {
		p := v.Position
		for _, c := range []float32{p.X / 1.5, p.Y / 2.5, p.Z / 3.5} {
			if c != 1 && c != -1 {
				t.Errorf("vertex %d %v is not a padded corner", i, p)
			}
		}
		if v.Color != color {
			t.Errorf("vertex %d has color %v, want %v", i, v.Color, color)
		}
	}

	// Every edge is axis aligned
	for i := 0; i < len(verts); i += 2 {
		d := verts[i+1].Position.Sub(verts[i].Position)
		nonZero := 0
		for _, c := range []float32{d.X, d.Y, d.Z} {
			if c != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Errorf("edge %d is not axis aligned: %v", i/2, d)
		}
	}
}

func TestModelBBoxWireframe(t *testing.T) {
	model := &formats.Model{Vertices: []formats.Vertex{
		{Position: math.Vec3[float32]{X: -1, Y: 0, Z: 0}},
		{Position: math.Vec3[float32]{X: 1, Y: 2, Z: 0.5}},
	}}
	verts := ModelBBoxWireframe(model, math.Vec3[float32]{X: 1})
	if len(verts) != BBoxWireframeVertexCount {
		t.Fatalf("expected %d vertices, got %d", BBoxWireframeVertexCount, len(verts))
	}
	if got := verts[0].Position; got.X > -1 || got.Y > 0 || got.Z > 0 {
		t.Errorf("first corner %v is not below the model bounds", got)
	}
}
