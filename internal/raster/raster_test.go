package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

var background = color.NRGBA{R: 10, G: 20, B: 30, A: 255}

func vertex(x, y, z float32, c math.Vec3[float32]) formats.Vertex {
	return formats.Vertex{
		Position:  math.Vec3[float32]{X: x, Y: y, Z: z},
		Color:     c,
		TexCoords: math.Vec2[float32]{X: (x + 1) / 2, Y: (y + 1) / 2},
	}
}

// quad returns two triangles covering [-1,1]^2 at depth z.
func quad(z float32, c math.Vec3[float32], base uint32) ([]formats.Vertex, []uint32) {
	return []formats.Vertex{
			vertex(-1, -1, z, c),
			vertex(1, -1, z, c),
			vertex(1, 1, z, c),
			vertex(-1, 1, z, c),
		}, []uint32{
			base, base + 1, base + 2,
			base, base + 2, base + 3,
		}
}

func frontOptions(size int) Options {
	opts := DefaultOptions()
	opts.Size = size
	opts.Yaw = 0
	opts.Pitch = 0
	opts.Background = background
	return opts
}

func pixel(img *image.NRGBA, x, y int) color.NRGBA {
	return img.NRGBAAt(x, y)
}

func TestRenderSingleQuad(t *testing.T) {
	red := math.Vec3[float32]{X: 1}
	verts, idx := quad(0, red, 0)
	model := &formats.Model{Vertices: verts, Indices: idx}

	img, err := Render(model, frontOptions(64))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	center := pixel(img, 32, 32)
	if center.R < 100 || center.G != 0 || center.B != 0 {
		t.Errorf("expected shaded red at center, got %v", center)
	}
	if corner := pixel(img, 0, 0); corner != background {
		t.Errorf("expected background in corner, got %v", corner)
	}
}

func TestRenderShadesWorldNormal(t *testing.T) {
	red := math.Vec3[float32]{X: 1}
	verts, idx := quad(0, red, 0)
	model := &formats.Model{Vertices: verts, Indices: idx}

	// Turning the quad away from a head-on light by acos(0.6) leaves 60%.
	opts := frontOptions(64)
	opts.Yaw = float32(gomath.Acos(0.6))
	opts.Light = Light{Dir: math.Vec3[float32]{Z: 1}, Direct: 1}

	img, err := Render(model, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r := int(pixel(img, 32, 32).R); r < 152 || r > 154 {
		t.Errorf("center red = %d, want about 153", r)
	}
}

func TestRenderDepthOrder(t *testing.T) {
	red := math.Vec3[float32]{X: 1}
	blue := math.Vec3[float32]{Z: 1}

	// Blue is drawn last but lies behind red
	front, frontIdx := quad(0.5, red, 0)
	back, backIdx := quad(-0.5, blue, 4)
	model := &formats.Model{
		Vertices: append(front, back...),
		Indices:  append(frontIdx, backIdx...),
	}

	img, err := Render(model, frontOptions(64))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	center := pixel(img, 32, 32)
	if center.R == 0 || center.B != 0 {
		t.Errorf("expected the nearer red quad to win, got %v", center)
	}
}

func TestRenderUntintedUsesBaseColor(t *testing.T) {
	verts, idx := quad(0, math.Vec3[float32]{}, 0)
	img, err := Render(&formats.Model{Vertices: verts, Indices: idx}, frontOptions(32))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	c := pixel(img, 16, 16)
	if c.R == 0 || c.R != c.G || c.G != c.B {
		t.Errorf("expected neutral gray, got %v", c)
	}
}

func TestRenderTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tex.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}

	verts, idx := quad(0, math.Vec3[float32]{X: 1}, 0)
	opts := frontOptions(32)
	opts.Texture = tex

	img, err := Render(&formats.Model{Vertices: verts, Indices: idx}, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	c := pixel(img, 16, 16)
	if c.G == 0 || c.R != 0 || c.B != 0 {
		t.Errorf("expected texture green to replace vertex red, got %v", c)
	}
}

func TestRenderEmptyModel(t *testing.T) {
	img, err := Render(&formats.Model{}, frontOptions(8))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if c := pixel(img, x, y); c != background {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, c)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	opts := frontOptions(0)
	if _, err := Render(&formats.Model{}, opts); err == nil {
		t.Error("expected error for zero size")
	}

	opts = frontOptions(8)
	opts.FOV = 0
	if _, err := Render(&formats.Model{}, opts); !errors.Is(err, math.ErrDegenerateProjection) {
		t.Errorf("expected ErrDegenerateProjection, got %v", err)
	}
}

func TestRenderParsedCubeIsDeterministic(t *testing.T) {
	model, err := formats.ParseOBJFile(filepath.Join("..", "..", "pkg", "formats", "testdata", "cube.obj"))
	if err != nil {
		t.Fatalf("ParseOBJFile: %v", err)
	}

	opts := DefaultOptions()
	opts.Size = 48
	a, err := Render(model, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(model, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same model differ")
	}

	// The fitted cube covers the middle of the frame but not the corners
	if pixel(a, 24, 24) == opts.Background {
		t.Error("expected the cube to cover the center")
	}
	if pixel(a, 0, 0) != opts.Background {
		t.Error("expected background in the corner")
	}
}

func TestModelMatrixFitsUnitSphere(t *testing.T) {
	verts, idx := quad(0, math.Vec3[float32]{}, 0)
	for i := range verts {
		verts[i].Position = verts[i].Position.Scale(10)
	}
	m := ModelMatrix(&formats.Model{Vertices: verts, Indices: idx}, 0, 0)

	for _, v := range verts {
		p := m.TransformPoint(v.Position)
		if n := p.Norm(); n > 1.0001 {
			t.Errorf("vertex %v maps outside the unit sphere: %v (|p|=%g)", v.Position, p, n)
		}
	}
}

func TestFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	if len(fb.Color) != 4*3*4 || len(fb.Depth) != 4*3 {
		t.Fatalf("unexpected buffer sizes %d/%d", len(fb.Color), len(fb.Depth))
	}
	if fb.Covered() != 0 {
		t.Errorf("expected no covered pixels, got %d", fb.Covered())
	}

	fb.Clear(background)
	img := fb.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("unexpected image bounds %v", img.Bounds())
	}
	if c := img.NRGBAAt(3, 2); c != background {
		t.Errorf("expected cleared color, got %v", c)
	}
}

func TestRasterizeTriangleDepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	full := func(z, r float64) [3]ScreenVertex {
		return [3]ScreenVertex{
			{X: -8, Y: -8, Z: z, R: r},
			{X: 24, Y: -8, Z: z, R: r},
			{X: -8, Y: 24, Z: z, R: r},
		}
	}

	RasterizeTriangle(fb, full(0.2, 1), nil, 1)
	if fb.Covered() != 64 {
		t.Fatalf("expected full coverage, got %d", fb.Covered())
	}

	// Farther triangle is rejected
	RasterizeTriangle(fb, full(0.5, 0.5), nil, 1)
	if got := fb.Image().NRGBAAt(4, 4).R; got != 255 {
		t.Errorf("farther triangle overwrote pixel: R=%d", got)
	}

	// Nearer triangle replaces
	RasterizeTriangle(fb, full(-0.5, 0.6), nil, 1)
	if got := fb.Image().NRGBAAt(4, 4).R; got != 153 {
		t.Errorf("nearer triangle did not replace pixel: R=%d", got)
	}

	// Outside the clip volume is dropped
	fresh := NewFrameBuffer(8, 8)
	RasterizeTriangle(fresh, full(1.5, 1), nil, 1)
	if fresh.Covered() != 0 {
		t.Errorf("expected clipped triangle to be dropped, got %d pixels", fresh.Covered())
	}
}

func TestRasterizeDegenerateTriangle(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	RasterizeTriangle(fb, [3]ScreenVertex{{X: 1, Y: 1}, {X: 4, Y: 4}, {X: 7, Y: 7}}, nil, 1)
	if fb.Covered() != 0 {
		t.Errorf("expected nothing drawn for a collinear triangle, got %d", fb.Covered())
	}
}

func TestSampleTexture(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255}) // top left
	tex.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255}) // top right
	tex.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255}) // bottom left
	tex.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	// v = 0 is the bottom row
	r, g, b, a := SampleTexture(tex, 0, 0)
	if r != 0 || g != 0 || b != 255 || a != 255 {
		t.Errorf("SampleTexture(0,0) = %d,%d,%d,%d, want bottom-left blue", r, g, b, a)
	}

	// Wrapping: u = 2 and u = 0 sample the same texel
	r2, g2, b2, a2 := SampleTexture(tex, 2, 0)
	if r2 != r || g2 != g || b2 != b || a2 != a {
		t.Error("expected integer UV offsets to wrap")
	}

	// Center blends all four
	r, g, b, _ = SampleTexture(tex, 0.5, 0.5)
	if r != 128 || g != 128 || b != 128 {
		t.Errorf("SampleTexture(0.5,0.5) = %d,%d,%d, want 128,128,128", r, g, b)
	}
}

func TestLightShadeIsDoubleSided(t *testing.T) {
	l := DefaultLight()
	up := math.Vec3[float32]{Y: 1}
	if l.Shade(up) != l.Shade(up.Neg()) {
		t.Error("expected identical shading for opposite normals")
	}
	if s := l.Shade(l.Dir); s < l.Ambient+l.Direct-1e-6 {
		t.Errorf("expected full shading facing the light, got %g", s)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"thumb.webp", FormatWebP},
		{"out/THUMB.PNG", FormatPNG},
		{"a.bmp", FormatBMP},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}

	if _, err := FormatFromPath("a.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if err := Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "tiff"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	decoders := map[string]func(*os.File) (image.Image, error){
		"thumb.webp": func(f *os.File) (image.Image, error) { return nativewebp.Decode(f) },
		"thumb.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"thumb.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	dir := t.TempDir()
	for name, decode := range decoders {
		t.Run(strings.TrimPrefix(filepath.Ext(name), "."), func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Errorf("unexpected bounds %v", img.Bounds())
			}
			r, g, b, _ := img.At(1, 1).RGBA()
			if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
				t.Errorf("pixel (1,1) = %d,%d,%d, want 200,100,50", r>>8, g>>8, b>>8)
			}
		})
	}
}
