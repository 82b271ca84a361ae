package composite

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/render"
	"github.com/ericlevine/qrkit/scan"
)

var red = color.RGBA{255, 0, 0, 255}

func testSurface(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	return img
}

func testLogo(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode logo: %v", err)
	}
	return buf.Bytes()
}

func TestComposeWithoutLogoIsIdenticalCopy(t *testing.T) {
	surface := testSurface(64, 48)
	for _, scale := range []float64{-1, 0, 0.2, 1, 7} {
		got, err := Compose(context.Background(), surface, nil, scale)
		if err != nil {
			t.Fatalf("Compose: %v", err)
		}
		if got == surface {
			t.Fatal("Compose returned the input surface")
		}
		if !bytes.Equal(got.Pix, surface.Pix) || got.Bounds() != surface.Bounds() {
			t.Errorf("scale %v: copy differs from surface", scale)
		}
	}
}

func TestComposeDoesNotMutateSurface(t *testing.T) {
	surface := testSurface(100, 100)
	before := append([]byte(nil), surface.Pix...)
	got, err := Compose(context.Background(), surface, testLogo(t, 10, 10), 0.3)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !bytes.Equal(surface.Pix, before) {
		t.Fatal("surface pixels changed")
	}
	if got.RGBAAt(50, 50) != red {
		t.Errorf("center pixel %v, want logo color", got.RGBAAt(50, 50))
	}
}

func TestComposeCopiesOffsetSurface(t *testing.T) {
	full := testSurface(40, 40)
	sub := full.SubImage(image.Rect(10, 10, 30, 30))
	got := Copy(sub)
	if got.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds %v", got.Bounds())
	}
	if got.RGBAAt(0, 0) != full.RGBAAt(10, 10) {
		t.Errorf("origin pixel %v, want %v", got.RGBAAt(0, 0), full.RGBAAt(10, 10))
	}
}

func TestComposeLogoPlacement(t *testing.T) {
	surface := testSurface(200, 200)
	got, err := Compose(context.Background(), surface, testLogo(t, 40, 20), 0.2)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// 40x20 logo at 20% of 200px: 40x20 at (80, 90).
	want := image.Rect(80, 90, 120, 110)
	if r := LogoRect(surface.Bounds(), image.Pt(40, 20), 0.2); r != want {
		t.Fatalf("LogoRect = %v, want %v", r, want)
	}
	for _, p := range []image.Point{{80, 90}, {119, 109}, {100, 100}} {
		if got.RGBAAt(p.X, p.Y) != red {
			t.Errorf("pixel %v = %v, want logo", p, got.RGBAAt(p.X, p.Y))
		}
	}
	for _, p := range []image.Point{{79, 100}, {120, 100}, {100, 89}, {100, 110}} {
		if got.RGBAAt(p.X, p.Y) != surface.RGBAAt(p.X, p.Y) {
			t.Errorf("pixel %v outside logo changed", p)
		}
	}
}

func TestLogoWidthCapped(t *testing.T) {
	bounds := image.Rect(0, 0, 257, 301)
	for _, scale := range []float64{0.5, 0.51, 0.75, 1, 3} {
		for _, logo := range []image.Point{{10, 10}, {100, 30}, {7, 90}} {
			r := LogoRect(bounds, logo, scale)
			if float64(r.Dx()) > 0.5*float64(bounds.Dx()) {
				t.Errorf("scale %v logo %v: width %d exceeds half of %d", scale, logo, r.Dx(), bounds.Dx())
			}
		}
	}
}

func TestLogoRectDefaultScale(t *testing.T) {
	r := LogoRect(image.Rect(0, 0, 100, 100), image.Pt(1, 1), 0)
	if r.Dx() != 20 || r.Dy() != 20 {
		t.Errorf("got %v, want 20x20", r)
	}
}

func TestComposeBadLogoDegrades(t *testing.T) {
	surface := testSurface(32, 32)
	for name, logo := range map[string][]byte{
		"garbage":     []byte("not an image"),
		"bad uri":     []byte("data:image/png;base64,!!!"),
		"truncated":   testLogo(t, 8, 8)[:20],
		"wrong magic": []byte("data:text/plain;base64,aGk="),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Compose(context.Background(), surface, logo, 0.3)
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if !bytes.Equal(got.Pix, surface.Pix) {
				t.Error("copy was modified")
			}
		})
	}
}

func TestComposeDataURILogo(t *testing.T) {
	surface := testSurface(100, 100)
	uri := qrkit.EncodeDataURI(qrkit.FormatPNG, testLogo(t, 10, 10))
	got, err := Compose(context.Background(), surface, []byte(uri), 0.2)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got.RGBAAt(50, 50) != red {
		t.Errorf("center pixel %v, want logo", got.RGBAAt(50, 50))
	}
}

func TestComposeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compose(ctx, testSurface(10, 10), testLogo(t, 4, 4), 0.2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestDecodeLogoErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := DecodeLogo(ctx, []byte("nope")).Wait(ctx); !errors.Is(err, qrkit.ErrLogoDecode) {
		t.Errorf("garbage: got %v", err)
	}
	big := make([]byte, MaxLogoBytes+1)
	if _, err := DecodeLogo(ctx, big).Wait(ctx); !errors.Is(err, qrkit.ErrLogoDecode) {
		t.Errorf("oversized: got %v", err)
	}
	task := DecodeLogo(ctx, testLogo(t, 3, 5))
	<-task.Done()
	img, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("bounds %v", img.Bounds())
	}
}

// hugeLogo returns a small PNG whose header declares w x h pixels.
func hugeLogo(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := testLogo(t, 1, 1)
	// IHDR: length(8:12) type(12:16) width(16:20) height(20:24) ... crc(29:33)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeLogoRejectsHugeDimensions(t *testing.T) {
	ctx := context.Background()
	data := hugeLogo(t, 30000, 30000)
	if len(data) > 1024 {
		t.Fatalf("logo is %d bytes", len(data))
	}
	if _, err := DecodeLogo(ctx, data).Wait(ctx); !errors.Is(err, qrkit.ErrLogoDecode) {
		t.Fatalf("got %v, want ErrLogoDecode", err)
	}

	surface := testSurface(20, 20)
	got, err := Compose(ctx, surface, data, 0.2)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !bytes.Equal(got.Pix, surface.Pix) {
		t.Error("rejected logo changed the surface")
	}
}

func TestComposeLogoStillScans(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Level = render.LevelH
	surface, err := render.Render("https://example.com", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got, err := Compose(context.Background(), surface, testLogo(t, 16, 16), 0.2)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	text, err := scan.Image(got)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if text != "https://example.com" {
		t.Errorf("got %q", text)
	}
}

func TestEncodeFormats(t *testing.T) {
	img := testSurface(16, 16)

	data, actual, err := EncodeBytes(img, qrkit.FormatPNG)
	if err != nil || actual != qrkit.FormatPNG {
		t.Fatalf("png: %v %v", actual, err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if decoded.(*image.RGBA).RGBAAt(3, 7) != img.RGBAAt(3, 7) {
		t.Error("png is not lossless")
	}

	data, actual, err = EncodeBytes(img, qrkit.FormatJPEG)
	if err != nil || actual != qrkit.FormatJPEG {
		t.Fatalf("jpeg: %v %v", actual, err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("jpeg decode: %v", err)
	}

	data, actual, err = EncodeBytes(img, qrkit.FormatSVG)
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if actual != qrkit.FormatPNG {
		t.Errorf("svg written as %s, want png", actual)
	}
	if f, _ := qrkit.SniffFormat(data); f != qrkit.FormatPNG {
		t.Errorf("svg bytes sniffed as %s", f)
	}

	if _, _, err := EncodeBytes(img, qrkit.Format(42)); !errors.Is(err, qrkit.ErrUnsupportedEncoding) {
		t.Errorf("unknown format: got %v", err)
	}
}

func TestEncodeDataURI(t *testing.T) {
	uri, actual, err := EncodeDataURI(testSurface(4, 4), qrkit.FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	if actual != qrkit.FormatPNG {
		t.Errorf("actual %s", actual)
	}
	data, mime, err := qrkit.DecodeDataURI(uri)
	if err != nil || mime != "image/png" {
		t.Fatalf("DecodeDataURI: %q %v", mime, err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("payload is not png: %v", err)
	}
}
