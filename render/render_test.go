package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ericlevine/qrkit/payload"
	"github.com/ericlevine/qrkit/scan"
)

func TestRoundTripPayloads(t *testing.T) {
	records := []payload.Record{
		payload.Text{Content: "Hello, World!"},
		payload.Contact{Mode: payload.ContactTelephone, Value: "1234567890"},
		payload.Location{Latitude: 40.7128, Longitude: -74.006},
		payload.Wifi{SSID: "MyNetwork", Encryption: payload.EncryptionWPA2, Password: "password123"},
		payload.BusinessCard{Name: "John Doe", Company: "Example Inc", Email: "john@example.com"},
	}
	for _, r := range records {
		t.Run(string(r.Kind()), func(t *testing.T) {
			want := payload.Format(r)
			img, err := Render(want, DefaultOptions())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			got, err := scan.Image(img)
			if err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if got != want {
				t.Errorf("round-trip mismatch: got %q, want %q", got, want)
			}
		})
	}
}

func TestRoundTripAllLevels(t *testing.T) {
	for _, level := range []Level{LevelL, LevelM, LevelQ, LevelH} {
		t.Run(string(level), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Level = level
			img, err := Render("Testing all EC levels", opts)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			got, err := scan.Image(img)
			if err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if got != "Testing all EC levels" {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestRenderSizeAndColors(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 300
	opts.Foreground = "#112233"
	opts.Background = "#fff"
	img, err := Render("Hello", opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("size %dx%d, want 300x300", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("corner pixel %v, want background", got)
	}
	var sawForeground bool
	for y := 0; y < b.Dy() && !sawForeground; y++ {
		for x := 0; x < b.Dx(); x++ {
			if img.RGBAAt(x, y) == (color.RGBA{0x11, 0x22, 0x33, 0xff}) {
				sawForeground = true
				break
			}
		}
	}
	if !sawForeground {
		t.Error("no foreground modules drawn")
	}
}

func TestRenderGrowsTooSmallSize(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 1
	img, err := Render("Hello", opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Version 1 is 21 modules plus a quiet zone of 4 on each side.
	if img.Bounds().Dx() != 29 {
		t.Errorf("width %d, want 29", img.Bounds().Dx())
	}
}

func TestRenderWithoutMargin(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 21
	opts.IncludeMargin = false
	img, err := Render("Hello", opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// The finder pattern starts in the very corner.
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("corner pixel %v, want foreground", got)
	}
}

func TestRenderCustomMargin(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 0
	opts.Margin = 2
	img, err := Render("Hello", opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 25 {
		t.Errorf("width %d, want 25", img.Bounds().Dx())
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render("", DefaultOptions()); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("empty payload: got %v", err)
	}
	opts := DefaultOptions()
	opts.Foreground = "black"
	if _, err := Render("x", opts); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("bad color: got %v", err)
	}
	opts = DefaultOptions()
	opts.Level = "Z"
	if _, err := Render("x", opts); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"#ffffff", color.RGBA{255, 255, 255, 255}},
		{"ff0000", color.RGBA{255, 0, 0, 255}},
		{"#0f0", color.RGBA{0, 255, 0, 255}},
		{"#0000ff00", color.RGBA{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseHexColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseHexColor(%q) = %v, want ErrInvalidColor", bad, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"l": LevelL, "M": LevelM, "q": LevelQ, "H": LevelH, "": LevelM} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("X"); err == nil {
		t.Error("expected error")
	}
}
