package fsstore

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/export"
	"github.com/ericlevine/qrkit/render"
	"github.com/ericlevine/qrkit/scan"
)

func TestStoreWriteBytes(t *testing.T) {
	dir := t.TempDir()
	s := New(Fixed{})
	path := filepath.Join(dir, "nested", "a.png")
	if err := s.WriteBytes(context.Background(), path, []byte("one")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if err := s.WriteBytes(context.Background(), path, []byte("two")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("content %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("%d entries left in directory, want 1", len(entries))
	}
}

func TestStoreWriteBytesFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := New(Fixed{}).WriteBytes(context.Background(), filepath.Join(blocker, "a.png"), []byte("x"))
	if !errors.Is(err, qrkit.ErrIO) {
		t.Fatalf("got %v, want ErrIO", err)
	}
}

func TestFixedPrompter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	if _, err := New(Fixed{}).PromptSaveLocation(ctx, "a.png", nil); !errors.Is(err, qrkit.ErrCanceled) {
		t.Errorf("empty SavePath: got %v", err)
	}
	if _, err := New(Fixed{}).PromptDirectory(ctx); !errors.Is(err, qrkit.ErrCanceled) {
		t.Errorf("empty Dir: got %v", err)
	}

	got, err := New(Fixed{SavePath: dir}).PromptSaveLocation(ctx, "a.png", nil)
	if err != nil || got != filepath.Join(dir, "a.png") {
		t.Errorf("directory SavePath: %q, %v", got, err)
	}
	got, err = New(Fixed{SavePath: filepath.Join(dir, "code")}).PromptSaveLocation(ctx, "a.jpg", qrkit.FiltersFor(qrkit.FormatJPEG))
	if err != nil || got != filepath.Join(dir, "code.jpg") {
		t.Errorf("extension added: %q, %v", got, err)
	}
}

func TestTerminalPrompter(t *testing.T) {
	ctx := context.Background()
	in := strings.NewReader("\n/tmp/x.png\n-\n~/codes\n")
	var out bytes.Buffer
	p := NewTerminal(in, &out, "/home/me")

	got, err := p.SaveLocation(ctx, "a.png", qrkit.SaveFilters)
	if err != nil || got != filepath.Join("/home/me", "a.png") {
		t.Errorf("default answer: %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "png | jpg,jpeg | svg | *") {
		t.Errorf("prompt %q does not list filters", out.String())
	}
	got, err = p.SaveLocation(ctx, "a.png", nil)
	if err != nil || got != "/tmp/x.png" {
		t.Errorf("typed answer: %q, %v", got, err)
	}
	if _, err := p.Directory(ctx); !errors.Is(err, qrkit.ErrCanceled) {
		t.Errorf("dash answer: got %v", err)
	}
	got, err = p.Directory(ctx)
	if home, herr := os.UserHomeDir(); herr == nil && (err != nil || got != filepath.Join(home, "codes")) {
		t.Errorf("home answer: %q, %v", got, err)
	}
	if _, err := p.Directory(ctx); !errors.Is(err, qrkit.ErrCanceled) {
		t.Errorf("EOF: got %v", err)
	}
}

func TestDownloadsNeverOverwrite(t *testing.T) {
	dir := t.TempDir()
	d := Downloads{Dir: dir}
	ctx := context.Background()

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := d.Download(ctx, "qr-code.png", []byte{byte(i)})
		if err != nil {
			t.Fatalf("Download %d: %v", i, err)
		}
		paths = append(paths, p)
	}
	want := []string{"qr-code.png", "qr-code (1).png", "qr-code (2).png"}
	for i, p := range paths {
		if p != filepath.Join(dir, want[i]) {
			t.Errorf("download %d at %q, want %q", i, p, want[i])
		}
		got, _ := os.ReadFile(p)
		if len(got) != 1 || got[0] != byte(i) {
			t.Errorf("download %d content %v", i, got)
		}
	}
}

func TestExporterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	surface, err := render.Render("WIFI:S:Home;T:WPA2;P:secret;;", render.DefaultOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	e := export.New(New(Fixed{SavePath: dir, Dir: filepath.Join(dir, "batch")}), Downloads{Dir: filepath.Join(dir, "dl")})
	res := e.ExportSingle(context.Background(), export.Request{Surface: surface, FileName: "home.png"})
	if !res.Success || res.FilePath != filepath.Join(dir, "home.png") {
		t.Fatalf("single %+v", res)
	}
	text, err := scan.File(res.FilePath)
	if err != nil || text != "WIFI:S:Home;T:WPA2;P:secret;;" {
		t.Fatalf("scan %q, %v", text, err)
	}

	data, err := os.ReadFile(res.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	batch := e.ExportBatch(context.Background(), []export.BatchItem{
		{Name: "home", Artifact: []byte(qrkit.EncodeDataURI(qrkit.FormatPNG, data))},
		{Artifact: data},
	})
	if !batch.Success || batch.Written() != 2 {
		t.Fatalf("batch %+v", batch)
	}
	for _, name := range []string{"home.png", "qr-code-2.png"} {
		got, err := os.ReadFile(filepath.Join(dir, "batch", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s differs from the exported file", name)
		}
		if _, _, err := image.Decode(bytes.NewReader(got)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestExporterCanceledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	surface, err := render.Render("x", render.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	e := export.New(New(Fixed{}), Downloads{Dir: dir})
	if res := e.ExportSingle(context.Background(), export.Request{Surface: surface}); !res.Canceled {
		t.Errorf("single %+v", res)
	}
	if res := e.ExportBatch(context.Background(), []export.BatchItem{{Artifact: []byte("x")}}); !res.Canceled {
		t.Errorf("batch %+v", res)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d files written", len(entries))
	}
}
