package caption

import (
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
}

func TestPrepareJPEGConvertsPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 8, 8)

	adapter := NewAdapter(&fakeCaptioner{text: "x"}, Config{TmpDir: dir})

	jpegPath, cleanup, err := adapter.prepareJPEG(src)
	if err != nil {
		t.Fatalf("prepareJPEG() error = %v", err)
	}
	if jpegPath == src {
		t.Fatal("prepareJPEG() returned the source path, want a temp JPEG")
	}

	// The temp file must be a decodable JPEG in the configured temp dir.
	if filepath.Dir(jpegPath) != dir {
		t.Errorf("temp file in %q, want configured dir %q", filepath.Dir(jpegPath), dir)
	}
	f, err := os.Open(jpegPath)
	if err != nil {
		t.Fatalf("temp JPEG missing: %v", err)
	}
	if _, err := jpeg.Decode(f); err != nil {
		t.Errorf("temp file is not a valid JPEG: %v", err)
	}
	f.Close()

	cleanup()
	if _, err := os.Stat(jpegPath); !os.IsNotExist(err) {
		t.Errorf("temp JPEG still present after cleanup: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source file touched by conversion: %v", err)
	}
}

func TestPrepareJPEGDownscalesLargeImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	writePNG(t, src, maxInputDimension*2, maxInputDimension/2)

	adapter := NewAdapter(&fakeCaptioner{text: "x"}, Config{TmpDir: dir})

	jpegPath, cleanup, err := adapter.prepareJPEG(src)
	if err != nil {
		t.Fatalf("prepareJPEG() error = %v", err)
	}
	defer cleanup()

	f, err := os.Open(jpegPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != maxInputDimension {
		t.Errorf("converted width = %d, want %d", cfg.Width, maxInputDimension)
	}
	if cfg.Height != maxInputDimension/4 {
		t.Errorf("converted height = %d, want %d", cfg.Height, maxInputDimension/4)
	}
}

func TestPrepareJPEGPassthrough(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpeg", "c.JPG"} {
		src := filepath.Join(dir, name)
		if err := os.WriteFile(src, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		adapter := NewAdapter(&fakeCaptioner{text: "x"}, Config{})
		jpegPath, cleanup, err := adapter.prepareJPEG(src)
		if err != nil {
			t.Fatalf("prepareJPEG(%s) error = %v", name, err)
		}
		if jpegPath != src {
			t.Errorf("prepareJPEG(%s) = %q, want passthrough", name, jpegPath)
		}
		cleanup()
		if _, err := os.Stat(src); err != nil {
			t.Errorf("cleanup removed the original %s: %v", name, err)
		}
	}
}

func TestDescribeCleansUpTempOnCaptionerError(t *testing.T) {
	dir := t.TempDir()
	tmpDir := filepath.Join(dir, "tmp")
	if err := os.Mkdir(tmpDir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 8, 8)

	fake := &fakeCaptioner{err: context.DeadlineExceeded}
	adapter := NewAdapter(fake, Config{TmpDir: tmpDir})

	if _, err := adapter.Describe(context.Background(), src); err == nil {
		t.Fatal("Describe() error = nil, want captioner error")
	}

	// The temporary conversion file is released on the failure path too.
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty after failed captioning: %v", entries)
	}
}

func TestScaledDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		max           int
		wantW, wantH  int
	}{
		{"landscape", 4000, 3000, 1024, 1024, 768},
		{"portrait", 3000, 4000, 1024, 768, 1024},
		{"square", 2048, 2048, 1024, 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := scaledDimensions(tt.width, tt.height, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("scaledDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tt.max, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
