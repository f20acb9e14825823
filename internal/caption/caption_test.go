package caption

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeCaptioner records the path it was given and returns a fixed response.
type fakeCaptioner struct {
	text     string
	err      error
	gotPath  string
	numCalls int
}

func (f *fakeCaptioner) Caption(_ context.Context, jpegPath string) (string, error) {
	f.gotPath = jpegPath
	f.numCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestTrimToWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short phrase unchanged", "a cat sitting", 6, "a cat sitting"},
		{"truncated", "a very long description of a mountain sunset scene", 4, "a very long description"},
		{"collapses whitespace", "  dog \n running  ", 6, "dog running"},
		{"empty", "", 6, ""},
		{"exactly max", "one two three", 3, "one two three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimToWords(tt.in, tt.max); got != tt.want {
				t.Errorf("TrimToWords(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestDescribeJPEGPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fake := &fakeCaptioner{text: "  a mountain sunset over a calm alpine lake at dusk "}
	adapter := NewAdapter(fake, Config{MaxWords: 2})

	got, err := adapter.Describe(context.Background(), path)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got != "a mountain" {
		t.Errorf("Describe() = %q, want %q", got, "a mountain")
	}

	// JPEG input goes to the captioner untouched - no temp conversion.
	if fake.gotPath != path {
		t.Errorf("captioner received %q, want original path %q", fake.gotPath, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("source file missing after Describe: %v", err)
	}
}

func TestDescribeCaptionerFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	wantErr := errors.New("inference exploded")
	adapter := NewAdapter(&fakeCaptioner{err: wantErr}, Config{})

	_, err := adapter.Describe(context.Background(), path)
	if !errors.Is(err, wantErr) {
		t.Errorf("Describe() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestDescribeEmptyCaption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	adapter := NewAdapter(&fakeCaptioner{text: "   "}, Config{})

	if _, err := adapter.Describe(context.Background(), path); err == nil {
		t.Error("Describe() error = nil, want error for empty caption")
	}
}

func TestNewAdapterDefaultMaxWords(t *testing.T) {
	adapter := NewAdapter(&fakeCaptioner{}, Config{})
	if adapter.cfg.MaxWords != DefaultMaxWords {
		t.Errorf("MaxWords = %d, want default %d", adapter.cfg.MaxWords, DefaultMaxWords)
	}
}
