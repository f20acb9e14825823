// Package caption obtains a short natural-language description of a photo
// from an external captioning model and prepares model-compatible input for
// formats the model cannot decode directly.
package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMaxWords is the default word cap applied to captions before they
// become a filename component.
const DefaultMaxWords = 6

// Captioner is the external captioning collaborator. Implementations must be
// side-effect free with respect to the image at jpegPath.
type Captioner interface {
	// Caption returns a short free-form description of the JPEG image.
	Caption(ctx context.Context, jpegPath string) (string, error)
}

// Config carries the adapter settings. TmpDir is where scoped temporary
// conversion files are created (empty = system default); MaxWords caps the
// caption length (0 = DefaultMaxWords).
type Config struct {
	TmpDir   string
	MaxWords int
}

// Adapter prepares captioner-compatible input for a photo and normalizes the
// returned text to a short phrase.
type Adapter struct {
	captioner Captioner
	cfg       Config
}

// NewAdapter creates an Adapter around the given captioner.
func NewAdapter(captioner Captioner, cfg Config) *Adapter {
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = DefaultMaxWords
	}
	return &Adapter{captioner: captioner, cfg: cfg}
}

// Describe captions the photo at path. Non-JPEG formats are converted to a
// temporary JPEG first; the temporary file is removed before Describe
// returns, on every exit path.
func (a *Adapter) Describe(ctx context.Context, path string) (string, error) {
	jpegPath, cleanup, err := a.prepareJPEG(path)
	if err != nil {
		return "", fmt.Errorf("failed to prepare captioner input: %w", err)
	}
	defer cleanup()

	text, err := a.captioner.Caption(ctx, jpegPath)
	if err != nil {
		return "", err
	}

	phrase := TrimToWords(text, a.cfg.MaxWords)
	if phrase == "" {
		return "", fmt.Errorf("captioner returned empty text")
	}

	log.Debug().
		Str("path", path).
		Str("caption", phrase).
		Msg("Caption obtained")

	return phrase, nil
}

// TrimToWords collapses whitespace and keeps at most max words of s.
func TrimToWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) > max {
		words = words[:max]
	}
	return strings.Join(words, " ")
}
