package caption

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	// Registered decoders for image.Decode. JPEG is registered for
	// completeness; the JPEG path below short-circuits before decoding.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// maxInputDimension bounds the longest edge of converted captioner input.
// Downscaling large originals keeps the upload small without affecting
// caption quality.
const maxInputDimension = 1024

// jpegQuality is the encode quality for temporary conversion files.
const jpegQuality = 85

// prepareJPEG returns a path to a JPEG rendition of the photo plus a cleanup
// function that must be called when the captioning call completes. JPEG
// originals are passed through untouched with a no-op cleanup; every other
// format is converted into a temporary file that cleanup removes.
func (a *Adapter) prepareJPEG(path string) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".jpg", ".jpeg":
		return path, func() {}, nil

	case ".heic", ".heif":
		return a.convertHEIC(path)

	default:
		return a.convertPureGo(path)
	}
}

// convertPureGo decodes PNG/GIF/WebP/TIFF in pure Go, downscales oversized
// images, and re-encodes to a temporary JPEG.
func (a *Adapter) convertPureGo(path string) (string, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxInputDimension || height > maxInputDimension {
		newWidth, newHeight := scaledDimensions(width, height, maxInputDimension)
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	tmpFile, err := os.CreateTemp(a.cfg.TmpDir, "photorename-*.jpg")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if err := jpeg.Encode(tmpFile, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	log.Debug().
		Str("path", path).
		Str("format", format).
		Str("tmp", tmpPath).
		Msg("Converted image to temporary JPEG")

	return tmpPath, cleanup, nil
}

// convertHEIC uses ffmpeg to convert HEIC/HEIF to a temporary JPEG. There is
// no pure Go HEIC decoder, so ffmpeg must be installed for these files.
func (a *Adapter) convertHEIC(path string) (string, func(), error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", nil, fmt.Errorf("ffmpeg not found: HEIC conversion requires ffmpeg")
	}

	tmpFile, err := os.CreateTemp(a.cfg.TmpDir, "photorename-*.jpg")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	cleanup := func() { os.Remove(tmpPath) }

	// ffmpeg -i input.heic -vf "scale='min(1024,iw)':-2" -frames:v 1 -y output.jpg
	// scale filter: downscale only if larger, preserve aspect ratio,
	// even height for the encoder.
	vf := fmt.Sprintf("scale='min(%d,iw)':-2", maxInputDimension)
	cmd := exec.Command(ffmpegPath,
		"-i", path,
		"-vf", vf,
		"-frames:v", "1",
		"-y", tmpPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("ffmpeg HEIC conversion failed: %w: %s", err, string(output))
	}

	log.Debug().
		Str("path", path).
		Str("tmp", tmpPath).
		Msg("Converted HEIC to temporary JPEG via ffmpeg")

	return tmpPath, cleanup, nil
}

// scaledDimensions calculates downscaled dimensions maintaining aspect ratio.
func scaledDimensions(width, height, maxDimension int) (int, int) {
	if width > height {
		return maxDimension, int(float64(height) * float64(maxDimension) / float64(width))
	}
	return int(float64(width) * float64(maxDimension) / float64(height)), maxDimension
}
