// Package photo classifies candidate files as supported photos and derives
// their capture date from embedded metadata.
package photo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions defines the photo file extensions the pipeline accepts.
var SupportedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

// IsSupportedExt returns true if the file extension corresponds to a photo.
func IsSupportedExt(ext string) bool {
	_, ok := SupportedExtensions[strings.ToLower(ext)]
	return ok
}

// IsPhoto reports whether the file at path is a supported photo. The
// extension must be recognized and the leading bytes must carry a matching
// image signature, so a video or text file with a photo extension is
// rejected. Unreadable files are reported as not photos.
func IsPhoto(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExt(ext) {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to open file for sniffing")
		return false
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil || n < 4 {
		return false
	}

	return sniffImage(header[:n])
}

// sniffImage checks the leading bytes for a known image container signature.
func sniffImage(header []byte) bool {
	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}): // JPEG
		return true
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return true
	case bytes.HasPrefix(header, []byte("GIF87a")) || bytes.HasPrefix(header, []byte("GIF89a")):
		return true
	case bytes.HasPrefix(header, []byte("RIFF")) && len(header) >= 12 && bytes.Equal(header[8:12], []byte("WEBP")):
		return true
	case bytes.HasPrefix(header, []byte("II*\x00")) || bytes.HasPrefix(header, []byte("MM\x00*")): // TIFF
		return true
	case len(header) >= 12 && bytes.Equal(header[4:8], []byte("ftyp")): // BMFF (HEIC/HEIF)
		brand := string(header[8:12])
		switch brand {
		case "heic", "heix", "hevc", "hevx", "heim", "heis", "mif1", "msf1":
			return true
		}
		return false
	default:
		return false
	}
}
