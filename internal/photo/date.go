package photo

import (
	"fmt"
	"os"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// DateFormat is the 8-digit layout used as the filename date component.
const DateFormat = "20060102"

// Date source labels reported alongside the capture date.
const (
	SourceEXIF  = "exif"
	SourceMtime = "mtime"
)

// CaptureDate determines when the photo at path was taken. The primary
// source is embedded EXIF metadata with the fallback chain
// DateTimeOriginal > CreateDate > ModifyDate; when no metadata date is
// present or the metadata cannot be decoded, the file's last-modified time
// is used instead. A metadata error never fails the file.
//
// The returned source is SourceEXIF or SourceMtime. An error is returned
// only when the fallback stat itself fails (e.g. the file disappeared).
func CaptureDate(path string) (time.Time, string, error) {
	if taken, ok := exifDate(path); ok {
		return taken, SourceEXIF, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("failed to stat file: %w", err)
	}
	return info.ModTime(), SourceMtime, nil
}

// exifDate reads the embedded capture timestamp, if any.
func exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to open file for metadata, using mtime")
		return time.Time{}, false
	}
	defer f.Close()

	exifData, err := imagemeta.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("No decodable metadata, using mtime")
		return time.Time{}, false
	}

	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		return exifData.DateTimeOriginal(), true
	case !exifData.CreateDate().IsZero():
		return exifData.CreateDate(), true
	case !exifData.ModifyDate().IsZero():
		return exifData.ModifyDate(), true
	}
	return time.Time{}, false
}

// FormatDate renders a capture date as the 8-digit YYYYMMDD string. No
// timezone conversion is applied; the date is taken in the location carried
// by the source timestamp.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
