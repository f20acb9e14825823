// Package resolver expands user-supplied paths into a deterministic list of
// candidate files. Directories are listed in lexicographic full-path order so
// repeated runs over an unchanged tree produce identical output.
package resolver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
)

// InputError reports a user-supplied path that could not be resolved.
// It is returned per entry; remaining entries are still processed.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input path %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Resolve expands the given paths into an ordered, deduplicated list of
// candidate files. Files are included as-is. Directories contribute their
// direct children, or all descendant files when recursive is set, sorted
// lexicographically by full path. Symlinks to directories are not followed
// during recursion.
//
// A path that does not exist or cannot be listed yields an *InputError in the
// second return value; resolution of the other entries continues.
func Resolve(paths []string, recursive bool) ([]string, []error) {
	var files []string
	var errs []error
	seen := make(map[string]bool)

	add := func(path string) {
		key := canonical(path)
		if seen[key] {
			log.Debug().Str("path", path).Msg("Skipping duplicate input path")
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, &InputError{Path: path, Err: err})
			continue
		}

		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := listDir(path, recursive)
		if err != nil {
			errs = append(errs, &InputError{Path: path, Err: err})
			continue
		}
		for _, entry := range entries {
			add(entry)
		}
	}

	log.Debug().
		Int("files", len(files)).
		Int("input_errors", len(errs)).
		Bool("recursive", recursive).
		Msg("Path resolution complete")

	return files, errs
}

// listDir returns the files under dirPath sorted by full path.
func listDir(dirPath string, recursive bool) ([]string, error) {
	var files []string

	if !recursive {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
		sort.Strings(files)
		return files, nil
	}

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path, skipping")
			return nil // Continue walking despite errors
		}

		if d.IsDir() {
			return nil
		}

		// Follow symlinks to files; skip symlinks to directories to
		// prevent walk loops.
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to resolve symlink, skipping")
				return nil
			}
			targetInfo, err := os.Stat(target)
			if err != nil || targetInfo.IsDir() {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// canonical returns the identity key used for deduplication: the absolute
// path with symlinks resolved where possible.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
