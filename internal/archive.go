package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveFiles = 10000 // zip-bomb protection

// errTooManyEntries stops the archive walk once maxArchiveFiles scannable
// entries have been collected.
var errTooManyEntries = errors.New("archive entry limit reached")

// IsArchive reports whether path looks like a zip-packaged mod.
func IsArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

// ArchivePath renders the composite path used for matches found inside
// an archive.
func ArchivePath(archive, inner string) string {
	return archive + "!" + inner
}

// ListArchiveFiles enumerates scannable files inside an archive, in walk
// order. Paths returned are archive-internal.
func ListArchiveFiles(ctx context.Context, path string) ([]string, error) {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	var inner []string
	err = iofs.WalkDir(fsys, ".", func(p string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if len(inner) >= maxArchiveFiles {
			return errTooManyEntries
		}
		if ShouldScanFile(filepath.Base(p)) {
			inner = append(inner, p)
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, errTooManyEntries):
		// keep the capped list and scan what was collected
		logrus.WithFields(logrus.Fields{"archive": path, "limit": maxArchiveFiles}).
			Warn("archive entry limit reached, scanning a truncated file list")
	default:
		return nil, fmt.Errorf("walk archive %s: %w", path, err)
	}
	return inner, nil
}

// ScanArchiveFile scans one file inside an archive. The same size and
// decode guards apply as for regular files.
func (s *FileScanner) ScanArchiveFile(ctx context.Context, archivePath, innerPath string) ([]Match, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	composite := ArchivePath(archivePath, innerPath)
	st, err := iofs.Stat(fsys, innerPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", composite, err)
	}
	if st.Size() > s.maxSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", composite, st.Size(), ErrFileTooLarge)
	}

	raw, err := iofs.ReadFile(fsys, innerPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", composite, err)
	}
	return s.scanBytes(composite, raw)
}

// ArchiveModName resolves a display name for a zip-packaged mod: info.txt
// and readme entries at the archive top level, falling back to the archive
// file name without extension.
func ArchiveModName(ctx context.Context, path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return fallback
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	entries, err := iofs.ReadDir(fsys, ".")
	if err != nil {
		return fallback
	}
	// info.txt has priority over readme, matching directory mods
	var infoPath, readmePath string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if lower == "info.txt" && infoPath == "" {
			infoPath = e.Name()
		}
		if strings.HasPrefix(lower, "readme") && readmePath == "" {
			readmePath = e.Name()
		}
	}
	if infoPath != "" {
		if raw, err := iofs.ReadFile(fsys, infoPath); err == nil {
			if name := nameFromInfoText(string(raw)); name != "" {
				return name
			}
		}
	}
	if readmePath != "" {
		if raw, err := iofs.ReadFile(fsys, readmePath); err == nil {
			if name := nameFromReadmeText(string(raw)); name != "" {
				return name
			}
		}
	}
	return fallback
}
