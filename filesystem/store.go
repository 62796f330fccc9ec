// Package filesystem provides the file system storage backend for appshelf.
// All operations go through an os.Root, so paths cannot escape the storage
// directory, and content types are detected from file extensions.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sagarc03/appshelf"
)

// Store provides read-only file system operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// FS returns the storage root as an fs.FS, for serving static files.
func (s *Store) FS() fs.FS {
	return s.root.FS()
}

// Get opens a regular file for reading. Returns appshelf.ErrNotFound if the
// file does not exist or is a directory.
func (s *Store) Get(ctx context.Context, p string) (appshelf.ObjectEntry, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return appshelf.ObjectEntry{}, nil, err
	}

	f, err := s.root.Open(filepath.FromSlash(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return appshelf.ObjectEntry{}, nil, appshelf.ErrNotFound
		}
		return appshelf.ObjectEntry{}, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		closeFile(f, p)
		return appshelf.ObjectEntry{}, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		closeFile(f, p)
		return appshelf.ObjectEntry{}, nil, appshelf.ErrNotFound
	}

	return toEntry(p, info), f, nil
}

// ReadFile returns the content of a file. Returns appshelf.ErrNotFound if the
// file does not exist.
func (s *Store) ReadFile(ctx context.Context, p string) ([]byte, error) {
	_, f, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	defer closeFile(f, p)

	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: f})
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// ListDirs returns the sorted names of the subdirectories of dir. Symbolic
// links are followed. Returns appshelf.ErrNotFound if dir does not exist.
func (s *Store) ListDirs(ctx context.Context, dir string) ([]string, error) {
	entries, err := s.readDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := s.root.Stat(filepath.Join(filepath.FromSlash(dir), entry.Name()))
			if statErr != nil {
				slog.Debug("skipping broken link", "dir", dir, "name", entry.Name(), "err", statErr)
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			names = append(names, entry.Name())
		}
	}

	slices.Sort(names)
	return names, nil
}

// ListFiles returns the regular files directly inside dir with their size,
// content type and modification time. Returns appshelf.ErrNotFound if dir
// does not exist.
func (s *Store) ListFiles(ctx context.Context, dir string) ([]appshelf.ObjectEntry, error) {
	entries, err := s.readDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	files := make([]appshelf.ObjectEntry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := path.Join(dir, entry.Name())

		var info fs.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err = s.root.Stat(filepath.FromSlash(p))
			if err != nil {
				slog.Debug("skipping broken link", "path", p, "err", err)
				continue
			}
		} else {
			info, err = entry.Info()
			if err != nil {
				return nil, fmt.Errorf("list files: %w", err)
			}
		}

		if !info.Mode().IsRegular() {
			continue
		}

		files = append(files, toEntry(p, info))
	}

	slices.SortFunc(files, func(a, b appshelf.ObjectEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

func (s *Store) readDir(ctx context.Context, dir string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(filepath.FromSlash(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appshelf.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer closeFile(f, dir)

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	return entries, nil
}

func toEntry(p string, info fs.FileInfo) appshelf.ObjectEntry {
	return appshelf.ObjectEntry{
		Path:        p,
		Size:        info.Size(),
		ContentType: detectContentType(p),
		ModTime:     info.ModTime(),
	}
}

func closeFile(f io.Closer, p string) {
	if err := f.Close(); err != nil {
		slog.Warn("failed to close file", "path", p, "err", err)
	}
}

// packageContentType is the registered media type for Android packages,
// missing from most system mime tables.
const packageContentType = "application/vnd.android.package-archive"

func detectContentType(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	if ext == appshelf.PackageExt {
		return packageContentType
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}
