package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FS is a filesystem-backed Store rooted at a single notes directory.
type FS struct {
	root string
}

// NewFS creates a filesystem store rooted at the given directory.
func NewFS(root string) (*FS, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open papers directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("papers path %s is not a directory", root)
	}
	return &FS{root: root}, nil
}

// Read returns the content of the markdown file at the store-relative path.
func (f *FS) Read(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(f.absPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// ModifiedTime returns the file's last modification time.
func (f *FS) ModifiedTime(ctx context.Context, path string) (time.Time, error) {
	info, err := os.Stat(f.absPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// List walks the root directory and returns all markdown files, skipping
// hidden directories (e.g. .obsidian configuration folders).
func (f *FS) List(ctx context.Context, scopeHint string) ([]Document, error) {
	var docs []Document

	err := filepath.Walk(f.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != f.root {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(f.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if scopeHint != "" && !strings.HasPrefix(relPath, strings.TrimSuffix(scopeHint, "/")+"/") {
			return nil
		}

		docs = append(docs, Document{
			Path: relPath,
			Name: DisplayName(relPath),
		})
		return nil
	})
	if err != nil {
		return docs, err
	}

	return docs, nil
}

// Exists reports whether a markdown file is present at the store-relative path.
func (f *FS) Exists(ctx context.Context, path string) bool {
	info, err := os.Stat(f.absPath(path))
	return err == nil && !info.IsDir()
}

func (f *FS) absPath(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(path))
}

// DisplayName derives a document's display name from its path: the base
// filename without extension.
func DisplayName(path string) string {
	name := filepath.Base(filepath.FromSlash(path))
	ext := filepath.Ext(name)
	if ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return name
}
