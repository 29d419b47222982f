package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFilesystem enumerates and reads files under Root.
type OSFilesystem struct {
	Root string
}

// NewOSFilesystem returns a filesystem rooted at root.
func NewOSFilesystem(root string) *OSFilesystem {
	return &OSFilesystem{Root: root}
}

// FindByExtension lists regular files whose name ends in ext, as
// "./relative/path" with forward slashes. Unreadable subdirectories are
// skipped; an unreadable root is an error.
func (o *OSFilesystem) FindByExtension(ext string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(o.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == o.Root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(o.Root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, "./"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ReadFile returns the file's text with invalid UTF-8 sequences dropped.
func (o *OSFilesystem) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(o.Root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
