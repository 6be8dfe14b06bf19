package openapi

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source identifies where an OpenAPI document lives.
type Source interface {
	Location() string
	Read() ([]byte, error)
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }

func (s fileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", s.path, err)
	}
	return data, nil
}

// SourceFromFile returns a Source for a path on disk.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Location() string { return s.name }

func (s fsSource) Read() ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", s.name, err)
	}
	return data, nil
}

// SourceFromFS returns a Source for name inside fsys.
func SourceFromFS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}
