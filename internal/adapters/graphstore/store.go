// Package graphstore persists street networks as GraphML files with a JSON metadata sidecar,
// laid out as <root>/<name>/<networkType>/<name>.graphml.
package graphstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/ports"
)

const metadataSuffix = "_metadata.json"

type FileStore struct {
	Root string
	now  func() time.Time
}

var _ ports.GraphStore = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root, now: func() time.Time { return time.Now().UTC() }}
}

// validName rejects anything that could escape the store root.
func validName(kind, s string) error {
	if strings.TrimSpace(s) == "" || s == "." || s == ".." ||
		strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return fmt.Errorf("%w: %s %q", domain.ErrInvalidName, kind, s)
	}
	return nil
}

func (s *FileStore) paths(name, networkType string) (dir, graphPath, metaPath string, err error) {
	if err := validName("graph name", name); err != nil {
		return "", "", "", err
	}
	if err := validName("network type", networkType); err != nil {
		return "", "", "", err
	}
	dir = filepath.Join(s.Root, name, networkType)
	return dir, filepath.Join(dir, name+".graphml"), filepath.Join(dir, name+metadataSuffix), nil
}

// Save writes the graph and its metadata, silently replacing an existing pair.
func (s *FileStore) Save(g *domain.NetworkGraph, name, networkType string) (domain.GraphMetadata, error) {
	if g == nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph: %w", domain.ErrNilGraph)
	}

	dir, graphPath, metaPath, err := s.paths(name, networkType)
	if err != nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph: create %q: %w", dir, err)
	}

	if err := writeFile(graphPath, func(f *os.File) error { return EncodeGraphML(f, g) }); err != nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph %q: %w", name, err)
	}

	meta := domain.GraphMetadata{
		GraphName:   name,
		NetworkType: networkType,
		FilePath:    graphPath,
		DateCreated: s.now(),
	}
	b, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph %q: encode metadata: %w", name, err)
	}
	if err := writeFile(metaPath, func(f *os.File) error {
		_, err := f.Write(append(b, '\n'))
		return err
	}); err != nil {
		return domain.GraphMetadata{}, fmt.Errorf("save graph %q: %w", name, err)
	}

	return meta, nil
}

const filePerm os.FileMode = 0o644

// writeFile writes through a temp file in the same directory and renames it into place, so a
// failed write never leaves a truncated graph behind.
func writeFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	// CreateTemp opens files 0600; stored graphs are readable like any other written file.
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %q: %w", path, err)
	}
	return nil
}

// Load reads a graph previously written by Save.
func (s *FileStore) Load(name, networkType string) (*domain.NetworkGraph, error) {
	_, graphPath, _, err := s.paths(name, networkType)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	f, err := os.Open(graphPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load graph: %w: %s", domain.ErrGraphNotFound, graphPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	defer f.Close()

	g, err := DecodeGraphML(f)
	if err != nil {
		return nil, fmt.Errorf("load graph %q: %w", graphPath, err)
	}
	return g, nil
}

// List returns the metadata of every saved graph ordered by name then network type.
// A missing root is an empty store.
func (s *FileStore) List() ([]domain.GraphMetadata, error) {
	var out []domain.GraphMetadata

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.Root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), metadataSuffix) {
			return nil
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var meta domain.GraphMetadata
		if err := json.Unmarshal(b, &meta); err != nil {
			return fmt.Errorf("parse %q: %w", path, err)
		}
		out = append(out, meta)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GraphName != out[j].GraphName {
			return out[i].GraphName < out[j].GraphName
		}
		return out[i].NetworkType < out[j].NetworkType
	})
	return out, nil
}
