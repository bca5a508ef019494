package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/errors"
)

// FileStore persists graphs as JSON documents in a directory.
//
// File names are derived from a hash of the graph name so that arbitrary
// names are safe on any filesystem; the document carries the name itself.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// document wraps a stored graph blob with metadata.
type document struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Blob      json.RawMessage `json:"blob"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Save writes the graph under the given name, overwriting any previous
// version. The document id is kept stable across overwrites.
func (s *FileStore) Save(ctx context.Context, name string, g *dot.Graph) error {
	blob, err := dot.Encode(g)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode graph %s", name)
	}

	doc := document{
		ID:        uuid.NewString(),
		Name:      name,
		Blob:      blob,
		UpdatedAt: time.Now().UTC(),
	}
	if prev, err := s.read(name); err == nil {
		doc.ID = prev.ID
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal graph %s", name)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write graph %s", name)
	}
	return nil
}

// Load reads the graph stored under the given name.
func (s *FileStore) Load(ctx context.Context, name string) (*dot.Graph, error) {
	doc, err := s.read(name)
	if err != nil {
		return nil, err
	}
	g, err := dot.Decode(doc.Blob)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode graph %s", name)
	}
	return g, nil
}

// List returns the names of all stored graphs, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read store directory %s", s.dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil || doc.Name == "" {
			continue
		}
		names = append(names, doc.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the graph stored under the given name.
// Deleting a missing name is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete graph %s", name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) read(name string) (*document, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read graph %s", name)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse graph document %s", name)
	}
	return &doc, nil
}

func (s *FileStore) path(name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
