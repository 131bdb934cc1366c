package transcripts

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tuberag/internal/models"
)

// Store persists one readable artifact per transcript document for the
// lifetime of a session. Names are deterministic so a given document always
// lands at the same path.
type Store struct {
	dir   string
	paths map[string]string // display name -> artifact path
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
	}
	return &Store{dir: dir, paths: make(map[string]string)}, nil
}

// WriteAll writes each document to NNN_DisplayName.txt in batch order and
// returns the paths, index-aligned with docs.
func (s *Store) WriteAll(docs []*models.TranscriptDocument) ([]string, error) {
	paths := make([]string, 0, len(docs))

	for i, doc := range docs {
		path := filepath.Join(s.dir, fmt.Sprintf("%03d_%s.txt", i+1, doc.DisplayName))
		if err := os.WriteFile(path, []byte(doc.Body), 0644); err != nil {
			return nil, fmt.Errorf("failed to write transcript %s: %w", doc.DisplayName, err)
		}
		s.paths[doc.DisplayName] = path
		paths = append(paths, path)
	}

	log.Printf("Wrote %d transcript files to %s", len(paths), s.dir)
	return paths, nil
}

// Path returns the artifact path for a display name, if one was written.
func (s *Store) Path(displayName string) (string, bool) {
	path, ok := s.paths[displayName]
	return path, ok
}

// Clear removes every artifact this store wrote.
func (s *Store) Clear() error {
	for name, path := range s.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove transcript %s: %w", name, err)
		}
		delete(s.paths, name)
	}
	log.Printf("Cleared transcript files from %s", s.dir)
	return nil
}
