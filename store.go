package boutik

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksidibe/boutik/pkg/logger"
)

// documentFile is the fixed name of the local document inside the data
// directory.
const documentFile = "boutik.json"

// Store is the local durable store: one JSON document, overwritten
// wholesale on every save. Single process, single writer.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, log *logger.Logger) *Store {
	return &Store{dir: dir, log: log.WithComponent("store")}
}

// Path returns the full path of the document.
func (s *Store) Path() string { return filepath.Join(s.dir, documentFile) }

// Load reads the local document. An absent or unreadable document is never
// fatal: the seed snapshot is substituted so the application always starts.
func (s *Store) Load() *Snapshot {
	f, err := os.Open(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("cannot open local document, starting from seed", "path", s.Path(), "err", err)
		}
		return SeedSnapshot()
	}
	defer f.Close()

	snap, err := DecodeSnapshot(f)
	if err != nil {
		s.log.Warnw("local document is corrupt, starting from seed", "path", s.Path(), "err", err)
		return SeedSnapshot()
	}
	return snap
}

// Save persists the snapshot write-through. The document is written to a
// temporary file and renamed over the old one, so a crash mid-write leaves
// the previous document intact.
func (s *Store) Save(snap *Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("could not create data directory %q: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, documentFile+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("could not replace local document: %w", err)
	}
	return nil
}
