// Package ingest loads the dataset directory: it tokenises and validates
// each entity file in dependency order, inserts accepted rows into the
// dataset, and logs rejected rows verbatim to per-entity error files.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
)

// entityNames drives error-file naming; one file per entity type.
var entityNames = []string{"aircrafts", "airports", "flights", "passengers", "reservations"}

// Sink is the append-only rejection log. Each entity's file is created on
// its first rejected row, with the stored header line written once as a
// preamble and every rejected raw line appended verbatim after it.
type Sink struct {
	dir   string
	files map[string]*os.File
}

// NewSink returns a sink writing under dir. The directory is created on
// first use.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir, files: make(map[string]*os.File)}
}

func (s *Sink) path(entity string) string {
	return filepath.Join(s.dir, entity+"_errors.csv")
}

// Reset removes all per-entity error files from a previous run.
func (s *Sink) Reset() {
	for _, name := range entityNames {
		os.Remove(s.path(name))
	}
}

// Reject appends raw to the entity's error file, creating it (and writing
// header first) if this is the entity's first rejection.
func (s *Sink) Reject(entity, header, raw string) error {
	f, ok := s.files[entity]
	if !ok {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
		var err error
		f, err = os.OpenFile(s.path(entity), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open error file: %w", err)
		}
		s.files[entity] = f
		if _, err := fmt.Fprintln(f, header); err != nil {
			return fmt.Errorf("write error header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(f, raw); err != nil {
		return fmt.Errorf("write error line: %w", err)
	}
	return nil
}

// Close closes every open error file.
func (s *Sink) Close() error {
	var first error
	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.files = make(map[string]*os.File)
	return first
}
