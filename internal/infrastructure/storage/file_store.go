package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
)

// FileArtifactStore implements artifact.Store on the local filesystem with a
// JSON encoding of the fitted bundle.
type FileArtifactStore struct {
	logger *slog.Logger
}

// NewFileArtifactStore creates a filesystem-backed artifact store.
func NewFileArtifactStore(logger *slog.Logger) *FileArtifactStore {
	return &FileArtifactStore{logger: logger}
}

// Save persists the artifact. The bundle is written to a temporary file and
// renamed into place so a reader can never observe a partial write.
func (s *FileArtifactStore) Save(a *artifact.Artifact, path string) error {
	if err := a.Validate(); err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}

	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &artifact.PersistenceError{Op: "save", Path: path, Err: err}
	}

	s.logger.Info("artifact saved",
		slog.String("artifact_id", a.ID),
		slog.String("path", path),
		slog.Int("bytes", len(payload)),
	)
	return nil
}

// Load reads and validates the artifact. A missing, unreadable or corrupt
// bundle is a PersistenceError: the caller must never serve with a partially
// loaded model.
func (s *FileArtifactStore) Load(path string) (*artifact.Artifact, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &artifact.PersistenceError{Op: "load", Path: path, Err: err}
	}

	var a artifact.Artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, &artifact.PersistenceError{Op: "load", Path: path, Err: err}
	}
	if err := a.Validate(); err != nil {
		return nil, &artifact.PersistenceError{Op: "load", Path: path, Err: err}
	}

	s.logger.Info("artifact loaded",
		slog.String("artifact_id", a.ID),
		slog.String("path", path),
		slog.Int("columns", len(a.Schema().Columns())),
	)
	return &a, nil
}
