package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fetchmoots/pkg/errors"
)

// Manager handles writes into the output folder
type Manager struct {
	outputDir string
	saved     map[string]struct{}
	mu        sync.RWMutex
}

// NewManager creates a storage manager for outputDir
func NewManager(outputDir string) *Manager {
	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]struct{}),
	}
}

// Path returns where the picture for username with extension ext is written
func (m *Manager) Path(username, ext string) string {
	return filepath.Join(m.outputDir, fmt.Sprintf("%s.%s", username, ext))
}

// ensureDir creates the output folder and any missing parents
func (m *Manager) ensureDir() error {
	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to create output directory")
	}
	return nil
}

// Save writes r to <folder>/<username>.<ext>, replacing any existing file,
// and returns the final path.
func (m *Manager) Save(r io.Reader, username, ext string) (string, error) {
	if err := validateName(username); err != nil {
		return "", err
	}
	if err := validateName(ext); err != nil {
		return "", err
	}
	if err := m.ensureDir(); err != nil {
		return "", err
	}

	filename := m.Path(username, ext)

	// unique temp name so concurrent saves of one username do not collide
	out, err := os.CreateTemp(m.outputDir, "."+username+".*.tmp")
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to create temporary file")
	}
	tempFile := out.Name()

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to save picture data")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, closeErr, "failed to close file")
	}

	// CreateTemp uses 0600
	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to set file mode")
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to rename temporary file")
	}

	m.mu.Lock()
	m.saved[filename] = struct{}{}
	m.mu.Unlock()

	return filename, nil
}

// validateName rejects names that would escape the output folder
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return errors.New(errors.ErrorTypeFilesystem, fmt.Sprintf("unsafe file name %q", name))
	}
	return nil
}

// SavedCount returns the number of distinct files written. Overwriting a
// file does not count again.
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
