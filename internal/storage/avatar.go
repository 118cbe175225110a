package storage

import (
	"errors"        // Sentinel error checks
	"os"            // File system access
	"path/filepath" // Path handling
	"strings"       // Extension normalization

	"github.com/google/uuid" // Collision-free stored names
)

// AvatarDisk stores avatar images as files under a single directory.
// Stored names are generated, never taken from user input, so uploads
// cannot collide or escape the directory.
type AvatarDisk struct {
	Dir string // Root directory for avatar files
}

// NewAvatarDisk ensures the storage directory exists
func NewAvatarDisk(dir string) (*AvatarDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err // Directory must exist before any upload
	}
	return &AvatarDisk{Dir: dir}, nil
}

// Save writes the image bytes under a fresh uuid name, preserving only the
// extension of the uploaded file name, and returns the stored name.
func (s *AvatarDisk) Save(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename))) // Extension only, no path parts
	name := uuid.NewString() + ext                                // Generated stored name
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", err // Propagate file system errors
	}
	return name, nil
}

// Remove deletes a stored file. A missing file or empty name is a no-op.
func (s *AvatarDisk) Remove(name string) error {
	if name == "" {
		return nil // Nothing stored
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil // Already released
	}
	return err
}
