package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MediaStore saves uploaded files and hands back the path they are
// referenced by. Rows in the database only ever carry the path.
type MediaStore interface {
	Save(prefix, name string, r io.Reader) (string, error)
	Remove(path string) error
}

type DiskMediaStore struct {
	root string
}

func NewDiskMediaStore(root string) (*DiskMediaStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create media directory: %w", err)
	}

	return &DiskMediaStore{root: root}, nil
}

// Save writes the file under root/prefix with a random name, keeping the
// original extension. The returned path is relative to the media root.
func (s *DiskMediaStore) Save(prefix, name string, r io.Reader) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	rel := filepath.Join(prefix, hex.EncodeToString(randomBytes)+filepath.Ext(name))

	dst := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", err
	}

	return rel, nil
}

// Remove deletes a previously saved file by its returned path.
func (s *DiskMediaStore) Remove(path string) error {
	return os.Remove(filepath.Join(s.root, path))
}
