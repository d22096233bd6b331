// Package storage keeps uploaded challenge attachments on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/cctfd/config"
	"github.com/rs/zerolog/log"
)

// FileStorage stores and removes challenge attachments. Locations are
// relative, slash separated paths such as "<dir>/<name>".
type FileStorage interface {
	Save(chalID uint, fh *multipart.FileHeader) (string, error)
	Delete(location string) error
}

type localFileStorage struct {
	root string
}

func NewLocalFileStorage(cfg *config.Config) (FileStorage, error) {
	return NewLocalFileStorageAt(cfg.Upload.Folder)
}

func NewLocalFileStorageAt(root string) (FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload folder: %w", err)
	}
	return &localFileStorage{root: root}, nil
}

// Save writes the upload to a fresh random directory so two files with the
// same name never collide.
func (s *localFileStorage) Save(chalID uint, fh *multipart.FileHeader) (string, error) {
	name := SecureFilename(fh.Filename)
	if name == "" {
		name = "file"
	}
	dir := strings.ReplaceAll(uuid.New().String(), "-", "")
	location := path.Join(dir, name)

	dirPath := filepath.Join(s.root, dir)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := writeUpload(filepath.Join(s.root, filepath.FromSlash(location)), fh); err != nil {
		if rmErr := os.RemoveAll(dirPath); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", dirPath).Msg("Failed to clean up partial upload")
		}
		return "", err
	}

	log.Info().Uint("challengeID", chalID).Str("location", location).Int64("size", fh.Size).Msg("Stored challenge file")
	return location, nil
}

func writeUpload(dstPath string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// Delete removes the file and its directory. A file that is already gone is
// not an error.
func (s *localFileStorage) Delete(location string) error {
	clean := path.Clean("/" + location)
	if clean == "/" {
		return fmt.Errorf("invalid file location %q", location)
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	dir := filepath.Dir(full)
	if dir != filepath.Clean(s.root) {
		// Only empty directories are removed.
		_ = os.Remove(dir)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename strips directories and anything outside [A-Za-z0-9_.-].
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
