package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/VSO-Labs/Daddy-John-Backend/logger"
)

// FileStore persists message attachments on local disk and hands back a
// retrievable URL under the configured base URL.
type FileStore struct {
	dir     string
	baseURL string
	log     *logger.Logger
}

func NewFileStore(dir, baseURL string, baseLog *logger.Logger) *FileStore {
	return &FileStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     baseLog.With("client", "FileStore"),
	}
}

// Dir returns the local directory files are stored in, for static serving.
func (s *FileStore) Dir() string { return s.dir }

// Store writes the bytes under a generated unique filename, preserving
// the original extension, and returns the URL to fetch it.
func (s *FileStore) Store(data []byte, originalName, contentType string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := filepath.Ext(originalName)
	filename := uuid.New().String() + ext
	target := filepath.Join(s.dir, filename)

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	s.log.Debug("stored attachment", "file", filename, "content_type", contentType, "bytes", len(data))
	return s.baseURL + "/" + filename, nil
}

// Delete removes the stored file behind the URL. Returns false when the
// file was absent or could not be removed.
func (s *FileStore) Delete(url string) bool {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return false
	}
	filename := url[idx+1:]
	target := filepath.Join(s.dir, filename)
	if err := os.Remove(target); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to delete attachment", "file", filename, "error", err.Error())
		}
		return false
	}
	return true
}
