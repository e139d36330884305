package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tieubaoca/docinsight-be/types"
)

// FileService stores uploaded PDFs under a flat upload directory with
// sanitized, timestamped names so repeated uploads of the same title
// never collide.
type FileService struct {
	uploadDir string
}

func NewFileService(uploadDir string) *FileService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	return &FileService{
		uploadDir: uploadDir,
	}
}

// SaveUpload writes the uploaded file to disk and returns the stored
// path. Only PDFs are accepted.
func (s *FileService) SaveUpload(req types.UploadRequest, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	title := req.Title
	if title == "" {
		title = file.Filename
	}
	originalName := strings.TrimSuffix(title, ext)
	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("%s_%d%s", originalName, timestamp, ext)

	filename = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, filename)

	storedPath := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(storedPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}

	return storedPath, nil
}

// ListDocuments returns the names of stored PDFs.
func (s *FileService) ListDocuments() ([]string, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ResolveDocument maps a stored document name back to its path,
// rejecting names that escape the upload directory.
func (s *FileService) ResolveDocument(name string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid document name: %s", name)
	}
	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document %s: %w", name, err)
	}
	return path, nil
}
