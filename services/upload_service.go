package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/logging"
)

// UploadService stores profile and product pictures under the upload
// directory. Stored files are served at /assets/{name}.
//
// Names are "<uuid>_<original base><ext>", restricted to characters that
// need no escaping in a URL path segment. The extension always follows the
// sniffed content type, never the client's file name.
type UploadService interface {
	// SaveImage validates and stores one picture and returns its name.
	SaveImage(file multipart.File, header *multipart.FileHeader) (string, error)

	// Remove deletes a stored picture. Handlers call it when the write that
	// would have referenced the picture fails. A missing file is not an error.
	Remove(name string) error
}

type uploadService struct {
	uploadDir string
	maxSize   int64
}

func NewUploadService(uploadDir string, maxSize int64) UploadService {
	return &uploadService{uploadDir: uploadDir, maxSize: maxSize}
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveImage checks size and content type, writes the file under a random
// name and returns that name.
func (s *uploadService) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxSize {
		return "", fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	// The client's Content-Type is not trusted; sniff the first bytes.
	br := bufio.NewReaderSize(file, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	mimeType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeType)
	}

	name := uuid.NewString() + "_" + sanitizeFilename(header.Filename, ext)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	destPath := filepath.Join(s.uploadDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dest.Close()

	written, err := io.Copy(dest, io.LimitReader(br, s.maxSize+1))
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(destPath)
		return "", fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	logging.Debug().Str("file", name).Int64("bytes", written).Msg("[upload] image stored")
	return name, nil
}

func (s *uploadService) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: invalid file name", pkg.ErrBadRequest)
	}
	err := os.Remove(filepath.Join(s.uploadDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	logging.Debug().Str("file", name).Msg("[upload] image removed")
	return nil
}

// sanitizeFilename keeps only [A-Za-z0-9._-] of the base name and forces
// ext, so the stored name can be fetched back through /assets/{name}
// without escaping.
func sanitizeFilename(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return -1
	}, name)

	base := strings.Trim(strings.TrimSuffix(name, filepath.Ext(name)), ".")
	if base == "" {
		base = "image"
	}
	return base + ext
}
