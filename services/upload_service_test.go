package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/pkg"
)

// formFile builds a real multipart request so SaveImage gets the same
// File and FileHeader the handlers pass in.
func formFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("picture", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	file, header, err := req.FormFile("picture")
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadService_SaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	svc := NewUploadService(dir, 1<<20)

	file, header := formFile(t, "../../me selfie.jpeg", pngBytes(t))
	name, err := svc.SaveImage(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_meselfie.png"), name)
	assert.NotContains(t, name, "/")

	prefix, _, ok := strings.Cut(name, "_")
	require.True(t, ok, name)
	_, err = uuid.Parse(prefix)
	assert.NoError(t, err, name)

	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), stored)
}

func TestUploadService_RejectsNonImages(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1<<20)

	file, header := formFile(t, "notes.png", []byte("just some text, not an image"))
	_, err := svc.SaveImage(file, header)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestUploadService_RejectsLargeFiles(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 16)

	file, header := formFile(t, "big.png", pngBytes(t))
	_, err := svc.SaveImage(file, header)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"face.jpeg", "face.png"},
		{"a?b#c%d.png", "abcd.png"},
		{"my photo (1).jpg", "myphoto1.png"},
		{`C:\Users\me\glow.gif`, "glow.png"},
		{"ürün.png", "rn.png"},
		{"???.png", "image.png"},
		{"..", "image.png"},
		{"skin-care_v2.final.jpg", "skin-care_v2.final.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in, ".png"), tt.in)
	}
}

func TestUploadService_Remove(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 1<<20)

	file, header := formFile(t, "gone.png", pngBytes(t))
	name, err := svc.SaveImage(file, header)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Already gone.
	assert.NoError(t, svc.Remove(name))

	assert.ErrorIs(t, svc.Remove("../outside.png"), pkg.ErrBadRequest)
	assert.ErrorIs(t, svc.Remove(""), pkg.ErrBadRequest)
}
