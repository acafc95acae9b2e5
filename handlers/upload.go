// Package handlers: multipart picture helpers shared by the user and
// product handlers.
//
// The order is always the same: check that the requester may change the
// target, parse the form, store the picture, then run the update. A
// picture is written to disk only after the ownership check passes, and
// removed again when the update fails, so rejected requests leave nothing
// in the upload directory.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/services"
)

// pictureField is the multipart field carrying profile and product pictures.
const pictureField = "picture"

// saveFormPicture stores the picture of an already parsed multipart form.
// It returns "" without error when the form has no picture.
func saveFormPicture(r *http.Request, uploads services.UploadService) (string, error) {
	file, header, err := r.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s field", pkg.ErrBadRequest, pictureField)
	}
	defer file.Close()

	return uploads.SaveImage(file, header)
}

// parseMultipart parses a multipart body of at most maxSize bytes.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", pkg.ErrBadRequest)
	}
	return nil
}

// discardPicture removes a picture stored earlier in the same request. Only
// names this request uploaded are touched; a JSON picture_path is left
// alone.
func discardPicture(uploads services.UploadService, name string, uploaded bool) {
	if !uploaded || name == "" {
		return
	}
	if err := uploads.Remove(name); err != nil {
		logging.Warn().Err(err).Str("file", name).Msg("[upload] failed to discard picture")
	}
}
