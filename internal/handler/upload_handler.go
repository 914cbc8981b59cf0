package handler

import (
	"errors"
	"ir-portal/internal/middleware"
	"ir-portal/internal/upload"
	"net/http"
)

// multipartMemory is how much of a form is held in memory before spilling to disk.
const multipartMemory = 32 << 20

// UploadHandler accepts media files for the admin forms.
type UploadHandler struct {
	store *upload.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) uploadHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	// Leave room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return badRequest("File is too large")
		}
		return badRequest("Expected a multipart form with a file field")
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return badRequest("No file uploaded")
	}
	f, err := h.store.Save(files[0], r.FormValue("type"))
	if err != nil {
		if errors.Is(err, upload.ErrInvalid) {
			return badRequest(err.Error())
		}
		return serviceError(err, "Upload")
	}
	return ok(w, f)
}
