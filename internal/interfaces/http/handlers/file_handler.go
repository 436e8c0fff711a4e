package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/interfaces/http/response"
)

// multipart framing allowance on top of the file bytes
const multipartOverhead = 1 << 20

type fileService interface {
	UploadSingle(ctx context.Context, userID uuid.UUID, upload *entities.FileUpload) (*entities.File, error)
	UploadMultiple(ctx context.Context, userID uuid.UUID, uploads []*entities.FileUpload) ([]*entities.File, error)
	Detail(ctx context.Context, id uuid.UUID) (*entities.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMultiple(ctx context.Context, input *entities.DeleteFilesInput) error
}

// FileHandler serves image uploads
type FileHandler struct {
	usecase fileService
}

func NewFileHandler(usecase fileService) *FileHandler {
	return &FileHandler{usecase: usecase}
}

func fileRequired(c *gin.Context) {
	response.Error(c, domainerrors.BadRequest(domainerrors.KeyFileIsRequired, "file is required"))
}

func openUpload(fh *multipart.FileHeader) (*entities.FileUpload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &entities.FileUpload{OriginalName: fh.Filename, Size: fh.Size, Body: f}, f, nil
}

// UploadSingle takes the multipart field "file"
// POST /api/v1/files/upload/single
func (h *FileHandler) UploadSingle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, entities.MaxFileSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		fileRequired(c)
		return
	}
	upload, closer, err := openUpload(fh)
	if err != nil {
		fileRequired(c)
		return
	}
	defer closer.Close()

	file, err := h.usecase.UploadSingle(c.Request.Context(), userID, upload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "UPLOAD_SUCCESS", file)
}

// UploadMultiple takes every multipart field named "files"
// POST /api/v1/files/upload/multiple
func (h *FileHandler) UploadMultiple(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, entities.MaxFilesPerUpload*entities.MaxFileSize+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		fileRequired(c)
		return
	}

	headers := form.File["files"]
	uploads := make([]*entities.FileUpload, 0, len(headers))
	for _, fh := range headers {
		upload, closer, err := openUpload(fh)
		if err != nil {
			fileRequired(c)
			return
		}
		defer closer.Close()
		uploads = append(uploads, upload)
	}

	files, err := h.usecase.UploadMultiple(c.Request.Context(), userID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "UPLOAD_SUCCESS", files)
}

// Detail
// GET /api/v1/files/:id
func (h *FileHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := h.usecase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", file)
}

// Delete
// DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.usecase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "DELETE_SUCCESS", nil)
}

// DeleteMultiple
// POST /api/v1/files/delete-multiple
func (h *FileHandler) DeleteMultiple(c *gin.Context) {
	var input entities.DeleteFilesInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.usecase.DeleteMultiple(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "DELETE_SUCCESS", nil)
}
