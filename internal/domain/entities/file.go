package entities

import (
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is the largest accepted upload in bytes
	MaxFileSize = 5 << 20
	// MaxFilesPerUpload bounds a multi-file upload
	MaxFilesPerUpload = 15
)

// File is the metadata of an uploaded object. The bytes live in file storage under StorageKey.
type File struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	OriginalName string    `json:"originalName"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	FileURL      string    `json:"fileUrl"`
	StorageKey   string    `json:"-"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FileUpload is one incoming file. Size is the length the client declared.
type FileUpload struct {
	OriginalName string
	Size         int64
	Body         io.Reader
}

// DeleteFilesInput removes several files at once
type DeleteFilesInput struct {
	FileIDs []uuid.UUID `json:"fileIds" binding:"required,min=1,max=10,unique"`
}
