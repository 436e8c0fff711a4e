package usecases

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/utils"
)

const sniffLen = 3072

var acceptedFileTypes = []string{"image/jpeg", "image/png", "image/gif"}

var (
	fileNow       = time.Now
	newStorageKey = func(ext string) string {
		return fileNow().UTC().Format("2006/01/") + utils.NewID().String() + ext
	}
)

// FileUsecase stores uploaded images and their metadata
type FileUsecase struct {
	files   repositories.FileRepository
	storage repositories.FileStorage
	uow     repositories.UnitOfWork
}

func NewFileUsecase(files repositories.FileRepository, storage repositories.FileStorage, uow repositories.UnitOfWork) *FileUsecase {
	return &FileUsecase{files: files, storage: storage, uow: uow}
}

// countingReader fails once more than limit bytes went through it
type countingReader struct {
	r     io.Reader
	n     int64
	limit int64
}

var errFileTooLarge = errors.New("file too large")

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.limit {
		return n, errFileTooLarge
	}
	return n, err
}

type preparedUpload struct {
	name     string
	mimeType string
	ext      string
	body     *countingReader
}

func uploadFailed(err error) *domainerrors.AppError {
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.KeyUploadFailed, "upload failed", err)
}

// checkDeclared rejects what can be rejected without reading the body
func checkDeclared(upload *entities.FileUpload) error {
	if upload == nil || upload.Body == nil {
		return badRequest(domainerrors.KeyFileIsRequired, domainerrors.ErrFileRejected)
	}
	if upload.Size > entities.MaxFileSize {
		return badRequest(domainerrors.KeyFileSizeInvalid, domainerrors.ErrFileRejected)
	}
	return nil
}

// prepare sniffs the content type from the first bytes. The declared type is never trusted.
func prepare(upload *entities.FileUpload) (*preparedUpload, error) {
	if err := checkDeclared(upload); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, badRequest(domainerrors.KeyFileIsRequired, domainerrors.ErrFileRejected)
	}
	if n == 0 {
		return nil, badRequest(domainerrors.KeyFileIsRequired, domainerrors.ErrFileRejected)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), acceptedFileTypes...) {
		return nil, badRequest(domainerrors.KeyFileTypeInvalid, domainerrors.ErrFileRejected)
	}

	return &preparedUpload{
		name:     upload.OriginalName,
		mimeType: mt.String(),
		ext:      mt.Extension(),
		body: &countingReader{
			r:     io.MultiReader(bytes.NewReader(head), upload.Body),
			limit: entities.MaxFileSize,
		},
	}, nil
}

// put writes one prepared upload to storage and returns its unsaved metadata
func (u *FileUsecase) put(ctx context.Context, userID uuid.UUID, p *preparedUpload) (*entities.File, error) {
	key := newStorageKey(p.ext)
	url, err := u.storage.Put(ctx, key, p.body)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			u.discard(ctx, key)
			return nil, badRequest(domainerrors.KeyFileSizeInvalid, domainerrors.ErrFileRejected)
		}
		return nil, uploadFailed(err)
	}
	return &entities.File{
		UserID:       userID,
		OriginalName: p.name,
		FileType:     p.mimeType,
		FileSize:     p.body.n,
		FileURL:      url,
		StorageKey:   key,
		Provider:     u.storage.Provider(),
	}, nil
}

func (u *FileUsecase) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := u.storage.Delete(ctx, key); err != nil {
			logger.Warn(ctx, "Failed to remove stored file", zap.String("key", key), zap.Error(err))
		}
	}
}

// UploadSingle stores one image for the caller
func (u *FileUsecase) UploadSingle(ctx context.Context, userID uuid.UUID, upload *entities.FileUpload) (*entities.File, error) {
	p, err := prepare(upload)
	if err != nil {
		return nil, err
	}
	file, err := u.put(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	if err := u.files.Create(ctx, file); err != nil {
		u.discard(ctx, file.StorageKey)
		return nil, uploadFailed(err)
	}

	logger.Info(ctx, "File uploaded", zap.String("user_id", userID.String()), zap.String("file_id", file.ID.String()), zap.Int64("size", file.FileSize))
	return file, nil
}

// UploadMultiple stores a batch of images. Either every file is kept or none is.
func (u *FileUsecase) UploadMultiple(ctx context.Context, userID uuid.UUID, uploads []*entities.FileUpload) ([]*entities.File, error) {
	if len(uploads) == 0 {
		return nil, badRequest(domainerrors.KeyFileIsRequired, domainerrors.ErrFileRejected)
	}
	if len(uploads) > entities.MaxFilesPerUpload {
		return nil, badRequest(domainerrors.KeyFileMaximumQuantity, domainerrors.ErrFileRejected)
	}
	for _, upload := range uploads {
		if err := checkDeclared(upload); err != nil {
			return nil, err
		}
	}

	files := make([]*entities.File, 0, len(uploads))
	keys := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		p, err := prepare(upload)
		if err == nil {
			var file *entities.File
			file, err = u.put(ctx, userID, p)
			if err == nil {
				files = append(files, file)
				keys = append(keys, file.StorageKey)
				continue
			}
		}
		u.discard(ctx, keys...)
		return nil, err
	}

	err := u.uow.Do(ctx, func(ctx context.Context) error {
		for _, file := range files {
			if err := u.files.Create(ctx, file); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.discard(ctx, keys...)
		return nil, uploadFailed(err)
	}

	logger.Info(ctx, "Files uploaded", zap.String("user_id", userID.String()), zap.Int("count", len(files)))
	return files, nil
}

// Detail returns one file's metadata
func (u *FileUsecase) Detail(ctx context.Context, id uuid.UUID) (*entities.File, error) {
	file, err := u.files.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(domainerrors.KeyNotFound)
		}
		return nil, internal(err)
	}
	return file, nil
}

// Delete removes a file's metadata, then its bytes
func (u *FileUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := u.Detail(ctx, id)
	if err != nil {
		return err
	}
	if _, err := u.files.DeleteByIDs(ctx, []uuid.UUID{id}); err != nil {
		return internal(err)
	}
	u.discard(ctx, file.StorageKey)
	return nil
}

// DeleteMultiple removes several files. Any unknown id fails the whole request before anything is deleted.
func (u *FileUsecase) DeleteMultiple(ctx context.Context, input *entities.DeleteFilesInput) error {
	files, err := u.files.FindByIDs(ctx, input.FileIDs)
	if err != nil {
		return internal(err)
	}
	if len(files) == 0 || len(files) != len(input.FileIDs) {
		return notFound(domainerrors.KeyNotFound)
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		n, err := u.files.DeleteByIDs(ctx, input.FileIDs)
		if err != nil {
			return err
		}
		if n != int64(len(input.FileIDs)) {
			return domainerrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return notFound(domainerrors.KeyNotFound)
		}
		return internal(err)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, file.StorageKey)
	}
	u.discard(ctx, keys...)
	return nil
}
