package services

import (
	"context"
	"mime/multipart"
	"regexp"
	"strings"

	"inkchat/backend"
	apperrors "inkchat/errors"
	"inkchat/session"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFMediaType is the only media type accepted for upload.
const PDFMediaType = "application/pdf"

// Status tracks one upload attempt through its lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusValidating
	StatusTransferring
	StatusSucceeded
	StatusFailed
)

// Attempt is the record of a single file-selection-to-completion cycle.
type Attempt struct {
	Filename   string
	DocumentID string
	Status     Status
	Err        error
}

type UploadService struct {
	client   *backend.Client
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadService(client *backend.Client, maxBytes int64, logger *zap.Logger) *UploadService {
	return &UploadService{
		client:   client,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ValidateFile checks the upload candidate before any transfer is attempted.
// Checks run in order and short-circuit on the first failure: presence,
// exact PDF media type, then size.
func (us *UploadService) ValidateFile(file *multipart.FileHeader) error {
	if file == nil {
		return apperrors.ErrMissingFile
	}
	if file.Header.Get("Content-Type") != PDFMediaType {
		return apperrors.ErrInvalidFileType
	}
	if file.Size > us.maxBytes {
		return apperrors.ErrFileTooLarge
	}
	return nil
}

// Submit runs one upload attempt: validate, transfer, and on success record
// the returned document identifier as the session's active document. That
// write is the only persisted-state mutation, and it happens only on
// success. There is no automatic retry; a failed attempt ends the cycle.
func (us *UploadService) Submit(ctx context.Context, sess *session.State, file *multipart.FileHeader) *Attempt {
	attempt := &Attempt{Status: StatusValidating}
	if file != nil {
		attempt.Filename = sanitizeFilename(file.Filename)
	}

	if err := us.ValidateFile(file); err != nil {
		attempt.Status = StatusFailed
		attempt.Err = err
		return attempt
	}

	src, err := file.Open()
	if err != nil {
		us.logger.Error("Failed to open uploaded file",
			zap.Error(err),
			zap.String("filename", attempt.Filename),
			zap.String("session_id", sess.ID.String()))
		attempt.Status = StatusFailed
		attempt.Err = apperrors.WrapError(apperrors.ErrUploadFailed, "could not read file")
		return attempt
	}
	defer src.Close()

	us.probePageCount(src, file.Size, attempt.Filename)

	attempt.Status = StatusTransferring
	documentID, err := us.client.UploadDocument(ctx, attempt.Filename, src)
	if err != nil {
		us.logger.Error("Document transfer failed",
			zap.Error(err),
			zap.String("filename", attempt.Filename),
			zap.String("session_id", sess.ID.String()))
		attempt.Status = StatusFailed
		attempt.Err = err
		return attempt
	}

	sess.SetDocument(documentID)
	attempt.Status = StatusSucceeded
	attempt.DocumentID = documentID

	us.logger.Info("File uploaded successfully",
		zap.String("filename", attempt.Filename),
		zap.String("document", documentID),
		zap.String("session_id", sess.ID.String()),
		zap.Int64("size_bytes", file.Size))

	return attempt
}

// probePageCount logs the page count of an accepted upload. It is
// diagnostics only: a file that passed validation is transferred whether or
// not it parses here. The reader is rewound before returning.
func (us *UploadService) probePageCount(src multipart.File, size int64, filename string) {
	defer func() {
		if r := recover(); r != nil {
			us.logger.Debug("Page count probe panicked", zap.Any("cause", r), zap.String("filename", filename))
		}
		src.Seek(0, 0)
	}()

	reader, err := pdf.NewReader(src, size)
	if err != nil {
		us.logger.Debug("Page count probe failed", zap.Error(err), zap.String("filename", filename))
		return
	}
	us.logger.Info("Accepted PDF for upload",
		zap.String("filename", filename),
		zap.Int("pages", reader.NumPage()))
}

// sanitizeFilename cleans the relayed filename for safe transfer and
// logging by stripping path traversal attempts and unsafe characters.
func sanitizeFilename(filename string) string {
	sanitized := strings.Trim(filename, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	reg := regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)
	sanitized = reg.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}
