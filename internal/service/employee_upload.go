package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/employee-admin/pkg/errors"
	"github.com/noah-isme/employee-admin/pkg/storage"
)

// sniffLen is the header length filetype needs to recognise every matcher.
const sniffLen = 262

const maxFilenameAttempts = 5

var allowedImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ImageUpload carries an uploaded employee photo.
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.ReadSeeker
}

type imageStorage interface {
	SaveStream(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, filename string) error
	URL(filename string) string
}

// checkImage validates size and content type and returns the extension to store the file under.
func (s *EmployeeService) checkImage(upload *ImageUpload) (string, error) {
	if upload.Content == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, msgImageRequired)
	}
	if upload.Size > s.cfg.MaxImageSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Image exceeds %d bytes limit", s.cfg.MaxImageSize))
	}
	kind, err := detectImageType(upload.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read image")
	}
	if _, ok := allowedImageMIMEs[strings.ToLower(kind.MIME.Value)]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, msgImageType)
	}
	ext := filepath.Ext(filepath.Base(upload.Filename))
	if ext == "" {
		ext = "." + kind.Extension
	}
	return ext, nil
}

func detectImageType(r io.ReadSeeker) (types.Type, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return filetype.Unknown, err
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return filetype.Unknown, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return filetype.Unknown, err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return filetype.Unknown, nil
	}
	return kind, nil
}

// storeImage writes the photo under "<unix millis><ext>", stepping the timestamp forward
// when a file with that name already exists.
func (s *EmployeeService) storeImage(ctx context.Context, upload *ImageUpload, ext string) (string, error) {
	base := s.now().UnixMilli()
	for attempt := 0; attempt < maxFilenameAttempts; attempt++ {
		if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
		}
		name := fmt.Sprintf("%d%s", base+int64(attempt), ext)
		stored, err := s.storage.SaveStream(ctx, name, upload.Content)
		if errors.Is(err, storage.ErrExists) {
			continue
		}
		if err != nil {
			s.metrics.RecordUpload(false, 0)
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
		}
		s.metrics.RecordUpload(true, upload.Size)
		return stored, nil
	}
	s.metrics.RecordUpload(false, 0)
	return "", appErrors.Clone(appErrors.ErrInternal, "failed to allocate image filename")
}

func (s *EmployeeService) discardImage(ctx context.Context, filename string) {
	if err := s.storage.Delete(ctx, filename); err != nil {
		s.logger.Warn("failed to remove image", zap.String("file", filename), zap.Error(err))
	}
}
