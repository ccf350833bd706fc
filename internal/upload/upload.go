package upload

import (
	"io"
	"mime/multipart"
	"net/http"

	"forumapi/internal/domain"
	"forumapi/pkg/metrics"
)

// MaxImageSize caps uploads at 2MB.
const MaxImageSize = 2 * 1024 * 1024

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// ReadImage buffers and validates a multipart image. The MIME type comes from
// sniffing the bytes, not from the client-supplied header or filename.
// Nothing is written to disk here, so a rejected upload leaves no state.
func ReadImage(file multipart.File, header *multipart.FileHeader) (*domain.ImageUpload, error) {
	if header.Size > MaxImageSize {
		metrics.RecordUploadRejected("too_large")
		return nil, domain.Validation("Max file size is 2MB.")
	}

	// Read one byte past the limit in case the declared size lies.
	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		metrics.RecordUploadRejected("too_large")
		return nil, domain.Validation("Max file size is 2MB.")
	}

	ext, ok := allowedTypes[http.DetectContentType(data)]
	if !ok {
		metrics.RecordUploadRejected("bad_type")
		return nil, domain.Validation("Only JPG, PNG, GIF allowed.")
	}

	return &domain.ImageUpload{Data: data, Ext: ext}, nil
}
