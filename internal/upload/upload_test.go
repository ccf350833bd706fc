package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func fileFor(data []byte) (multipart.File, *multipart.FileHeader) {
	return memoryFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: "upload.bin",
		Size:     int64(len(data)),
	}
}

func TestReadImageAcceptsSniffedTypes(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantExt string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n rest"), "png"},
		{"gif", []byte("GIF89a rest"), "gif"},
		{"jpeg", []byte("\xff\xd8\xff rest"), "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := fileFor(tt.data)
			img, err := ReadImage(file, header)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, img.Ext)
			assert.Equal(t, tt.data, img.Data)
		})
	}
}

func TestReadImageRejectsOversized(t *testing.T) {
	file, header := fileFor(make([]byte, MaxImageSize+1))

	_, err := ReadImage(file, header)
	require.Error(t, err)
	assert.Equal(t, "Max file size is 2MB.", err.Error())
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestReadImageRejectsLyingHeader(t *testing.T) {
	// Declared size fits, actual bytes do not.
	data := make([]byte, MaxImageSize+1)
	file := memoryFile{bytes.NewReader(data)}
	header := &multipart.FileHeader{Filename: "small.png", Size: 10}

	_, err := ReadImage(file, header)
	require.Error(t, err)
	assert.Equal(t, "Max file size is 2MB.", err.Error())
}

func TestReadImageRejectsWrongType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("just some text, definitely not an image")},
		{"pdf", []byte("%PDF-1.4 something")},
		{"svg disguised", []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := fileFor(tt.data)
			_, err := ReadImage(file, header)
			require.Error(t, err)
			assert.Equal(t, "Only JPG, PNG, GIF allowed.", err.Error())
		})
	}
}

func TestStoreSaveAndRemove(t *testing.T) {
	store := NewStore(t.TempDir(), logger.New(logger.ErrorLevel, io.Discard))

	name, err := store.SaveAvatar(1, &domain.ImageUpload{Data: []byte("\x89PNG\r\n\x1a\n"), Ext: "png"})
	require.NoError(t, err)
	assert.Contains(t, name, "avatar_1_")

	// Stored names with path components never escape the upload dir.
	assert.Equal(t, store.AvatarPath(name), store.AvatarPath("../../"+name))

	store.RemoveAvatar(name)
	store.RemoveAvatar(name) // second removal is a no-op
}
