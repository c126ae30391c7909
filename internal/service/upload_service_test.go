package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/storage"
)

type fakeMultipartPoster struct {
	path        string
	contentType string
	body        []byte
	response    string
}

func (f *fakeMultipartPoster) PostMultipart(_ context.Context, _ upstream.Family, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	f.path = path
	f.contentType = contentType
	f.body, _ = io.ReadAll(body)
	return json.RawMessage(f.response), nil
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := NewUploadService(UploadServiceParams{Config: config.UploadsConfig{}})

	_, err := svc.Upload(context.Background(), Actor{}, UploadInput{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		File:        strings.NewReader("x"),
		Size:        1,
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Only image files are allowed", appErr.FieldMap()["image"])
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(UploadServiceParams{Config: config.UploadsConfig{MaxFileSizeBytes: 10}})

	_, err := svc.Upload(context.Background(), Actor{}, UploadInput{
		Filename:    "big.png",
		ContentType: "image/png",
		File:        strings.NewReader("0123456789abc"),
		Size:        13,
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation.Code, appErr.Code)
}

func TestUploadProxiesToUpstream(t *testing.T) {
	poster := &fakeMultipartPoster{response: `{"url": "https://cdn.example.com/img/a.png", "filename": "a.png"}`}
	svc := NewUploadService(UploadServiceParams{
		Client: poster,
		Config: config.UploadsConfig{MaxFileSizeBytes: 1024},
	})

	result, err := svc.Upload(context.Background(), Actor{Username: "admin"}, UploadInput{
		Kind:        KindTeacher,
		Filename:    "a.png",
		ContentType: "image/png",
		File:        strings.NewReader("fakepng"),
		Size:        7,
	})
	require.NoError(t, err)

	assert.Equal(t, ProviderUpstream, result.Provider)
	assert.Equal(t, "https://cdn.example.com/img/a.png", result.URL)
	assert.Equal(t, "/image", poster.path)
	assert.Contains(t, poster.contentType, "multipart/form-data")
	assert.Contains(t, string(poster.body), "fakepng")
	assert.Contains(t, string(poster.body), `name="type"`)
	assert.Contains(t, string(poster.body), "teacher")
}

func TestUploadUpstreamResponseWithoutURL(t *testing.T) {
	poster := &fakeMultipartPoster{response: `{"ok": true}`}
	svc := NewUploadService(UploadServiceParams{Client: poster, Config: config.UploadsConfig{}})

	_, err := svc.Upload(context.Background(), Actor{}, UploadInput{
		Filename:    "a.png",
		ContentType: "image/png",
		File:        strings.NewReader("x"),
		Size:        1,
	})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUpstream.Code, appErr.Code)
}

func TestUploadFallsBackToLocalDisk(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	audit := &fakeAudit{}
	svc := NewUploadService(UploadServiceParams{
		Local:  local,
		Config: config.UploadsConfig{},
		Audit:  audit,
	})

	result, err := svc.Upload(context.Background(), Actor{Username: "admin"}, UploadInput{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		File:        strings.NewReader("jpegdata"),
		Size:        8,
	})
	require.NoError(t, err)

	assert.Equal(t, ProviderLocal, result.Provider)
	assert.True(t, strings.HasPrefix(result.URL, "/uploads/course/"), "default kind is course")
	assert.True(t, strings.HasSuffix(result.Filename, ".jpg"))

	file, err := local.Open(result.Filename)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(content))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "UPLOAD", audit.entries[0].Action)
}
