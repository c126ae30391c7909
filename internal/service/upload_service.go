package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/storage"
)

// Upload providers, in selection order.
const (
	ProviderCloudinary = "cloudinary"
	ProviderUpstream   = "upstream"
	ProviderLocal      = "local"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Image kinds; each gets its own folder with the provider.
const (
	KindTeacher = "teacher"
	KindCourse  = "course"
)

// UploadInput carries one image upload.
type UploadInput struct {
	Kind        string
	Filename    string
	ContentType string
	File        io.Reader
	Size        int64
}

// UploadResult describes where an uploaded image landed.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Provider string `json:"provider"`
}

// MultipartPoster is the uploads-proxy slice of the upstream client.
type MultipartPoster interface {
	PostMultipart(ctx context.Context, family upstream.Family, path string, body io.Reader, contentType string) (json.RawMessage, error)
}

// UploadService stores CMS images. Cloudinary is preferred when configured,
// then the upstream uploads endpoint, then local disk as the last resort.
type UploadService struct {
	cld    *cloudinary.Cloudinary
	client MultipartPoster
	local  *storage.LocalStorage
	cfg    config.UploadsConfig
	audit  AuditRecorder
	logger *zap.Logger
}

// UploadServiceParams collects the upload service dependencies.
type UploadServiceParams struct {
	Client MultipartPoster
	Local  *storage.LocalStorage
	Config config.UploadsConfig
	Audit  AuditRecorder
	Logger *zap.Logger
}

// NewUploadService builds an UploadService. A bad Cloudinary URL disables
// that provider rather than failing startup.
func NewUploadService(p UploadServiceParams) *UploadService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	s := &UploadService{
		client: p.Client,
		local:  p.Local,
		cfg:    p.Config,
		audit:  p.Audit,
		logger: p.Logger,
	}
	if p.Config.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(p.Config.CloudinaryURL)
		if err != nil {
			p.Logger.Warn("cloudinary disabled, falling through to next provider", zap.Error(err))
		} else {
			s.cld = cld
		}
	}
	return s
}

// Upload validates and stores one image, returning its public URL.
func (s *UploadService) Upload(ctx context.Context, actor Actor, in UploadInput) (*UploadResult, error) {
	if in.Kind == "" {
		in.Kind = KindCourse
	}
	if in.Kind != KindTeacher && in.Kind != KindCourse {
		return nil, apperrors.WithFields(apperrors.ErrValidation, []apperrors.FieldError{
			{Path: "type", Msg: "Type must be teacher or course"},
		})
	}
	if !allowedImageTypes[strings.ToLower(in.ContentType)] {
		return nil, apperrors.WithFields(apperrors.ErrValidation, []apperrors.FieldError{
			{Path: "image", Msg: "Only image files are allowed"},
		})
	}
	if s.cfg.MaxFileSizeBytes > 0 && in.Size > s.cfg.MaxFileSizeBytes {
		return nil, apperrors.WithFields(apperrors.ErrValidation, []apperrors.FieldError{
			{Path: "image", Msg: fmt.Sprintf("Image must be smaller than %d bytes", s.cfg.MaxFileSizeBytes)},
		})
	}

	result, err := s.store(ctx, in)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, result)
	return result, nil
}

func (s *UploadService) store(ctx context.Context, in UploadInput) (*UploadResult, error) {
	switch {
	case s.cld != nil:
		return s.storeCloudinary(ctx, in)
	case s.client != nil:
		return s.storeUpstream(ctx, in)
	case s.local != nil:
		return s.storeLocal(in)
	default:
		return nil, apperrors.Clone(apperrors.ErrInternal, "no upload provider configured")
	}
}

func (s *UploadService) storeCloudinary(ctx context.Context, in UploadInput) (*UploadResult, error) {
	publicID := strings.TrimSuffix(filepath.Base(in.Filename), filepath.Ext(in.Filename)) + "_" + uuid.NewString()[:8]
	resp, err := s.cld.Upload.Upload(ctx, in.File, uploader.UploadParams{
		Folder:   strings.TrimPrefix(s.cfg.CloudinaryFolder+"/"+in.Kind, "/"),
		PublicID: publicID,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "image upload failed")
	}
	return &UploadResult{
		URL:      resp.SecureURL,
		Filename: resp.PublicID,
		Provider: ProviderCloudinary,
	}, nil
}

func (s *UploadService) storeUpstream(ctx context.Context, in UploadInput) (*UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("type", in.Kind); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filepath.Base(in.Filename)))
	header.Set("Content-Type", in.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, in.File); err != nil {
		return nil, fmt.Errorf("copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	payload, err := s.client.PostMultipart(ctx, upstream.FamilyUploads, "/image", body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil || resp.URL == "" {
		return nil, apperrors.Clone(apperrors.ErrUpstream, "upload response missing file URL")
	}
	return &UploadResult{URL: resp.URL, Filename: resp.Filename, Provider: ProviderUpstream}, nil
}

func (s *UploadService) storeLocal(in UploadInput) (*UploadResult, error) {
	stored := fmt.Sprintf("%s/%s_%s%s",
		in.Kind,
		time.Now().UTC().Format("20060102"),
		uuid.NewString()[:8],
		filepath.Ext(in.Filename))
	if _, err := s.local.SaveStream(stored, in.File); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to store image")
	}
	return &UploadResult{
		URL:      "/uploads/" + stored,
		Filename: stored,
		Provider: ProviderLocal,
	}, nil
}

func (s *UploadService) record(ctx context.Context, actor Actor, result *UploadResult) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		Actor:      actor.Username,
		Action:     models.AuditActionUpload,
		Resource:   result.Provider,
		ResourceID: &result.Filename,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", models.AuditActionUpload), zap.Error(err))
	}
}
