package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/decode"
	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/internal/validation"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

// ReadmissionClient is the slice of the upstream client the readmission
// service needs.
type ReadmissionClient interface {
	Get(ctx context.Context, family upstream.Family, path string) (json.RawMessage, error)
	Post(ctx context.Context, family upstream.Family, path string, body interface{}) (json.RawMessage, error)
	Put(ctx context.Context, family upstream.Family, path string, body interface{}) (json.RawMessage, error)
}

// ReadmissionService handles the readmission workflow: public submission,
// admin listing and the pending to approved/rejected transitions. Approval
// is refused while the referenced slot is full; both outcomes are terminal.
type ReadmissionService struct {
	client ReadmissionClient
	audit  AuditRecorder
	logger *zap.Logger
}

// ReadmissionServiceParams collects the readmission service dependencies.
type ReadmissionServiceParams struct {
	Client ReadmissionClient
	Audit  AuditRecorder
	Logger *zap.Logger
}

// NewReadmissionService builds a ReadmissionService.
func NewReadmissionService(p ReadmissionServiceParams) *ReadmissionService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &ReadmissionService{client: p.Client, audit: p.Audit, logger: p.Logger}
}

// Submit validates and forwards a public readmission request.
func (s *ReadmissionService) Submit(ctx context.Context, form dto.ReadmissionForm) (*models.Readmission, error) {
	if verr := validation.Readmission(form).Error(); verr != nil {
		return nil, verr
	}

	payload, err := s.client.Post(ctx, upstream.FamilyPublic, "/readmissions", form)
	if err != nil {
		return nil, err
	}

	record, err := decode.ReadmissionRecord(payload)
	if err != nil {
		// The submission went through; a response shape we cannot decode
		// falls back to echoing the request as a pending record.
		s.logger.Debug("readmission response not decodable", zap.Error(err))
		return &models.Readmission{
			StudentName: form.StudentName,
			Subject:     form.Subject,
			Contact:     form.Contact,
			SlotName:    form.SlotName,
			Batch:       form.Batch,
			Status:      models.ReadmissionPending,
			Notes:       form.Notes,
		}, nil
	}
	return &record, nil
}

// List returns all readmission requests for the admin console.
func (s *ReadmissionService) List(ctx context.Context) ([]models.Readmission, error) {
	payload, err := s.client.Get(ctx, upstream.FamilyAdmin, "/readmissions")
	if err != nil {
		return nil, err
	}
	return decode.Readmissions(payload)
}

// Approve transitions a pending request to approved. The transition is
// refused when the request is no longer pending or its slot is full.
func (s *ReadmissionService) Approve(ctx context.Context, actor Actor, id string) (*models.Readmission, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != models.ReadmissionPending {
		return nil, apperrors.Clone(apperrors.ErrConflict, "only pending requests can be approved")
	}
	if !CanApprove(record.SlotInfo) {
		return nil, apperrors.ErrSlotFull
	}

	payload, err := s.client.Put(ctx, upstream.FamilyAdmin, "/readmissions/"+id+"/approve", nil)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.AuditActionApprove, id)
	return s.decodeTransition(payload, record, models.ReadmissionApproved), nil
}

// Reject transitions a pending request to rejected.
func (s *ReadmissionService) Reject(ctx context.Context, actor Actor, id string) (*models.Readmission, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != models.ReadmissionPending {
		return nil, apperrors.Clone(apperrors.ErrConflict, "only pending requests can be rejected")
	}

	payload, err := s.client.Put(ctx, upstream.FamilyAdmin, "/readmissions/"+id+"/reject", nil)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.AuditActionReject, id)
	return s.decodeTransition(payload, record, models.ReadmissionRejected), nil
}

func (s *ReadmissionService) find(ctx context.Context, id string) (models.Readmission, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Readmission{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return models.Readmission{}, apperrors.Clone(apperrors.ErrNotFound, "readmission request not found")
}

func (s *ReadmissionService) decodeTransition(payload json.RawMessage, fallback models.Readmission, status string) *models.Readmission {
	if len(payload) > 0 {
		if record, err := decode.ReadmissionRecord(payload); err == nil && record.ID != "" {
			return &record
		}
	}
	fallback.Status = status
	return &fallback
}

func (s *ReadmissionService) record(ctx context.Context, actor Actor, action, id string) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		Actor:      actor.Username,
		Action:     action,
		Resource:   "readmissions",
		ResourceID: &id,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
