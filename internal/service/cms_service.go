package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
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

// Writer is the write slice of the upstream client.
type Writer interface {
	Post(ctx context.Context, family upstream.Family, path string, body interface{}) (json.RawMessage, error)
	Put(ctx context.Context, family upstream.Family, path string, body interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, family upstream.Family, path string) (json.RawMessage, error)
}

// AuditRecorder persists admin action records. Implemented by the audit
// repository; recording is best effort and never fails a write.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog) error
}

// Actor identifies the admin performing a write, for the audit trail.
type Actor struct {
	Username  string
	IPAddress string
	UserAgent string
}

const confirmActionDelete = "delete"

// sectionOps binds one CMS section to its upstream path, its validator and
// the decoder for single records coming back from writes.
type sectionOps struct {
	path          string
	validate      func(raw json.RawMessage) (interface{}, validation.ErrorMap, error)
	decodeItem    func(raw json.RawMessage) (interface{}, error)
	confirmDelete bool
}

// CMSService drives the admin write path: validate locally, write upstream,
// optimistically patch the reconciled state, then schedule a delayed refetch
// so the state converges on what the backend stored.
type CMSService struct {
	client     Writer
	reconciler *Reconciler
	confirm    *ConfirmBroker
	audit      AuditRecorder
	logger     *zap.Logger
	sections   map[string]sectionOps
}

// CMSServiceParams collects the CMS service dependencies.
type CMSServiceParams struct {
	Client     Writer
	Reconciler *Reconciler
	Confirm    *ConfirmBroker
	Audit      AuditRecorder
	Logger     *zap.Logger
}

// NewCMSService builds a CMSService.
func NewCMSService(p CMSServiceParams) *CMSService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Confirm == nil {
		p.Confirm = NewConfirmBroker()
	}
	return &CMSService{
		client:     p.Client,
		reconciler: p.Reconciler,
		confirm:    p.Confirm,
		audit:      p.Audit,
		logger:     p.Logger,
		sections:   sectionOpsTable(),
	}
}

func sectionOpsTable() map[string]sectionOps {
	return map[string]sectionOps{
		models.SectionCarousel: {
			path: "/cms/carousel",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.CarouselForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Carousel(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.CarouselItem(raw) },
		},
		models.SectionOffers: {
			path: "/cms/offers",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.OfferForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Offer(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.Offer(raw) },
		},
		models.SectionOngoingCourses: {
			path: "/cms/ongoing-courses",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.OngoingCourseForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.OngoingCourse(form), nil
			},
			decodeItem:    func(raw json.RawMessage) (interface{}, error) { return decode.OngoingCourse(raw) },
			confirmDelete: true,
		},
		models.SectionCourses: {
			path: "/cms/courses",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.CourseForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Course(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.Course(raw) },
		},
		models.SectionMerchandise: {
			path: "/cms/merchandise",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.MerchandiseForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Merchandise(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.MerchandiseItem(raw) },
		},
		models.SectionSlots: {
			path: "/cms/slots",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.SlotForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Slot(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.SlotRecord(raw) },
		},
		models.SectionTestimonials: {
			path: "/cms/testimonials",
			validate: func(raw json.RawMessage) (interface{}, validation.ErrorMap, error) {
				var form dto.TestimonialForm
				if err := json.Unmarshal(raw, &form); err != nil {
					return nil, nil, err
				}
				return form, validation.Testimonial(form), nil
			},
			decodeItem: func(raw json.RawMessage) (interface{}, error) { return decode.Testimonial(raw) },
		},
	}
}

func (s *CMSService) ops(section string) (sectionOps, *apperrors.Error) {
	ops, ok := s.sections[section]
	if !ok {
		return sectionOps{}, apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("unknown content section %q, expected one of: %s", section, strings.Join(models.Sections, ", ")))
	}
	return ops, nil
}

// Create validates and submits a new record. On success the reconciled state
// is patched with the stored record and a delayed refetch is scheduled.
func (s *CMSService) Create(ctx context.Context, actor Actor, section string, raw json.RawMessage) (interface{}, error) {
	ops, opErr := s.ops(section)
	if opErr != nil {
		return nil, opErr
	}

	form, errMap, err := ops.validate(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid request body")
	}
	if verr := errMap.Error(); verr != nil {
		return nil, verr
	}

	payload, err := s.client.Post(ctx, upstream.FamilyAdmin, ops.path, form)
	if err != nil {
		return nil, err
	}

	item := s.patchFromPayload(ops, payload)
	s.reconciler.ScheduleRefresh()
	s.record(ctx, actor, models.AuditActionCMSCreate, section, itemID(item), raw)
	return item, nil
}

// Update validates and submits an edit. Legacy-shape carousel records are
// refused before any network call.
func (s *CMSService) Update(ctx context.Context, actor Actor, section, id string, raw json.RawMessage) (interface{}, error) {
	ops, opErr := s.ops(section)
	if opErr != nil {
		return nil, opErr
	}

	if section == models.SectionCarousel {
		if err := s.blockLegacyEdit(ctx, id); err != nil {
			return nil, err
		}
	}

	form, errMap, err := ops.validate(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid request body")
	}
	if verr := errMap.Error(); verr != nil {
		return nil, verr
	}

	payload, err := s.client.Put(ctx, upstream.FamilyAdmin, ops.path+"/"+id, form)
	if err != nil {
		return nil, err
	}

	item := s.patchFromPayload(ops, payload)
	s.reconciler.ScheduleRefresh()
	s.record(ctx, actor, models.AuditActionCMSUpdate, section, &id, raw)
	return item, nil
}

// Delete removes a record. Ongoing-course deletions require a confirmation
// token: the first call without one is refused with a fresh token the caller
// echoes back to proceed.
func (s *CMSService) Delete(ctx context.Context, actor Actor, section, id, confirmToken string) error {
	ops, opErr := s.ops(section)
	if opErr != nil {
		return opErr
	}

	if ops.confirmDelete {
		if confirmToken == "" {
			token := s.confirm.Issue(confirmActionDelete, id)
			refusal := apperrors.Clone(apperrors.ErrConfirmationRequired,
				"deleting this item removes it from the public site, confirm to proceed")
			refusal.Data = map[string]string{"confirmToken": token}
			return refusal
		}
		if !s.confirm.Consume(confirmToken, confirmActionDelete, id) {
			return apperrors.Clone(apperrors.ErrConfirmationRequired, "confirmation token is invalid or expired")
		}
	}

	if _, err := s.client.Delete(ctx, upstream.FamilyAdmin, ops.path+"/"+id); err != nil {
		return err
	}

	s.reconciler.ApplyDelete(section, id)
	s.reconciler.ScheduleRefresh()
	s.record(ctx, actor, models.AuditActionCMSDelete, section, &id, nil)
	return nil
}

// Reorder submits the full carousel order.
func (s *CMSService) Reorder(ctx context.Context, actor Actor, form dto.ReorderForm) error {
	if len(form.OrderedIDs) == 0 {
		return apperrors.WithFields(apperrors.ErrValidation, []apperrors.FieldError{
			{Path: "orderedIds", Msg: "Ordered id list is required"},
		})
	}

	if _, err := s.client.Post(ctx, upstream.FamilyAdmin, "/cms/carousel/reorder", form); err != nil {
		return err
	}

	s.reconciler.ApplyReorder(form.OrderedIDs)
	s.reconciler.ScheduleRefresh()
	s.record(ctx, actor, models.AuditActionCMSReorder, models.SectionCarousel, nil, nil)
	return nil
}

// blockLegacyEdit refuses edits on carousel records decoded from a legacy
// shape; they cannot round-trip through the current edit form.
func (s *CMSService) blockLegacyEdit(ctx context.Context, id string) error {
	state, err := s.reconciler.State(ctx)
	if err != nil {
		return err
	}
	for _, item := range state.Carousel {
		if item.ID == id {
			if item.Legacy {
				return apperrors.ErrLegacyShape
			}
			return nil
		}
	}
	return nil
}

// patchFromPayload decodes the stored record from a write response and
// patches it into the state. A missing or undecodable body skips the patch;
// the scheduled refetch converges the state instead.
func (s *CMSService) patchFromPayload(ops sectionOps, payload json.RawMessage) interface{} {
	if len(payload) == 0 {
		return nil
	}
	item, err := ops.decodeItem(payload)
	if err != nil {
		s.logger.Debug("write response not patchable, relying on refetch", zap.Error(err))
		return nil
	}
	s.reconciler.ApplyUpsert(item)
	return item
}

func (s *CMSService) record(ctx context.Context, actor Actor, action, resource string, resourceID *string, detail json.RawMessage) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		Actor:      actor.Username,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     detail,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func itemID(item interface{}) *string {
	var id string
	switch v := item.(type) {
	case models.CarouselItem:
		id = v.ID
	case models.Offer:
		id = v.ID
	case models.OngoingCourse:
		id = v.ID
	case models.Course:
		id = v.ID
	case models.Merchandise:
		id = v.ID
	case models.Slot:
		id = v.ID
	case models.Testimonial:
		id = v.ID
	default:
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}
