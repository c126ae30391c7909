package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

// ReadmissionLister supplies readmission records; satisfied by the
// readmission service.
type ReadmissionLister interface {
	List(ctx context.Context) ([]models.Readmission, error)
}

// DashboardService aggregates the admin landing summary from the reconciled
// state and the readmission queue.
type DashboardService struct {
	reconciler   *Reconciler
	readmissions ReadmissionLister
	cache        *CacheService
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService builds a DashboardService. cache may be nil.
func NewDashboardService(reconciler *Reconciler, readmissions ReadmissionLister, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		reconciler:   reconciler,
		readmissions: readmissions,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary builds the dashboard numbers. A failing readmission fetch keeps
// the count at zero rather than failing the whole summary.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if summary, ok := s.cache.GetDashboard(ctx); ok {
		return summary, nil
	}

	state, err := s.reconciler.State(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		Sections: map[string]int{
			models.SectionCarousel:       len(state.Carousel),
			models.SectionOffers:         len(state.Offers),
			models.SectionOngoingCourses: len(state.OngoingCourses),
			models.SectionCourses:        len(state.Courses),
			models.SectionMerchandise:    len(state.Merchandise),
			models.SectionSlots:          len(state.Slots),
			models.SectionTestimonials:   len(state.Testimonials),
		},
		FailedSections: state.FailedSections,
		GeneratedAt:    s.now().UTC().Format(time.RFC3339),
	}

	for _, offer := range state.Offers {
		if offer.IsActive {
			summary.ActiveOffers++
		}
	}

	for _, slot := range state.Slots {
		avail := Availability(slot)
		if avail.IsFull {
			summary.FullSlots++
		} else if avail.LowAvailability {
			summary.LowAvailabilitySlots++
		}
		summary.TotalEnrolled += slot.EnrolledStudents
		summary.TotalCapacity += slot.Capacity
	}

	if s.readmissions != nil {
		records, err := s.readmissions.List(ctx)
		if err != nil {
			s.logger.Warn("readmission count unavailable", zap.Error(err))
		}
		for _, record := range records {
			if record.Status == models.ReadmissionPending {
				summary.PendingReadmissions++
			}
		}
	}

	s.cache.SetDashboard(ctx, summary)
	return summary, nil
}
