package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

// ContentService builds the read-side view models: the admin console content
// view and the public landing view. Both join availability onto the
// slot-referencing sections; the landing view additionally drops inactive
// records.
type ContentService struct {
	reconciler *Reconciler
	cache      *CacheService
	logger     *zap.Logger
}

// NewContentService builds a ContentService. cache may be nil.
func NewContentService(reconciler *Reconciler, cache *CacheService, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{reconciler: reconciler, cache: cache, logger: logger}
}

// AdminContent returns the full reconciled state annotated for the console.
func (s *ContentService) AdminContent(ctx context.Context) (*dto.ContentView, error) {
	if view, ok := s.cache.GetContent(ctx); ok {
		return view, nil
	}

	state, err := s.reconciler.State(ctx)
	if err != nil {
		return nil, err
	}

	view := &dto.ContentView{
		Carousel:       state.Carousel,
		Offers:         AnnotateOffers(state.Offers, state.Slots),
		OngoingCourses: AnnotateOngoingCourses(state.OngoingCourses, state.Slots),
		Courses:        state.Courses,
		Merchandise:    state.Merchandise,
		Slots:          state.Slots,
		Testimonials:   state.Testimonials,
		Instructors:    state.Instructors,
		FailedSections: state.FailedSections,
	}
	s.cache.SetContent(ctx, view)
	return view, nil
}

// Landing returns the public landing view: active records only, with
// availability joined onto offers and ongoing courses.
func (s *ContentService) Landing(ctx context.Context) (*dto.LandingView, error) {
	if view, ok := s.cache.GetLanding(ctx); ok {
		return view, nil
	}

	state, err := s.reconciler.State(ctx)
	if err != nil {
		return nil, err
	}

	view := &dto.LandingView{
		Carousel:       state.Carousel,
		Offers:         AnnotateOffers(activeOffers(state.Offers), state.Slots),
		OngoingCourses: AnnotateOngoingCourses(activeOngoing(state.OngoingCourses), state.Slots),
		Courses:        activeCourses(state.Courses),
		Merchandise:    state.Merchandise,
		Testimonials:   activeTestimonials(state.Testimonials),
	}
	s.cache.SetLanding(ctx, view)
	return view, nil
}

// Refresh forces a full refetch and drops every cached view.
func (s *ContentService) Refresh(ctx context.Context) (*dto.ContentView, error) {
	if _, err := s.reconciler.Refresh(ctx); err != nil {
		return nil, err
	}
	s.cache.InvalidateViews(ctx)
	return s.AdminContent(ctx)
}

func activeOffers(offers []models.Offer) []models.Offer {
	out := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		if offer.IsActive {
			out = append(out, offer)
		}
	}
	return out
}

func activeOngoing(courses []models.OngoingCourse) []models.OngoingCourse {
	out := make([]models.OngoingCourse, 0, len(courses))
	for _, course := range courses {
		if course.IsActive {
			out = append(out, course)
		}
	}
	return out
}

func activeCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if course.IsActive {
			out = append(out, course)
		}
	}
	return out
}

func activeTestimonials(items []models.Testimonial) []models.Testimonial {
	out := make([]models.Testimonial, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out
}
