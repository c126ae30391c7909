package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/decode"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/jobs"
)

// JobTypeContentRefresh names the queued full-refetch job.
const JobTypeContentRefresh = "content.refresh"

// Fetcher is the read slice of the upstream client the reconciler uses.
type Fetcher interface {
	Get(ctx context.Context, family upstream.Family, path string) (json.RawMessage, error)
}

// RefreshScheduler enqueues delayed jobs; satisfied by *jobs.Queue.
type RefreshScheduler interface {
	EnqueueAfter(job jobs.Job, delay time.Duration) error
}

// Reconciler owns the merged content state. It fetches every section
// concurrently with all-settled semantics, applies optimistic patches after
// writes, and schedules a delayed full refetch so the state converges on
// whatever the backend actually stored.
type Reconciler struct {
	client      Fetcher
	scheduler   RefreshScheduler
	settleDelay time.Duration
	logger      *zap.Logger

	mu    sync.RWMutex
	state *models.ContentState
}

// ReconcilerParams collects the reconciler dependencies.
type ReconcilerParams struct {
	Client      Fetcher
	Scheduler   RefreshScheduler
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// NewReconciler builds a Reconciler.
func NewReconciler(p ReconcilerParams) *Reconciler {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &Reconciler{
		client:      p.Client,
		scheduler:   p.Scheduler,
		settleDelay: p.SettleDelay,
		logger:      p.Logger,
	}
}

// sectionFetch binds a section name to its endpoint path and the decoder
// that merges its payload into the state.
type sectionFetch struct {
	section string
	path    string
	merge   func(state *models.ContentState, payload json.RawMessage) error
}

func sectionFetches() []sectionFetch {
	return []sectionFetch{
		{models.SectionCarousel, "/cms/carousel", func(s *models.ContentState, p json.RawMessage) error {
			items, err := decode.CarouselItems(p)
			if err != nil {
				return err
			}
			s.Carousel = items
			return nil
		}},
		{models.SectionOffers, "/cms/offers", func(s *models.ContentState, p json.RawMessage) error {
			offers, err := decode.Offers(p)
			if err != nil {
				return err
			}
			s.Offers = offers
			return nil
		}},
		{models.SectionOngoingCourses, "/cms/ongoing-courses", func(s *models.ContentState, p json.RawMessage) error {
			courses, err := decode.OngoingCourses(p)
			if err != nil {
				return err
			}
			s.OngoingCourses = courses
			return nil
		}},
		{models.SectionCourses, "/cms/courses", func(s *models.ContentState, p json.RawMessage) error {
			courses, err := decode.Courses(p)
			if err != nil {
				return err
			}
			s.Courses = courses
			return nil
		}},
		{models.SectionMerchandise, "/cms/merchandise", func(s *models.ContentState, p json.RawMessage) error {
			items, err := decode.Merchandise(p)
			if err != nil {
				return err
			}
			s.Merchandise = items
			return nil
		}},
		{models.SectionSlots, "/cms/slots", func(s *models.ContentState, p json.RawMessage) error {
			slots, err := decode.Slots(p)
			if err != nil {
				return err
			}
			s.Slots = slots
			return nil
		}},
		{models.SectionTestimonials, "/cms/testimonials", func(s *models.ContentState, p json.RawMessage) error {
			items, err := decode.Testimonials(p)
			if err != nil {
				return err
			}
			s.Testimonials = items
			return nil
		}},
	}
}

// Refresh fetches every section concurrently and replaces the held state.
// All-settled: a failed section keeps its typed empty fallback and is listed
// in FailedSections; Refresh only errors when every section failed.
func (r *Reconciler) Refresh(ctx context.Context) (*models.ContentState, error) {
	fetches := sectionFetches()

	type result struct {
		section string
		payload json.RawMessage
		err     error
	}

	results := make([]result, len(fetches))
	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f sectionFetch) {
			defer wg.Done()
			payload, err := r.client.Get(ctx, upstream.FamilyAdmin, f.path)
			results[i] = result{section: f.section, payload: payload, err: err}
		}(i, f)
	}
	wg.Wait()

	state := models.EmptyContentState()
	failed := 0
	for i, f := range fetches {
		res := results[i]
		err := res.err
		if err == nil {
			err = f.merge(state, res.payload)
		}
		if err != nil {
			failed++
			state.FailedSections = append(state.FailedSections, f.section)
			r.logger.Warn("section fetch failed",
				zap.String("section", f.section),
				zap.Error(err))
		}
	}
	if failed == len(fetches) {
		return nil, fmt.Errorf("all %d content sections failed to load", failed)
	}

	state.Instructors = instructorRoster(state.Carousel)

	r.mu.Lock()
	r.state = state
	r.mu.Unlock()

	return r.snapshotLocked(), nil
}

// State returns the current merged state, loading it on first use.
func (r *Reconciler) State(ctx context.Context) (*models.ContentState, error) {
	r.mu.RLock()
	loaded := r.state != nil
	r.mu.RUnlock()
	if !loaded {
		return r.Refresh(ctx)
	}
	return r.snapshotLocked(), nil
}

// snapshotLocked returns a copy whose slices are detached from the held
// state, so callers can read it while patches land. Copies stay non-nil:
// an empty section must render as [] all the way out, never null.
func (r *Reconciler) snapshotLocked() *models.ContentState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return models.EmptyContentState()
	}
	snap := *r.state
	snap.Carousel = detach(r.state.Carousel)
	snap.Offers = detach(r.state.Offers)
	snap.OngoingCourses = detach(r.state.OngoingCourses)
	snap.Courses = detach(r.state.Courses)
	snap.Merchandise = detach(r.state.Merchandise)
	snap.Slots = detach(r.state.Slots)
	snap.Testimonials = detach(r.state.Testimonials)
	snap.Instructors = detach(r.state.Instructors)
	snap.FailedSections = detach(r.state.FailedSections)
	return &snap
}

// ApplyUpsert optimistically replaces the item with the same id in its
// section, or appends it. No-op when the state was never loaded.
func (r *Reconciler) ApplyUpsert(item interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return
	}
	switch v := item.(type) {
	case models.CarouselItem:
		r.state.Carousel = upsert(r.state.Carousel, v, func(e models.CarouselItem) string { return e.ID })
		r.state.Instructors = instructorRoster(r.state.Carousel)
	case models.Offer:
		r.state.Offers = upsert(r.state.Offers, v, func(e models.Offer) string { return e.ID })
	case models.OngoingCourse:
		r.state.OngoingCourses = upsert(r.state.OngoingCourses, v, func(e models.OngoingCourse) string { return e.ID })
	case models.Course:
		r.state.Courses = upsert(r.state.Courses, v, func(e models.Course) string { return e.ID })
	case models.Merchandise:
		r.state.Merchandise = upsert(r.state.Merchandise, v, func(e models.Merchandise) string { return e.ID })
	case models.Slot:
		r.state.Slots = upsert(r.state.Slots, v, func(e models.Slot) string { return e.ID })
	case models.Testimonial:
		r.state.Testimonials = upsert(r.state.Testimonials, v, func(e models.Testimonial) string { return e.ID })
	default:
		r.logger.Warn("upsert for unknown item type", zap.String("type", fmt.Sprintf("%T", item)))
	}
}

// ApplyDelete optimistically removes an item by id from a section.
func (r *Reconciler) ApplyDelete(section, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return
	}
	switch section {
	case models.SectionCarousel:
		r.state.Carousel = remove(r.state.Carousel, id, func(e models.CarouselItem) string { return e.ID })
		r.state.Instructors = instructorRoster(r.state.Carousel)
	case models.SectionOffers:
		r.state.Offers = remove(r.state.Offers, id, func(e models.Offer) string { return e.ID })
	case models.SectionOngoingCourses:
		r.state.OngoingCourses = remove(r.state.OngoingCourses, id, func(e models.OngoingCourse) string { return e.ID })
	case models.SectionCourses:
		r.state.Courses = remove(r.state.Courses, id, func(e models.Course) string { return e.ID })
	case models.SectionMerchandise:
		r.state.Merchandise = remove(r.state.Merchandise, id, func(e models.Merchandise) string { return e.ID })
	case models.SectionSlots:
		r.state.Slots = remove(r.state.Slots, id, func(e models.Slot) string { return e.ID })
	case models.SectionTestimonials:
		r.state.Testimonials = remove(r.state.Testimonials, id, func(e models.Testimonial) string { return e.ID })
	}
}

// ApplyReorder rearranges the carousel to match the given id order. Ids not
// present in the list keep their relative order after the reordered block.
func (r *Reconciler) ApplyReorder(orderedIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return
	}
	index := make(map[string]models.CarouselItem, len(r.state.Carousel))
	for _, item := range r.state.Carousel {
		index[item.ID] = item
	}
	reordered := make([]models.CarouselItem, 0, len(r.state.Carousel))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if item, ok := index[id]; ok {
			reordered = append(reordered, item)
			seen[id] = true
		}
	}
	for _, item := range r.state.Carousel {
		if !seen[item.ID] {
			reordered = append(reordered, item)
		}
	}
	r.state.Carousel = reordered
}

// AttachScheduler wires the refresh queue after construction; the queue's
// handler needs the reconciler, so the two cannot be built in one step.
func (r *Reconciler) AttachScheduler(scheduler RefreshScheduler) {
	r.scheduler = scheduler
}

// ScheduleRefresh enqueues a full refetch after the settle delay, giving the
// backend time to settle before the state converges on stored data.
func (r *Reconciler) ScheduleRefresh() {
	if r.scheduler == nil {
		return
	}
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: JobTypeContentRefresh,
	}
	if err := r.scheduler.EnqueueAfter(job, r.settleDelay); err != nil {
		r.logger.Warn("failed to schedule content refresh", zap.Error(err))
	}
}

// HandleRefreshJob is the queue handler for scheduled refetches.
func (r *Reconciler) HandleRefreshJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeContentRefresh {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	_, err := r.Refresh(ctx)
	return err
}

// instructorRoster collects the deduplicated, sorted teacher names from the
// carousel. Legacy records contribute too; their teacher name is canonical
// after decoding.
func instructorRoster(items []models.CarouselItem) []string {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item.TeacherName != "" {
			set[item.TeacherName] = true
		}
	}
	roster := make([]string, 0, len(set))
	for name := range set {
		roster = append(roster, name)
	}
	sort.Strings(roster)
	return roster
}

func detach[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}

func upsert[T any](list []T, item T, id func(T) string) []T {
	target := id(item)
	for i := range list {
		if id(list[i]) == target && target != "" {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func remove[T any](list []T, target string, id func(T) string) []T {
	out := list[:0]
	for _, e := range list {
		if id(e) != target {
			out = append(out, e)
		}
	}
	return out
}
