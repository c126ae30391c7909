package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/jobs"
)

type fakeFetcher struct {
	payloads map[string]string
	failing  map[string]error
}

func (f *fakeFetcher) Get(_ context.Context, _ upstream.Family, path string) (json.RawMessage, error) {
	if err, ok := f.failing[path]; ok {
		return nil, err
	}
	payload, ok := f.payloads[path]
	if !ok {
		return json.RawMessage(`[]`), nil
	}
	return json.RawMessage(payload), nil
}

type fakeScheduler struct {
	jobs   []jobs.Job
	delays []time.Duration
}

func (f *fakeScheduler) EnqueueAfter(job jobs.Job, delay time.Duration) error {
	f.jobs = append(f.jobs, job)
	f.delays = append(f.delays, delay)
	return nil
}

func contentFetcher() *fakeFetcher {
	return &fakeFetcher{
		payloads: map[string]string{
			"/cms/carousel": `{"carouselItems": [
				{"id": "c1", "teacherName": "Anita Sharma", "description": "Physics"},
				{"id": "c2", "teacherName": "Ravi Kumar", "description": "Maths"},
				{"id": "c3", "teacherName": "Anita Sharma", "description": "Also physics"}
			]}`,
			"/cms/offers": `[{"_id": "o1", "title": "Diwali Sale", "description": "20% off", "slotId": "S1"}]`,
			"/cms/slots": `{"slots": [
				{"id": "S1", "name": "Morning Batch", "subject": "Physics", "capacity": 30, "enrolledStudents": 25}
			]}`,
		},
		failing: map[string]error{},
	}
}

func TestRefreshMergesAllSections(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})

	state, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, state.Carousel, 3)
	require.Len(t, state.Offers, 1)
	assert.Equal(t, "Diwali Sale", state.Offers[0].Name)
	assert.True(t, state.Offers[0].IsActive)
	assert.Len(t, state.Slots, 1)
	assert.Empty(t, state.FailedSections)

	assert.Equal(t, []string{"Anita Sharma", "Ravi Kumar"}, state.Instructors,
		"instructor roster is deduplicated and sorted")
}

func TestRefreshKeepsEmptyFallbackForFailedSection(t *testing.T) {
	fetcher := contentFetcher()
	fetcher.failing["/cms/offers"] = errors.New("boom")

	r := NewReconciler(ReconcilerParams{Client: fetcher})
	state, err := r.Refresh(context.Background())
	require.NoError(t, err, "one failed section must not fail the whole refresh")

	assert.NotNil(t, state.Offers)
	assert.Empty(t, state.Offers)
	assert.Equal(t, []string{models.SectionOffers}, state.FailedSections)
	assert.Len(t, state.Carousel, 3, "healthy sections still load")
}

func TestSnapshotKeepsTypedEmptySections(t *testing.T) {
	fetcher := contentFetcher()
	fetcher.failing["/cms/offers"] = errors.New("boom")

	r := NewReconciler(ReconcilerParams{Client: fetcher})
	state, err := r.Refresh(context.Background())
	require.NoError(t, err)

	require.NotNil(t, state.Offers, "failed section stays a typed empty slice through the snapshot")

	payload, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"offers":[]`)
	assert.NotContains(t, string(payload), `"offers":null`)

	// Sections that were never populated come back empty too.
	state, err = r.State(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state.Courses)
	assert.NotNil(t, state.Merchandise)
	assert.NotNil(t, state.Testimonials)
	assert.NotNil(t, state.Instructors)
}

func TestRefreshFailsWhenEverySectionFails(t *testing.T) {
	fetcher := &fakeFetcher{failing: map[string]error{}}
	for _, f := range sectionFetches() {
		fetcher.failing[f.path] = errors.New("down")
	}

	r := NewReconciler(ReconcilerParams{Client: fetcher})
	_, err := r.Refresh(context.Background())
	assert.Error(t, err)
}

func TestStateLoadsOnFirstUse(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})

	state, err := r.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Carousel, 3)
}

func TestApplyUpsertReplacesById(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	r.ApplyUpsert(models.Offer{ID: "o1", Name: "Diwali Mega Sale", Offer: "30% off", IsActive: true})
	r.ApplyUpsert(models.Offer{ID: "o2", Name: "New Year", Offer: "10% off", IsActive: true})

	state, err := r.State(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Offers, 2)
	assert.Equal(t, "Diwali Mega Sale", state.Offers[0].Name)
	assert.Equal(t, "o2", state.Offers[1].ID)
}

func TestApplyUpsertCarouselRefreshesRoster(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	r.ApplyUpsert(models.CarouselItem{ID: "c4", TeacherName: "Meena Iyer"})

	state, err := r.State(context.Background())
	require.NoError(t, err)
	assert.Contains(t, state.Instructors, "Meena Iyer")
}

func TestApplyDelete(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	r.ApplyDelete(models.SectionCarousel, "c2")

	state, err := r.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Carousel, 2)
	assert.NotContains(t, state.Instructors, "Ravi Kumar")
}

func TestApplyReorderKeepsUnlistedItems(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	r.ApplyReorder([]string{"c3", "c1"})

	state, err := r.State(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Carousel, 3)
	assert.Equal(t, "c3", state.Carousel[0].ID)
	assert.Equal(t, "c1", state.Carousel[1].ID)
	assert.Equal(t, "c2", state.Carousel[2].ID, "ids missing from the order keep their place at the end")
}

func TestScheduleRefreshUsesSettleDelay(t *testing.T) {
	scheduler := &fakeScheduler{}
	r := NewReconciler(ReconcilerParams{
		Client:      contentFetcher(),
		Scheduler:   scheduler,
		SettleDelay: 600 * time.Millisecond,
	})

	r.ScheduleRefresh()

	require.Len(t, scheduler.jobs, 1)
	assert.Equal(t, JobTypeContentRefresh, scheduler.jobs[0].Type)
	assert.Equal(t, 600*time.Millisecond, scheduler.delays[0])
}

func TestHandleRefreshJobRefetches(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})

	err := r.HandleRefreshJob(context.Background(), jobs.Job{Type: JobTypeContentRefresh})
	require.NoError(t, err)

	state, err := r.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Carousel, 3)

	err = r.HandleRefreshJob(context.Background(), jobs.Job{Type: "something.else"})
	assert.Error(t, err)
}

func TestSnapshotIsDetached(t *testing.T) {
	r := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	state, err := r.Refresh(context.Background())
	require.NoError(t, err)

	state.Offers[0].Name = "mutated"

	fresh, err := r.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Diwali Sale", fresh.Offers[0].Name)
}
