package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

type writeCall struct {
	method string
	path   string
	body   interface{}
}

type fakeWriter struct {
	calls     []writeCall
	responses map[string]string
	err       error
}

func (f *fakeWriter) Post(_ context.Context, _ upstream.Family, path string, body interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, writeCall{method: "POST", path: path, body: body})
	return f.respond(path)
}

func (f *fakeWriter) Put(_ context.Context, _ upstream.Family, path string, body interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, writeCall{method: "PUT", path: path, body: body})
	return f.respond(path)
}

func (f *fakeWriter) Delete(_ context.Context, _ upstream.Family, path string) (json.RawMessage, error) {
	f.calls = append(f.calls, writeCall{method: "DELETE", path: path})
	return f.respond(path)
}

func (f *fakeWriter) respond(path string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if body, ok := f.responses[path]; ok {
		return json.RawMessage(body), nil
	}
	return nil, nil
}

type fakeAudit struct {
	entries []models.AuditLog
}

func (f *fakeAudit) Record(_ context.Context, entry models.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newCMSFixture(t *testing.T, writer *fakeWriter) (*CMSService, *Reconciler, *fakeScheduler, *fakeAudit) {
	t.Helper()
	scheduler := &fakeScheduler{}
	reconciler := NewReconciler(ReconcilerParams{
		Client:      contentFetcher(),
		Scheduler:   scheduler,
		SettleDelay: 600 * time.Millisecond,
	})
	_, err := reconciler.Refresh(context.Background())
	require.NoError(t, err)

	audit := &fakeAudit{}
	svc := NewCMSService(CMSServiceParams{
		Client:     writer,
		Reconciler: reconciler,
		Audit:      audit,
	})
	return svc, reconciler, scheduler, audit
}

func TestCreateOfferPatchesStateAndSchedulesRefresh(t *testing.T) {
	writer := &fakeWriter{responses: map[string]string{
		"/cms/offers": `{"_id": "o9", "title": "Summer Camp", "description": "flat 500 off"}`,
	}}
	svc, reconciler, scheduler, audit := newCMSFixture(t, writer)

	raw := json.RawMessage(`{"name": "Summer Camp", "offer": "flat 500 off"}`)
	item, err := svc.Create(context.Background(), Actor{Username: "admin"}, models.SectionOffers, raw)
	require.NoError(t, err)

	offer, ok := item.(models.Offer)
	require.True(t, ok)
	assert.Equal(t, "o9", offer.ID)
	assert.True(t, offer.IsActive)

	state, err := reconciler.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Offers, 2)

	require.Len(t, scheduler.jobs, 1)
	assert.Equal(t, JobTypeContentRefresh, scheduler.jobs[0].Type)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionCMSCreate, audit.entries[0].Action)
	assert.Equal(t, models.SectionOffers, audit.entries[0].Resource)
}

func TestCreateInvalidFormSendsNoRequest(t *testing.T) {
	writer := &fakeWriter{}
	svc, _, scheduler, _ := newCMSFixture(t, writer)

	raw := json.RawMessage(`{"title": "Mug", "description": "short", "price": 250}`)
	_, err := svc.Create(context.Background(), Actor{Username: "admin"}, models.SectionMerchandise, raw)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation.Code, appErr.Code)
	fields := appErr.FieldMap()
	assert.Equal(t, "must be at least 10 characters", fields["description"])

	assert.Empty(t, writer.calls, "validation failure must not reach the network")
	assert.Empty(t, scheduler.jobs)
}

func TestUpdateLegacyCarouselIsBlocked(t *testing.T) {
	writer := &fakeWriter{}
	svc, reconciler, _, _ := newCMSFixture(t, writer)

	reconciler.ApplyUpsert(models.CarouselItem{ID: "old1", TeacherName: "Mr. Verma", Legacy: true})

	raw := json.RawMessage(`{"teacherName": "Mr. Verma", "description": "Maths", "teacherImage": "/img/v.jpg"}`)
	_, err := svc.Update(context.Background(), Actor{Username: "admin"}, models.SectionCarousel, "old1", raw)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrLegacyShape.Code, appErr.Code)
	assert.Empty(t, writer.calls)
}

func TestUpdateCurrentCarouselGoesThrough(t *testing.T) {
	writer := &fakeWriter{responses: map[string]string{
		"/cms/carousel/c1": `{"id": "c1", "teacherName": "Anita S.", "description": "Physics", "teacherImage": "/img/a.jpg"}`,
	}}
	svc, reconciler, _, _ := newCMSFixture(t, writer)

	raw := json.RawMessage(`{"teacherName": "Anita S.", "description": "Physics", "teacherImage": "/img/a.jpg"}`)
	_, err := svc.Update(context.Background(), Actor{Username: "admin"}, models.SectionCarousel, "c1", raw)
	require.NoError(t, err)

	require.Len(t, writer.calls, 1)
	assert.Equal(t, "PUT", writer.calls[0].method)

	state, err := reconciler.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Anita S.", state.Carousel[0].TeacherName)
}

func TestDeleteOngoingCourseRequiresConfirmation(t *testing.T) {
	writer := &fakeWriter{}
	svc, _, _, _ := newCMSFixture(t, writer)

	err := svc.Delete(context.Background(), Actor{Username: "admin"}, models.SectionOngoingCourses, "g1", "")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConfirmationRequired.Code, appErr.Code)

	data, ok := appErr.Data.(map[string]string)
	require.True(t, ok)
	token := data["confirmToken"]
	require.NotEmpty(t, token)
	assert.Empty(t, writer.calls)

	err = svc.Delete(context.Background(), Actor{Username: "admin"}, models.SectionOngoingCourses, "g1", token)
	require.NoError(t, err)
	require.Len(t, writer.calls, 1)
	assert.Equal(t, "DELETE", writer.calls[0].method)
	assert.Equal(t, "/cms/ongoing-courses/g1", writer.calls[0].path)

	err = svc.Delete(context.Background(), Actor{Username: "admin"}, models.SectionOngoingCourses, "g1", token)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConfirmationRequired.Code, appErr.Code, "tokens are single use")
}

func TestDeleteOfferRemovesFromState(t *testing.T) {
	writer := &fakeWriter{}
	svc, reconciler, _, audit := newCMSFixture(t, writer)

	err := svc.Delete(context.Background(), Actor{Username: "admin"}, models.SectionOffers, "o1", "")
	require.NoError(t, err)

	state, err := reconciler.State(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Offers)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionCMSDelete, audit.entries[0].Action)
}

func TestReorderCarousel(t *testing.T) {
	writer := &fakeWriter{}
	svc, reconciler, scheduler, _ := newCMSFixture(t, writer)

	err := svc.Reorder(context.Background(), Actor{Username: "admin"}, dto.ReorderForm{OrderedIDs: []string{"c2", "c1", "c3"}})
	require.NoError(t, err)

	require.Len(t, writer.calls, 1)
	assert.Equal(t, "/cms/carousel/reorder", writer.calls[0].path)

	state, err := reconciler.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c2", state.Carousel[0].ID)
	assert.Len(t, scheduler.jobs, 1)
}

func TestReorderRequiresIDs(t *testing.T) {
	writer := &fakeWriter{}
	svc, _, _, _ := newCMSFixture(t, writer)

	err := svc.Reorder(context.Background(), Actor{Username: "admin"}, dto.ReorderForm{})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, writer.calls)
}

func TestCreateUnknownSection(t *testing.T) {
	writer := &fakeWriter{}
	svc, _, _, _ := newCMSFixture(t, writer)

	_, err := svc.Create(context.Background(), Actor{}, "bogus", json.RawMessage(`{}`))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound.Code, appErr.Code)
	for _, section := range models.Sections {
		assert.Contains(t, appErr.Message, section, "error names every known section")
	}
}
