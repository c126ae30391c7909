package decode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarouselItemCurrentShapeIsUntouched(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "c1",
		"teacherName": "Anita Sharma",
		"description": "Physics, 10 years experience",
		"teacherImage": "/img/anita.jpg",
		"schedule1Image": "/img/sched1.jpg",
		"schedule2Image": "/img/sched2.jpg"
	}`)

	item, err := CarouselItem(raw)
	require.NoError(t, err)
	assert.False(t, item.Legacy)
	assert.Equal(t, "c1", item.ID)
	assert.Equal(t, "Anita Sharma", item.TeacherName)
	assert.Equal(t, "/img/sched2.jpg", item.Schedule2Image)

	// Decoding is idempotent: re-encoding the canonical item and decoding
	// again must not alter its shape.
	reencoded, err := json.Marshal(item)
	require.NoError(t, err)
	again, err := CarouselItem(reencoded)
	require.NoError(t, err)
	assert.Equal(t, item, again)
}

func TestCarouselItemNestedTeacherShapeIsLegacy(t *testing.T) {
	raw := json.RawMessage(`{
		"_id": "c2",
		"teacher": {"name": "Ravi Kumar", "image": "/img/ravi.jpg", "description": "Maths"}
	}`)

	item, err := CarouselItem(raw)
	require.NoError(t, err)
	assert.True(t, item.Legacy)
	assert.Equal(t, "c2", item.ID)
	assert.Equal(t, "Ravi Kumar", item.TeacherName)
	assert.Equal(t, "/img/ravi.jpg", item.TeacherImage)
	assert.Equal(t, "Maths", item.Description)
}

func TestCarouselItemFlatTitleShapeIsLegacy(t *testing.T) {
	raw := json.RawMessage(`{"id": "c3", "title": "Ms. Gupta", "subtitle": "Chemistry", "image": "/img/g.jpg"}`)

	item, err := CarouselItem(raw)
	require.NoError(t, err)
	assert.True(t, item.Legacy)
	assert.Equal(t, "Ms. Gupta", item.TeacherName)
	assert.Equal(t, "Chemistry", item.Description)
	assert.Equal(t, "/img/g.jpg", item.TeacherImage)
}

func TestCarouselItemsAcceptsAllNestingDepths(t *testing.T) {
	payloads := []string{
		`{"data": {"data": {"carouselItems": [{"id": "c1", "teacherName": "A"}]}}}`,
		`{"data": {"carouselItems": [{"id": "c1", "teacherName": "A"}]}}`,
		`{"carouselItems": [{"id": "c1", "teacherName": "A"}]}`,
	}
	for _, payload := range payloads {
		items, err := CarouselItems(json.RawMessage(payload))
		require.NoError(t, err, payload)
		require.Len(t, items, 1, payload)
		assert.Equal(t, "c1", items[0].ID, payload)
	}
}

func TestOfferAliasesAndActiveDefault(t *testing.T) {
	raw := json.RawMessage(`{"_id": "o1", "title": "Diwali Sale", "description": "20% off", "slotId": "S1"}`)

	offer, err := Offer(raw)
	require.NoError(t, err)
	assert.Equal(t, "o1", offer.ID)
	assert.Equal(t, "Diwali Sale", offer.Name)
	assert.Equal(t, "20% off", offer.Offer)
	assert.Equal(t, "S1", offer.SlotID)
	assert.True(t, offer.IsActive, "isActive must default to true when absent")
}

func TestOfferExplicitInactiveIsKept(t *testing.T) {
	raw := json.RawMessage(`{"id": "o2", "name": "Old promo", "offer": "expired", "isActive": false}`)

	offer, err := Offer(raw)
	require.NoError(t, err)
	assert.False(t, offer.IsActive)
}

func TestOngoingCoursesFiltersHidden(t *testing.T) {
	payload := json.RawMessage(`{"ongoingCourses": [
		{"id": "g1", "title": "Class 10 Science", "slotId": "S1"},
		{"id": "g2", "title": "Hidden batch", "slotId": "S2", "isHidden": true}
	]}`)

	courses, err := OngoingCourses(payload)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "g1", courses[0].ID)
}

func TestCourseCoercesStringPrices(t *testing.T) {
	raw := json.RawMessage(`{"_id": "k1", "title": "Algebra", "monthlyPrice": "1200", "yearlyPrice": 11000, "class": "8"}`)

	course, err := Course(raw)
	require.NoError(t, err)
	require.NotNil(t, course.MonthlyPrice)
	assert.Equal(t, 1200.0, *course.MonthlyPrice)
	require.NotNil(t, course.YearlyPrice)
	assert.Equal(t, 11000.0, *course.YearlyPrice)
	assert.Nil(t, course.Price)
	assert.Equal(t, 8, course.Class)
}

func TestSlotRecordMapsMongoID(t *testing.T) {
	raw := json.RawMessage(`{"_id": "S1", "name": "Morning Batch", "subject": "Physics", "class": 11,
		"type": "offline", "days": ["Mon", "Wed"], "instructor": "Anita", "location": "Room 2",
		"capacity": 30, "enrolledStudents": 25}`)

	slot, err := SlotRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "S1", slot.ID)
	assert.Equal(t, "11", slot.Class)
	assert.Equal(t, 30, slot.Capacity)
	assert.Equal(t, 25, slot.EnrolledStudents)
	assert.True(t, slot.IsActive)
}

func TestReadmissionDefaultsToPending(t *testing.T) {
	raw := json.RawMessage(`{"id": "r1", "studentName": "Asha", "course": "Physics", "contact": "9876543210",
		"slotName": "Morning Batch", "slotInfo": {"enrolledStudents": 30, "capacity": 30, "isFull": true, "availableSlots": 0}}`)

	r, err := ReadmissionRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "pending", r.Status)
	assert.Equal(t, "Physics", r.Subject)
	assert.True(t, r.SlotInfo.IsFull)
	assert.Equal(t, 0, r.SlotInfo.AvailableSlots)
}

func TestSectionArrayBareList(t *testing.T) {
	records, ok := sectionArray(json.RawMessage(`[{"id":"a"},{"id":"b"}]`), "offers")
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestSectionArrayMissingCollection(t *testing.T) {
	_, ok := sectionArray(json.RawMessage(`{"somethingElse": []}`), "offers")
	assert.False(t, ok)
}
