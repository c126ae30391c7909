package service

import (
	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

// lowAvailabilityThreshold marks a slot as nearly full when fewer seats than
// this remain.
const lowAvailabilityThreshold = 10

// Availability derives the live seat view for one slot. AvailableSeats is
// clamped at zero so an over-enrolled slot never renders a negative count.
func Availability(slot models.Slot) models.SlotAvailability {
	seats := slot.Capacity - slot.EnrolledStudents
	if seats < 0 {
		seats = 0
	}
	return models.SlotAvailability{
		SlotID:          slot.ID,
		AvailableSeats:  seats,
		IsFull:          slot.EnrolledStudents >= slot.Capacity,
		LowAvailability: seats < lowAvailabilityThreshold,
	}
}

// slotIndex builds an id lookup over the loaded slots.
func slotIndex(slots []models.Slot) map[string]models.Slot {
	idx := make(map[string]models.Slot, len(slots))
	for _, slot := range slots {
		idx[slot.ID] = slot
	}
	return idx
}

// AnnotateOffers joins each offer against its referenced slot. Offers with no
// slotId, or whose slot is not loaded, keep a nil Availability.
func AnnotateOffers(offers []models.Offer, slots []models.Slot) []dto.OfferView {
	idx := slotIndex(slots)
	views := make([]dto.OfferView, 0, len(offers))
	for _, offer := range offers {
		view := dto.OfferView{Offer: offer}
		if slot, ok := idx[offer.SlotID]; ok && offer.SlotID != "" {
			avail := Availability(slot)
			view.Availability = &avail
		}
		views = append(views, view)
	}
	return views
}

// AnnotateOngoingCourses joins each ongoing course against its backing slot.
func AnnotateOngoingCourses(courses []models.OngoingCourse, slots []models.Slot) []dto.OngoingCourseView {
	idx := slotIndex(slots)
	views := make([]dto.OngoingCourseView, 0, len(courses))
	for _, course := range courses {
		view := dto.OngoingCourseView{OngoingCourse: course}
		if slot, ok := idx[course.SlotID]; ok && course.SlotID != "" {
			avail := Availability(slot)
			view.Availability = &avail
		}
		views = append(views, view)
	}
	return views
}

// CanApprove reports whether a pending readmission may transition to
// approved. A full referenced slot blocks the transition.
func CanApprove(info models.ReadmissionSlotInfo) bool {
	if info.IsFull {
		return false
	}
	if info.Capacity > 0 && info.EnrolledStudents >= info.Capacity {
		return false
	}
	return true
}
