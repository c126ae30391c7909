package dto

import "github.com/avidya-edu/academy-cms-gateway/internal/models"

// OfferView is an offer annotated with live availability derived from its
// referenced slot. Availability is nil when the offer references no slot or
// the slot is not loaded.
type OfferView struct {
	models.Offer
	Availability *models.SlotAvailability `json:"availability,omitempty"`
}

// OngoingCourseView is an ongoing-course projection annotated the same way.
type OngoingCourseView struct {
	models.OngoingCourse
	Availability *models.SlotAvailability `json:"availability,omitempty"`
}

// ContentView is the admin console view model: the reconciled state with
// availability joined onto the slot-referencing sections.
type ContentView struct {
	Carousel       []models.CarouselItem `json:"carousel"`
	Offers         []OfferView           `json:"offers"`
	OngoingCourses []OngoingCourseView   `json:"ongoingCourses"`
	Courses        []models.Course       `json:"courses"`
	Merchandise    []models.Merchandise  `json:"merchandise"`
	Slots          []models.Slot         `json:"slots"`
	Testimonials   []models.Testimonial  `json:"testimonials"`
	Instructors    []string              `json:"instructors"`
	FailedSections []string              `json:"failedSections,omitempty"`
}

// LandingView is the public landing page view model. Inactive offers and
// ongoing courses are filtered out before availability is joined.
type LandingView struct {
	Carousel       []models.CarouselItem `json:"carousel"`
	Offers         []OfferView           `json:"offers"`
	OngoingCourses []OngoingCourseView   `json:"ongoingCourses"`
	Courses        []models.Course       `json:"courses"`
	Merchandise    []models.Merchandise  `json:"merchandise"`
	Testimonials   []models.Testimonial  `json:"testimonials"`
}

// DashboardSummary aggregates counts for the admin landing screen.
type DashboardSummary struct {
	Sections             map[string]int `json:"sections"`
	ActiveOffers         int            `json:"activeOffers"`
	PendingReadmissions  int            `json:"pendingReadmissions"`
	FullSlots            int            `json:"fullSlots"`
	LowAvailabilitySlots int            `json:"lowAvailabilitySlots"`
	TotalEnrolled        int            `json:"totalEnrolled"`
	TotalCapacity        int            `json:"totalCapacity"`
	FailedSections       []string       `json:"failedSections,omitempty"`
	GeneratedAt          string         `json:"generatedAt"`
}
