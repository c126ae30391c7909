package models

// Content section names used as merge keys, cache key parts and refetch job
// payloads.
const (
	SectionCarousel       = "carousel"
	SectionOffers         = "offers"
	SectionOngoingCourses = "ongoingCourses"
	SectionCourses        = "courses"
	SectionMerchandise    = "merchandise"
	SectionSlots          = "slots"
	SectionTestimonials   = "testimonials"
)

// Sections lists every reconciled section in display order.
var Sections = []string{
	SectionCarousel,
	SectionOffers,
	SectionOngoingCourses,
	SectionCourses,
	SectionMerchandise,
	SectionSlots,
	SectionTestimonials,
}

// ContentState is the merged view model covering all CMS sections. Sections
// that failed to fetch keep their empty slice so consumers never need
// per-section nil checks; the failure is recorded in FailedSections.
type ContentState struct {
	Carousel       []CarouselItem  `json:"carousel"`
	Offers         []Offer         `json:"offers"`
	OngoingCourses []OngoingCourse `json:"ongoingCourses"`
	Courses        []Course        `json:"courses"`
	Merchandise    []Merchandise   `json:"merchandise"`
	Slots          []Slot          `json:"slots"`
	Testimonials   []Testimonial   `json:"testimonials"`

	// Instructors is the deduplicated, sorted set of non-empty teacher
	// names across carousel items, consumed by course/slot forms.
	Instructors []string `json:"instructors"`

	FailedSections []string `json:"failedSections,omitempty"`
}

// EmptyContentState returns a state where every section holds its typed
// empty fallback.
func EmptyContentState() *ContentState {
	return &ContentState{
		Carousel:       []CarouselItem{},
		Offers:         []Offer{},
		OngoingCourses: []OngoingCourse{},
		Courses:        []Course{},
		Merchandise:    []Merchandise{},
		Slots:          []Slot{},
		Testimonials:   []Testimonial{},
		Instructors:    []string{},
	}
}
