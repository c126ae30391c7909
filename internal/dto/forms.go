package dto

// Write-path form payloads for each CMS entity. Field names match the wire
// keys so local validation errors and upstream field errors key identically.

// CarouselForm creates or edits a carousel item (current shape only; legacy
// records are edit-blocked).
type CarouselForm struct {
	TeacherName    string `json:"teacherName"`
	Description    string `json:"description"`
	TeacherImage   string `json:"teacherImage"`
	Schedule1Image string `json:"schedule1Image"`
	Schedule2Image string `json:"schedule2Image"`
}

// OfferForm creates or edits an offer.
type OfferForm struct {
	Name       string   `json:"name"`
	Offer      string   `json:"offer"`
	SlotID     string   `json:"slotId,omitempty"`
	Color      string   `json:"color,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	ValidUntil string   `json:"validUntil,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
}

// OngoingCourseForm edits the display metadata of an ongoing-course
// projection. The backing slot is never touched through this form.
type OngoingCourseForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CourseForm creates or edits a catalogue course.
type CourseForm struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Instructor    string   `json:"instructor"`
	Price         *float64 `json:"price,omitempty"`
	MonthlyPrice  *float64 `json:"monthlyPrice,omitempty"`
	YearlyPrice   *float64 `json:"yearlyPrice,omitempty"`
	Class         *int     `json:"class,omitempty"`
	Image         string   `json:"image,omitempty"`
	EnrollmentURL string   `json:"enrollmentUrl,omitempty"`
	Category      string   `json:"category,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

// MerchandiseForm creates or edits a shop item.
type MerchandiseForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// SlotForm creates or edits a batch.
type SlotForm struct {
	Name             string   `json:"name"`
	Course           string   `json:"course,omitempty"`
	Subject          string   `json:"subject"`
	Class            string   `json:"class"`
	Type             string   `json:"type"`
	Days             []string `json:"days"`
	Instructor       string   `json:"instructor"`
	Location         string   `json:"location"`
	Capacity         *int     `json:"capacity,omitempty"`
	EnrolledStudents *int     `json:"enrolledStudents,omitempty"`
	IsActive         *bool    `json:"isActive,omitempty"`
}

// ReadmissionForm submits a readmission request from the public site.
type ReadmissionForm struct {
	StudentName string `json:"studentName"`
	Subject     string `json:"subject"`
	Contact     string `json:"contact"`
	SlotName    string `json:"slotName"`
	Batch       string `json:"batch,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// TestimonialForm creates or edits a testimonial.
type TestimonialForm struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Quote    string `json:"quote"`
	Image    string `json:"image,omitempty"`
	Rating   *int   `json:"rating,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// ReorderForm submits the full ordered id list for the carousel.
type ReorderForm struct {
	OrderedIDs []string `json:"orderedIds"`
}
