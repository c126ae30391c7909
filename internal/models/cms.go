package models

// CarouselItem is the canonical landing-carousel record. Old records stored
// either a nested teacher object or flat title/subtitle fields; the decode
// layer folds both into this shape and marks them Legacy. Legacy items are
// edit-blocked and must be deleted and recreated.
type CarouselItem struct {
	ID             string `json:"id"`
	TeacherName    string `json:"teacherName"`
	Description    string `json:"description"`
	TeacherImage   string `json:"teacherImage"`
	Schedule1Image string `json:"schedule1Image"`
	Schedule2Image string `json:"schedule2Image"`
	Legacy         bool   `json:"legacy,omitempty"`
}

// Offer is a promotional banner. SlotID optionally ties it to a batch so
// availability can be derived; CourseID is a read-only legacy reference.
type Offer struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Offer      string   `json:"offer"`
	SlotID     string   `json:"slotId,omitempty"`
	CourseID   string   `json:"courseId,omitempty"`
	Color      string   `json:"color,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	ValidUntil string   `json:"validUntil,omitempty"`
	IsActive   bool     `json:"isActive"`
}

// OngoingCourse is the display projection the backend auto-derives from a
// Slot. Editing it changes display metadata only, never the slot itself.
type OngoingCourse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color,omitempty"`
	SlotID      string `json:"slotId,omitempty"`
	IsActive    bool   `json:"isActive"`
	IsHidden    bool   `json:"-"`
}

// Testimonial is a public quote shown on the landing page.
type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Quote    string `json:"quote"`
	Image    string `json:"image,omitempty"`
	Rating   int    `json:"rating"`
	IsActive bool   `json:"isActive"`
}
