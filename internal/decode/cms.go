package decode

import (
	"encoding/json"
	"fmt"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

type carouselWire struct {
	wireID
	// Current shape.
	TeacherName    string `json:"teacherName"`
	Description    string `json:"description"`
	TeacherImage   string `json:"teacherImage"`
	Schedule1Image string `json:"schedule1Image"`
	Schedule2Image string `json:"schedule2Image"`
	// Legacy shapes: either a nested teacher object or flat
	// title/subtitle/image fields. Presence of any of these classifies
	// the record as legacy.
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Teacher  *struct {
		Name        string `json:"name"`
		Image       string `json:"image"`
		Description string `json:"description"`
	} `json:"teacher"`
}

// CarouselItem decodes one carousel record, folding legacy shapes into the
// canonical form. Exactly one shape is active per record; decoding an
// already-canonical record is a no-op on its fields.
func CarouselItem(raw json.RawMessage) (models.CarouselItem, error) {
	var w carouselWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.CarouselItem{}, fmt.Errorf("decode carousel item: %w", err)
	}

	item := models.CarouselItem{
		ID:             w.value(),
		TeacherName:    w.TeacherName,
		Description:    w.Description,
		TeacherImage:   w.TeacherImage,
		Schedule1Image: w.Schedule1Image,
		Schedule2Image: w.Schedule2Image,
	}

	if w.Title != "" || w.Subtitle != "" || w.Teacher != nil {
		item.Legacy = true
		if w.Teacher != nil {
			item.TeacherName = w.Teacher.Name
			item.TeacherImage = w.Teacher.Image
			if item.Description == "" {
				item.Description = w.Teacher.Description
			}
		} else {
			item.TeacherName = w.Title
			item.Description = w.Subtitle
			item.TeacherImage = w.Image
		}
	}

	return item, nil
}

// CarouselItems extracts and decodes the carousel collection from any of the
// accepted response nestings.
func CarouselItems(payload json.RawMessage) ([]models.CarouselItem, error) {
	records, ok := sectionArray(payload, "carouselItems")
	if !ok {
		return nil, fmt.Errorf("carousel payload has no carouselItems collection")
	}
	items := make([]models.CarouselItem, 0, len(records))
	for _, raw := range records {
		item, err := CarouselItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type offerWire struct {
	wireID
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Offer       string     `json:"offer"`
	Description string     `json:"description"`
	SlotID      string     `json:"slotId"`
	CourseID    string     `json:"courseId"`
	Color       string     `json:"color"`
	Discount    *FlexFloat `json:"discount"`
	ValidUntil  string     `json:"validUntil"`
	IsActive    *bool      `json:"isActive"`
}

// Offer decodes one offer record. name/title and offer/description are
// aliases; isActive defaults to true when absent.
func Offer(raw json.RawMessage) (models.Offer, error) {
	var w offerWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Offer{}, fmt.Errorf("decode offer: %w", err)
	}

	name := w.Name
	if name == "" {
		name = w.Title
	}
	text := w.Offer
	if text == "" {
		text = w.Description
	}

	offer := models.Offer{
		ID:         w.value(),
		Name:       name,
		Offer:      text,
		SlotID:     w.SlotID,
		CourseID:   w.CourseID,
		Color:      w.Color,
		ValidUntil: w.ValidUntil,
		IsActive:   boolOrDefault(w.IsActive, true),
	}
	if w.Discount != nil {
		d := float64(*w.Discount)
		offer.Discount = &d
	}
	return offer, nil
}

// Offers decodes the offers collection.
func Offers(payload json.RawMessage) ([]models.Offer, error) {
	records, ok := sectionArray(payload, "offers")
	if !ok {
		return nil, fmt.Errorf("offers payload has no offers collection")
	}
	offers := make([]models.Offer, 0, len(records))
	for _, raw := range records {
		offer, err := Offer(raw)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

type ongoingCourseWire struct {
	wireID
	Name        string `json:"name"`
	Title       string `json:"title"`
	Offer       string `json:"offer"`
	Description string `json:"description"`
	Color       string `json:"color"`
	SlotID      string `json:"slotId"`
	IsActive    *bool  `json:"isActive"`
	IsHidden    bool   `json:"isHidden"`
}

// OngoingCourse decodes one ongoing-course projection record.
func OngoingCourse(raw json.RawMessage) (models.OngoingCourse, error) {
	var w ongoingCourseWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.OngoingCourse{}, fmt.Errorf("decode ongoing course: %w", err)
	}

	title := w.Title
	if title == "" {
		title = w.Name
	}
	description := w.Description
	if description == "" {
		description = w.Offer
	}

	return models.OngoingCourse{
		ID:          w.value(),
		Title:       title,
		Description: description,
		Color:       w.Color,
		SlotID:      w.SlotID,
		IsActive:    boolOrDefault(w.IsActive, true),
		IsHidden:    w.IsHidden,
	}, nil
}

// OngoingCourses decodes the collection and filters out hidden records.
func OngoingCourses(payload json.RawMessage) ([]models.OngoingCourse, error) {
	records, ok := sectionArray(payload, "ongoingCourses")
	if !ok {
		return nil, fmt.Errorf("ongoing courses payload has no ongoingCourses collection")
	}
	courses := make([]models.OngoingCourse, 0, len(records))
	for _, raw := range records {
		course, err := OngoingCourse(raw)
		if err != nil {
			return nil, err
		}
		if course.IsHidden {
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

type testimonialWire struct {
	wireID
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Quote    string  `json:"quote"`
	Image    string  `json:"image"`
	Rating   FlexInt `json:"rating"`
	IsActive *bool   `json:"isActive"`
}

// Testimonial decodes one testimonial record.
func Testimonial(raw json.RawMessage) (models.Testimonial, error) {
	var w testimonialWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Testimonial{}, fmt.Errorf("decode testimonial: %w", err)
	}
	return models.Testimonial{
		ID:       w.value(),
		Name:     w.Name,
		Role:     w.Role,
		Quote:    w.Quote,
		Image:    w.Image,
		Rating:   int(w.Rating),
		IsActive: boolOrDefault(w.IsActive, true),
	}, nil
}

// Testimonials decodes the testimonials collection.
func Testimonials(payload json.RawMessage) ([]models.Testimonial, error) {
	records, ok := sectionArray(payload, "testimonials")
	if !ok {
		return nil, fmt.Errorf("testimonials payload has no testimonials collection")
	}
	items := make([]models.Testimonial, 0, len(records))
	for _, raw := range records {
		item, err := Testimonial(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
