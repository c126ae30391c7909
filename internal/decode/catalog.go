package decode

import (
	"encoding/json"
	"fmt"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

type courseWire struct {
	wireID
	Title         string     `json:"title"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Instructor    string     `json:"instructor"`
	Price         *FlexFloat `json:"price"`
	MonthlyPrice  *FlexFloat `json:"monthlyPrice"`
	YearlyPrice   *FlexFloat `json:"yearlyPrice"`
	Class         FlexInt    `json:"class"`
	Image         string     `json:"image"`
	EnrollmentURL string     `json:"enrollmentUrl"`
	Rating        FlexFloat  `json:"rating"`
	Students      FlexInt    `json:"students"`
	Category      string     `json:"category"`
	Duration      string     `json:"duration"`
	Tags          []string   `json:"tags"`
	IsActive      *bool      `json:"isActive"`
}

// Course decodes one catalogue course. Prices tolerate string-typed numbers
// from older records; the canonical shape is numeric.
func Course(raw json.RawMessage) (models.Course, error) {
	var w courseWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Course{}, fmt.Errorf("decode course: %w", err)
	}

	title := w.Title
	if title == "" {
		title = w.Name
	}

	course := models.Course{
		ID:            w.value(),
		Title:         title,
		Description:   w.Description,
		Instructor:    w.Instructor,
		Class:         int(w.Class),
		Image:         w.Image,
		EnrollmentURL: w.EnrollmentURL,
		Rating:        float64(w.Rating),
		Students:      int(w.Students),
		Category:      w.Category,
		Duration:      w.Duration,
		Tags:          w.Tags,
		IsActive:      boolOrDefault(w.IsActive, true),
	}
	if course.Tags == nil {
		course.Tags = []string{}
	}
	course.Price = floatPtr(w.Price)
	course.MonthlyPrice = floatPtr(w.MonthlyPrice)
	course.YearlyPrice = floatPtr(w.YearlyPrice)
	return course, nil
}

// Courses decodes the courses collection.
func Courses(payload json.RawMessage) ([]models.Course, error) {
	records, ok := sectionArray(payload, "courses")
	if !ok {
		return nil, fmt.Errorf("courses payload has no courses collection")
	}
	courses := make([]models.Course, 0, len(records))
	for _, raw := range records {
		course, err := Course(raw)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

type merchandiseWire struct {
	wireID
	Title       string    `json:"title"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       FlexFloat `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Stock       *FlexInt  `json:"stock"`
}

// MerchandiseItem decodes one merchandise record.
func MerchandiseItem(raw json.RawMessage) (models.Merchandise, error) {
	var w merchandiseWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Merchandise{}, fmt.Errorf("decode merchandise: %w", err)
	}

	title := w.Title
	if title == "" {
		title = w.Name
	}

	item := models.Merchandise{
		ID:          w.value(),
		Title:       title,
		Description: w.Description,
		Price:       float64(w.Price),
		Category:    w.Category,
		Image:       w.Image,
	}
	if w.Stock != nil {
		stock := int(*w.Stock)
		item.Stock = &stock
	}
	return item, nil
}

// Merchandise decodes the merchandise collection.
func Merchandise(payload json.RawMessage) ([]models.Merchandise, error) {
	records, ok := sectionArray(payload, "merchandise")
	if !ok {
		return nil, fmt.Errorf("merchandise payload has no merchandise collection")
	}
	items := make([]models.Merchandise, 0, len(records))
	for _, raw := range records {
		item, err := MerchandiseItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func floatPtr(f *FlexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}
