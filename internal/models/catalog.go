package models

// Course is a catalogue entry. At least one of Price, MonthlyPrice or
// YearlyPrice must be a positive number for the record to pass validation;
// storage does not guarantee it.
type Course struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Instructor    string   `json:"instructor"`
	Price         *float64 `json:"price,omitempty"`
	MonthlyPrice  *float64 `json:"monthlyPrice,omitempty"`
	YearlyPrice   *float64 `json:"yearlyPrice,omitempty"`
	Class         int      `json:"class"`
	Image         string   `json:"image,omitempty"`
	EnrollmentURL string   `json:"enrollmentUrl,omitempty"`
	Rating        float64  `json:"rating"`
	Students      int      `json:"students"`
	Category      string   `json:"category,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Tags          []string `json:"tags"`
	IsActive      bool     `json:"isActive"`
}

// Merchandise is a shop item. Stock at or below zero disables purchase on
// the public side.
type Merchandise struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
}
