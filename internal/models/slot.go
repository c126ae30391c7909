package models

// Slot types.
const (
	SlotTypeOnline  = "online"
	SlotTypeOffline = "offline"
)

// Slot is a batch and the capacity source of truth joined into offers,
// ongoing courses and readmission views. 0 <= EnrolledStudents <= Capacity.
type Slot struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Course           string   `json:"course,omitempty"`
	Subject          string   `json:"subject"`
	Class            string   `json:"class"`
	Type             string   `json:"type"`
	Days             []string `json:"days"`
	Instructor       string   `json:"instructor"`
	Location         string   `json:"location"`
	Capacity         int      `json:"capacity"`
	EnrolledStudents int      `json:"enrolledStudents"`
	IsActive         bool     `json:"isActive"`
}

// SlotAvailability is the derived view computed by the cross-referencer.
// It is never persisted and is recomputed on every view model build.
type SlotAvailability struct {
	SlotID          string `json:"slotId"`
	AvailableSeats  int    `json:"availableSeats"`
	IsFull          bool   `json:"isFull"`
	LowAvailability bool   `json:"lowAvailability"`
}
