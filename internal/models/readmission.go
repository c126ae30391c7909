package models

// Readmission statuses. Pending may move to approved or rejected; both are
// terminal.
const (
	ReadmissionPending  = "pending"
	ReadmissionApproved = "approved"
	ReadmissionRejected = "rejected"
)

// ReadmissionSlotInfo summarises the referenced slot's occupancy as shipped
// by the upstream API.
type ReadmissionSlotInfo struct {
	EnrolledStudents int  `json:"enrolledStudents"`
	Capacity         int  `json:"capacity"`
	IsFull           bool `json:"isFull"`
	AvailableSlots   int  `json:"availableSlots"`
}

// Readmission is a returning student's request to join a batch.
type Readmission struct {
	ID          string              `json:"id"`
	StudentName string              `json:"studentName"`
	Subject     string              `json:"subject"`
	Contact     string              `json:"contact"`
	SlotName    string              `json:"slotName"`
	Batch       string              `json:"batch,omitempty"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	SlotInfo    ReadmissionSlotInfo `json:"slotInfo"`
}
