package decode

import (
	"encoding/json"
	"fmt"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

type slotWire struct {
	wireID
	Name             string     `json:"name"`
	Course           string     `json:"course"`
	Subject          string     `json:"subject"`
	Class            FlexString `json:"class"`
	Type             string     `json:"type"`
	Days             []string   `json:"days"`
	Instructor       string     `json:"instructor"`
	Location         string     `json:"location"`
	Capacity         FlexInt    `json:"capacity"`
	EnrolledStudents FlexInt    `json:"enrolledStudents"`
	IsActive         *bool      `json:"isActive"`
}

// SlotRecord decodes one slot (batch) record.
func SlotRecord(raw json.RawMessage) (models.Slot, error) {
	var w slotWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Slot{}, fmt.Errorf("decode slot: %w", err)
	}

	slot := models.Slot{
		ID:               w.value(),
		Name:             w.Name,
		Course:           w.Course,
		Subject:          w.Subject,
		Class:            string(w.Class),
		Type:             w.Type,
		Days:             w.Days,
		Instructor:       w.Instructor,
		Location:         w.Location,
		Capacity:         int(w.Capacity),
		EnrolledStudents: int(w.EnrolledStudents),
		IsActive:         boolOrDefault(w.IsActive, true),
	}
	if slot.Days == nil {
		slot.Days = []string{}
	}
	return slot, nil
}

// Slots decodes the slots collection.
func Slots(payload json.RawMessage) ([]models.Slot, error) {
	records, ok := sectionArray(payload, "slots")
	if !ok {
		return nil, fmt.Errorf("slots payload has no slots collection")
	}
	slots := make([]models.Slot, 0, len(records))
	for _, raw := range records {
		slot, err := SlotRecord(raw)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

type readmissionWire struct {
	wireID
	StudentName string `json:"studentName"`
	Subject     string `json:"subject"`
	Course      string `json:"course"`
	Contact     string `json:"contact"`
	SlotName    string `json:"slotName"`
	Batch       string `json:"batch"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	SlotInfo    *struct {
		EnrolledStudents FlexInt `json:"enrolledStudents"`
		Capacity         FlexInt `json:"capacity"`
		IsFull           bool    `json:"isFull"`
		AvailableSlots   FlexInt `json:"availableSlots"`
	} `json:"slotInfo"`
}

// ReadmissionRecord decodes one readmission request. subject/course are
// aliases; status defaults to pending.
func ReadmissionRecord(raw json.RawMessage) (models.Readmission, error) {
	var w readmissionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Readmission{}, fmt.Errorf("decode readmission: %w", err)
	}

	subject := w.Subject
	if subject == "" {
		subject = w.Course
	}
	status := w.Status
	if status == "" {
		status = models.ReadmissionPending
	}

	r := models.Readmission{
		ID:          w.value(),
		StudentName: w.StudentName,
		Subject:     subject,
		Contact:     w.Contact,
		SlotName:    w.SlotName,
		Batch:       w.Batch,
		Status:      status,
		Notes:       w.Notes,
	}
	if w.SlotInfo != nil {
		r.SlotInfo = models.ReadmissionSlotInfo{
			EnrolledStudents: int(w.SlotInfo.EnrolledStudents),
			Capacity:         int(w.SlotInfo.Capacity),
			IsFull:           w.SlotInfo.IsFull,
			AvailableSlots:   int(w.SlotInfo.AvailableSlots),
		}
	}
	return r, nil
}

// Readmissions decodes the readmissions collection.
func Readmissions(payload json.RawMessage) ([]models.Readmission, error) {
	records, ok := sectionArray(payload, "readmissions")
	if !ok {
		return nil, fmt.Errorf("readmissions payload has no readmissions collection")
	}
	items := make([]models.Readmission, 0, len(records))
	for _, raw := range records {
		item, err := ReadmissionRecord(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
