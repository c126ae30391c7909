// Package validation holds the per-entity form validators. Every write
// operation runs these before any upstream call; an empty ErrorMap means the
// form may be submitted. Validators are pure and never mutate their input.
package validation

import (
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
)

// ErrorMap maps a field name to a human-readable message. Field names match
// the wire keys so local and upstream errors merge into one map.
type ErrorMap map[string]string

var contactPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Carousel validates a carousel item form.
func Carousel(form dto.CarouselForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "teacherName", form.TeacherName, "Teacher name is required")
	requireField(errs, "description", form.Description, "Description is required")
	requireField(errs, "teacherImage", form.TeacherImage, "Teacher image is required")
	return errs
}

// Offer validates an offer form.
func Offer(form dto.OfferForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "name", form.Name, "Name is required")
	requireField(errs, "offer", form.Offer, "Offer text is required")
	if form.Discount != nil && (*form.Discount < 0 || *form.Discount > 100) {
		errs["discount"] = "Discount must be between 0 and 100"
	}
	return errs
}

// OngoingCourse validates an ongoing-course form.
func OngoingCourse(form dto.OngoingCourseForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "title", form.Title, "Title is required")
	requireField(errs, "description", form.Description, "Description is required")
	return errs
}

// Course validates a catalogue course form. At least one of monthlyPrice or
// yearlyPrice must be present; any present price must be non-negative.
func Course(form dto.CourseForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "title", form.Title, "Title is required")
	requireField(errs, "description", form.Description, "Description is required")
	requireField(errs, "instructor", form.Instructor, "Instructor is required")

	if form.MonthlyPrice == nil && form.YearlyPrice == nil {
		errs["monthlyPrice"] = "At least one of monthly or yearly price is required"
	}
	if form.MonthlyPrice != nil && *form.MonthlyPrice < 0 {
		errs["monthlyPrice"] = "Monthly price must be a non-negative number"
	}
	if form.YearlyPrice != nil && *form.YearlyPrice < 0 {
		errs["yearlyPrice"] = "Yearly price must be a non-negative number"
	}
	if form.Price != nil && *form.Price < 0 {
		errs["price"] = "Price must be a non-negative number"
	}

	if form.Class == nil {
		errs["class"] = "Class is required"
	} else if *form.Class < 1 || *form.Class > 12 {
		errs["class"] = "Class must be an integer between 1 and 12"
	}
	return errs
}

// Merchandise validates a shop item form.
func Merchandise(form dto.MerchandiseForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "title", form.Title, "Title is required")
	if strings.TrimSpace(form.Description) == "" {
		errs["description"] = "Description is required"
	} else if len(strings.TrimSpace(form.Description)) < 10 {
		errs["description"] = "must be at least 10 characters"
	}
	if form.Price == nil {
		errs["price"] = "Price is required"
	} else if *form.Price <= 0 {
		errs["price"] = "Price must be greater than 0"
	}
	return errs
}

// Slot validates a batch form, including the enrolled-versus-capacity bound.
func Slot(form dto.SlotForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "name", form.Name, "Name is required")
	requireField(errs, "subject", form.Subject, "Subject is required")
	requireField(errs, "class", form.Class, "Class is required")
	requireField(errs, "instructor", form.Instructor, "Instructor is required")
	requireField(errs, "location", form.Location, "Location is required")

	if len(form.Days) == 0 {
		errs["days"] = "Select at least one day"
	}

	if form.Capacity == nil {
		errs["capacity"] = "Capacity is required"
	} else if *form.Capacity < 1 || *form.Capacity > 50 {
		errs["capacity"] = "Capacity must be between 1 and 50"
	}

	if form.EnrolledStudents != nil {
		if *form.EnrolledStudents < 0 {
			errs["enrolledStudents"] = "Enrolled students cannot be negative"
		} else if form.Capacity != nil && *form.EnrolledStudents > *form.Capacity {
			errs["enrolledStudents"] = "Enrolled students cannot exceed capacity"
		}
	}
	return errs
}

// Readmission validates a readmission request form. Contact must be exactly
// ten digits.
func Readmission(form dto.ReadmissionForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "studentName", form.StudentName, "Student name is required")
	requireField(errs, "subject", form.Subject, "Subject is required")
	requireField(errs, "slotName", form.SlotName, "Slot name is required")

	if strings.TrimSpace(form.Contact) == "" {
		errs["contact"] = "Contact is required"
	} else if !contactPattern.MatchString(form.Contact) {
		errs["contact"] = "Contact must be a 10-digit number"
	}
	return errs
}

// Testimonial validates a testimonial form. Rating is optional but bounded.
func Testimonial(form dto.TestimonialForm) ErrorMap {
	errs := ErrorMap{}
	requireField(errs, "name", form.Name, "Name is required")
	requireField(errs, "quote", form.Quote, "Quote is required")
	if form.Rating != nil && (*form.Rating < 1 || *form.Rating > 5) {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	return errs
}

// MergeUpstream folds server-supplied field errors into a local ErrorMap.
// Local messages win on key collisions; the form was already invalid there.
func MergeUpstream(local ErrorMap, fields []apperrors.FieldError) ErrorMap {
	if len(fields) == 0 {
		return local
	}
	merged := ErrorMap{}
	for _, f := range fields {
		if f.Path != "" {
			merged[f.Path] = f.Msg
		}
	}
	for k, v := range local {
		merged[k] = v
	}
	return merged
}

// Error wraps a non-empty map into the typed validation error the response
// layer renders as field-level errors. Fields are ordered by name so the
// envelope is deterministic.
func (e ErrorMap) Error() *apperrors.Error {
	if len(e) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]apperrors.FieldError, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, apperrors.FieldError{Path: k, Msg: e[k]})
	}
	return apperrors.WithFields(apperrors.ErrValidation, fields)
}

func requireField(errs ErrorMap, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
	}
}
