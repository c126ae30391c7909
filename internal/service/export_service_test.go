package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

func exportFixture(t *testing.T) *ExportService {
	t.Helper()
	reconciler := NewReconciler(ReconcilerParams{Client: contentFetcher()})
	_, err := reconciler.Refresh(context.Background())
	require.NoError(t, err)

	lister := &fakeLister{records: []models.Readmission{
		{ID: "r1", StudentName: "Asha", Subject: "Physics", Contact: "9876543210",
			SlotName: "Morning Batch", Status: models.ReadmissionPending,
			SlotInfo: models.ReadmissionSlotInfo{EnrolledStudents: 25, Capacity: 30, AvailableSlots: 5}},
	}}

	return NewExportService(ExportServiceParams{
		Reconciler:   reconciler,
		Readmissions: lister,
	})
}

func TestGenerateReadmissionCSV(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.Generate(context.Background(), Actor{Username: "admin"}, ReportReadmissions, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "readmissions_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Content)
	assert.Contains(t, body, "Student,Subject,Contact,Slot,Batch,Status,Seats Left")
	assert.Contains(t, body, "Asha,Physics,9876543210,Morning Batch,,pending,5")
}

func TestGenerateSlotPDF(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.Generate(context.Background(), Actor{Username: "admin"}, ReportSlots, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestGenerateDefaultsToCSV(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.Generate(context.Background(), Actor{Username: "admin"}, ReportSlots, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestGenerateRejectsUnknownReportAndFormat(t *testing.T) {
	svc := exportFixture(t)

	_, err := svc.Generate(context.Background(), Actor{}, "bogus", FormatCSV)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound.Code, appErr.Code)

	_, err = svc.Generate(context.Background(), Actor{}, ReportSlots, "xlsx")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation.Code, appErr.Code)
}
