package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
	"github.com/avidya-edu/academy-cms-gateway/pkg/export"
	"github.com/avidya-edu/academy-cms-gateway/pkg/storage"
)

// Export report names and formats.
const (
	ReportReadmissions = "readmissions"
	ReportSlots        = "slots"

	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportResult describes one generated report file.
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Content     []byte `json:"-"`
}

// ExportService renders admin reports to CSV or PDF and keeps a copy on disk
// so recent exports can be re-downloaded.
type ExportService struct {
	reconciler   *Reconciler
	readmissions ReadmissionLister
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	store        *storage.LocalStorage
	audit        AuditRecorder
	logger       *zap.Logger
	now          func() time.Time
}

// ExportServiceParams collects the export service dependencies.
type ExportServiceParams struct {
	Reconciler   *Reconciler
	Readmissions ReadmissionLister
	Store        *storage.LocalStorage
	Audit        AuditRecorder
	Logger       *zap.Logger
}

// NewExportService builds an ExportService.
func NewExportService(p ExportServiceParams) *ExportService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &ExportService{
		reconciler:   p.Reconciler,
		readmissions: p.Readmissions,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		store:        p.Store,
		audit:        p.Audit,
		logger:       p.Logger,
		now:          time.Now,
	}
}

// Generate renders the named report in the requested format.
func (s *ExportService) Generate(ctx context.Context, actor Actor, report, format string) (*ExportResult, error) {
	var (
		dataset export.Dataset
		title   string
		err     error
	)
	switch report {
	case ReportReadmissions:
		dataset, err = s.readmissionDataset(ctx)
		title = "Readmission Register"
	case ReportSlots:
		dataset, err = s.slotDataset(ctx)
		title = "Batch Roster"
	default:
		return nil, apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("unknown report %q", report))
	}
	if err != nil {
		return nil, err
	}

	var content []byte
	var contentType string
	switch format {
	case FormatCSV, "":
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
		format = FormatCSV
	case FormatPDF:
		content, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, apperrors.WithFields(apperrors.ErrValidation, []apperrors.FieldError{
			{Path: "format", Msg: "Format must be csv or pdf"},
		})
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", report, s.now().UTC().Format("20060102_150405"), format)
	if s.store != nil {
		if _, err := s.store.Save(filename, content); err != nil {
			s.logger.Warn("failed to persist export copy", zap.String("filename", filename), zap.Error(err))
		}
	}

	s.record(ctx, actor, report, filename)

	return &ExportResult{
		Filename:    filename,
		ContentType: contentType,
		Size:        len(content),
		Content:     content,
	}, nil
}

// CleanupLoop periodically removes stored exports past their retention.
// Blocks until the context is cancelled.
func (s *ExportService) CleanupLoop(ctx context.Context, interval, retain time.Duration) {
	if s.store == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(retain)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("cleaned up stored exports", zap.Int("count", len(deleted)))
			}
		}
	}
}

func (s *ExportService) readmissionDataset(ctx context.Context) (export.Dataset, error) {
	records, err := s.readmissions.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	headers := []string{"Student", "Subject", "Contact", "Slot", "Batch", "Status", "Seats Left"}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Student":    r.StudentName,
			"Subject":    r.Subject,
			"Contact":    r.Contact,
			"Slot":       r.SlotName,
			"Batch":      r.Batch,
			"Status":     r.Status,
			"Seats Left": strconv.Itoa(r.SlotInfo.AvailableSlots),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ExportService) slotDataset(ctx context.Context) (export.Dataset, error) {
	state, err := s.reconciler.State(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	headers := []string{"Name", "Subject", "Class", "Type", "Days", "Instructor", "Location", "Enrolled", "Capacity", "Available"}
	rows := make([]map[string]string, 0, len(state.Slots))
	for _, slot := range state.Slots {
		avail := Availability(slot)
		rows = append(rows, map[string]string{
			"Name":       slot.Name,
			"Subject":    slot.Subject,
			"Class":      slot.Class,
			"Type":       slot.Type,
			"Days":       strings.Join(slot.Days, " "),
			"Instructor": slot.Instructor,
			"Location":   slot.Location,
			"Enrolled":   strconv.Itoa(slot.EnrolledStudents),
			"Capacity":   strconv.Itoa(slot.Capacity),
			"Available":  strconv.Itoa(avail.AvailableSeats),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ExportService) record(ctx context.Context, actor Actor, report, filename string) {
	if s.audit == nil {
		return
	}
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		Actor:      actor.Username,
		Action:     models.AuditActionExport,
		Resource:   report,
		ResourceID: &filename,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", models.AuditActionExport), zap.Error(err))
	}
}
