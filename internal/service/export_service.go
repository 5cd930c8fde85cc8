package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/drivedesk/drivedesk-api/internal/models"
	"github.com/drivedesk/drivedesk-api/internal/scheduling"
	"github.com/drivedesk/drivedesk-api/pkg/export"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

// ExportFormat selects the rendering of a day plan.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type exportLessonRepository interface {
	ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]models.Lesson, error)
}

type exportUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type exportBlockedSlotRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.BlockedSlot, error)
}

// ExportService renders an instructor's day plan as CSV or PDF.
type ExportService struct {
	lessons exportLessonRepository
	blocked exportBlockedSlotRepository
	users   exportUserRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService creates an instance of ExportService.
func NewExportService(lessons exportLessonRepository, blocked exportBlockedSlotRepository, users exportUserRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		lessons: lessons,
		blocked: blocked,
		users:   users,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

var dayPlanHeaders = []string{"From", "To", "Entry", "Status"}

// InstructorDayPlan builds the chronological plan for one instructor day:
// lessons with student names plus expanded blocked ranges. It returns the
// rendered bytes and the matching content type.
func (s *ExportService) InstructorDayPlan(ctx context.Context, instructorID string, day time.Time, format ExportFormat) ([]byte, string, error) {
	dayStart := scheduling.DayStart(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	lessons, err := s.lessons.ListByInstructorAndRange(ctx, instructorID, dayStart, dayEnd)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day plan lessons")
	}
	blockedSlots, err := s.blocked.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocked slots")
	}

	type entry struct {
		start  time.Time
		end    time.Time
		label  string
		status string
	}
	var entries []entry

	for _, lesson := range lessons {
		label := lesson.StudentID
		if student, err := s.users.FindByID(ctx, lesson.StudentID); err == nil {
			label = student.FullName
		}
		entries = append(entries, entry{start: lesson.StartAt, end: lesson.EndAt, label: label, status: string(lesson.Status)})
	}
	for i, slot := range blockedSlots {
		if occ, ok := scheduling.ExpandOn(blockedSlots[i], day); ok {
			entries = append(entries, entry{start: occ.Start, end: occ.End, label: slot.Name, status: "BLOCKED"})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].start.Before(entries[j].start) })

	dataset := export.Dataset{Headers: dayPlanHeaders}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, []string{
			e.start.Format("15:04"),
			e.end.Format("15:04"),
			e.label,
			e.status,
		})
	}

	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case FormatPDF:
		title := fmt.Sprintf("Day plan %s", dayStart.Format("2006-01-02"))
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
