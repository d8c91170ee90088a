package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
	"github.com/akademiklabs/inspection-api/pkg/export"
)

type inspectionDetailProvider interface {
	Detail(ctx context.Context, inspectionID string) (*dto.InspectionDetail, error)
}

type semesterScheduleProvider interface {
	Schedule(ctx context.Context, semester string) ([]dto.ScheduleEntry, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders inspection data into downloadable documents:
// a per-inspection report PDF and a per-semester schedule CSV.
type ExportService struct {
	details   inspectionDetailProvider
	schedules semesterScheduleProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(details inspectionDetailProvider, schedules semesterScheduleProvider, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{details: details, schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

// ReportPDF renders the inspection report as a PDF document. An
// inspection without a report cannot be exported.
func (s *ExportService) ReportPDF(ctx context.Context, inspectionID string) ([]byte, string, error) {
	detail, err := s.details.Detail(ctx, inspectionID)
	if err != nil {
		return nil, "", err
	}
	if detail.Report == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "inspection has no report to export")
	}

	report := detail.Report
	rows := []map[string]string{
		{"Field": "Inspected teacher", "Value": detail.InspectedName},
		{"Field": "Department", "Value": detail.DepartmentName},
		{"Field": "Subject", "Value": fmt.Sprintf("%s (%s)", detail.SubjectName, detail.SubjectCode)},
		{"Field": "Date of inspection", "Value": detail.DateOfInspection},
		{"Field": "Students attendance", "Value": strconv.Itoa(report.StudentsAttendance)},
		{"Field": "Room adaptation", "Value": report.RoomAdaptation},
		{"Field": "Content compatibility", "Value": strconv.Itoa(report.ContentCompatibility)},
		{"Field": "Substantive rating", "Value": report.SubstantiveRating},
		{"Field": "Final rating", "Value": strconv.Itoa(report.FinalRating)},
	}
	if report.LatenessMinutes != nil {
		rows = append(rows, map[string]string{"Field": "Lateness (minutes)", "Value": strconv.Itoa(*report.LatenessMinutes)})
	}
	if report.Objection {
		note := ""
		if report.ObjectionNote != nil {
			note = *report.ObjectionNote
		}
		rows = append(rows, map[string]string{"Field": "Objection", "Value": note})
	}

	payload, err := s.pdf.Render(export.Dataset{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}, "Inspection report")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report pdf")
	}

	filename := fmt.Sprintf("inspection-report-%s.pdf", inspectionID)
	return payload, filename, nil
}

// ScheduleCSV renders the semester inspection schedule as CSV.
func (s *ExportService) ScheduleCSV(ctx context.Context, semester string) ([]byte, string, error) {
	entries, err := s.schedules.Schedule(ctx, semester)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Time slot", "Room", "Building", "Subject", "Teacher", "Inspectors"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		inspectors := ""
		for i, member := range entry.InspectionTeam {
			if i > 0 {
				inspectors += "; "
			}
			inspectors += fmt.Sprintf("%s %s %s", member.Title, member.FirstName, member.Surname)
		}
		rows = append(rows, map[string]string{
			"Time slot":  entry.TimeSlot,
			"Room":       entry.Room,
			"Building":   entry.Building,
			"Subject":    fmt.Sprintf("%s (%s)", entry.SubjectName, entry.SubjectType),
			"Teacher":    fmt.Sprintf("%s %s %s", entry.TeacherTitle, entry.TeacherName, entry.TeacherSurname),
			"Inspectors": inspectors,
		})
	}

	payload, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule csv")
	}

	filename := fmt.Sprintf("inspection-schedule-%s.csv", semester)
	return payload, filename, nil
}
