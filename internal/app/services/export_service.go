package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/pkg/export"
	"github.com/yigit/tam/internal/pkg/helpers"
)

const (
	exportDateLayout     = "2006-01-02"
	exportDateTimeLayout = "2006-01-02 15:04:05"
	exportMessage        = "Excel file generated successfully"
)

var registrationExportHeader = []string{
	"Event Name", "Registrant Name", "Roll Number", "Department/Section", "Email", "Phone",
	"Team Name", "Payment Method", "Payment Status", "Payment Amount", "Registration Date",
	"Check-in Status", "Check-in Time",
}

var checkinExportHeader = []string{
	"Event Name", "Registrant Name", "Member Name", "Roll Number", "Department/Section", "Email",
	"Phone", "Team Name", "Check-in Time", "Payment Method", "Payment Status", "Payment Amount",
	"QR Code",
}

// RegistrationExporter lists every registration of an export
type RegistrationExporter interface {
	ListAll(ctx context.Context, eventID *int64) ([]*models.Registration, error)
}

// CheckinExporter lists every checkin of an export
type CheckinExporter interface {
	ListAll(ctx context.Context, eventID *int64) ([]*models.Checkin, error)
}

// ExportService renders registrations and checkins as Excel workbooks
type ExportService struct {
	registrations RegistrationExporter
	checkins      CheckinExporter
	location      *time.Location
	logger        zerolog.Logger
}

// NewExportService creates a new export service. Times are rendered in loc.
func NewExportService(registrations RegistrationExporter, checkins CheckinExporter, loc *time.Location, logger zerolog.Logger) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{
		registrations: registrations,
		checkins:      checkins,
		location:      loc,
		logger:        logger,
	}
}

func orNA(s string) string {
	if s == "" {
		return models.NotApplicable
	}
	return s
}

func (s *ExportService) formatTime(t *time.Time, layout string) string {
	return helpers.FormatIn(t, s.location, layout, models.NotApplicable)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (s *ExportService) registrationRow(r *models.Registration) []interface{} {
	var primary models.Person
	if r.Registrant != nil {
		primary = r.Registrant.Primary()
	}

	teamName := ""
	if team := r.Team(); team != nil {
		teamName = team.Name
	}

	method, status, amount := models.NotApplicable, models.NotApplicable, int64(0)
	if r.Payment != nil {
		method, status, amount = string(r.Payment.Method), string(r.Payment.Status), r.Payment.Amount
	}

	return []interface{}{
		orNA(r.EventName),
		orNA(primary.Name),
		orNA(primary.RollNumber),
		orNA(primary.DepartmentSection),
		orNA(r.Email),
		orNA(primary.Phone),
		orNA(teamName),
		method,
		status,
		amount,
		s.formatTime(&r.CreatedAt, exportDateLayout),
		yesNo(r.IsCheckedIn),
		s.formatTime(r.CheckInTime, exportDateTimeLayout),
	}
}

func (s *ExportService) checkinRow(c *models.Checkin) []interface{} {
	return []interface{}{
		orNA(c.EventName),
		orNA(c.RegistrantName),
		orNA(c.MemberName),
		orNA(c.RollNumber),
		orNA(c.DepartmentSection),
		orNA(c.Email),
		orNA(c.Phone),
		orNA(c.TeamName),
		s.formatTime(&c.CheckInTime, exportDateTimeLayout),
		orNA(c.PaymentMethod),
		orNA(c.PaymentStatus),
		c.PaymentAmount,
		orNA(c.QRCode),
	}
}

// ExportRegistrations renders the "Registrations" sheet
func (s *ExportService) ExportRegistrations(ctx context.Context, eventID *int64) (*dto.ExportResponse, error) {
	registrations, err := s.registrations.ListAll(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error loading registrations for export: %w", err)
	}

	sheet := export.Sheet{Name: "Registrations", Header: registrationExportHeader}
	for _, r := range registrations {
		sheet.Rows = append(sheet.Rows, s.registrationRow(r))
	}

	return s.render(sheet)
}

// ExportCheckins renders the "Checkins" sheet
func (s *ExportService) ExportCheckins(ctx context.Context, eventID *int64) (*dto.ExportResponse, error) {
	checkins, err := s.checkins.ListAll(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error loading checkins for export: %w", err)
	}

	sheet := export.Sheet{Name: "Checkins", Header: checkinExportHeader}
	for _, c := range checkins {
		sheet.Rows = append(sheet.Rows, s.checkinRow(c))
	}

	return s.render(sheet)
}

func (s *ExportService) render(sheet export.Sheet) (*dto.ExportResponse, error) {
	data, err := export.Base64Workbook(sheet)
	if err != nil {
		s.logger.Error().Err(err).Str("sheet", sheet.Name).Msg("Excel export failed")
		return nil, err
	}

	s.logger.Info().Str("sheet", sheet.Name).Int("rows", len(sheet.Rows)).Msg("Excel export generated")
	return &dto.ExportResponse{Success: true, ExcelData: data, Message: exportMessage}, nil
}
