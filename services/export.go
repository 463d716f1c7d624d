package services

import (
	"context"
	"fmt"

	"CareDesk/models"

	"github.com/360EntSecGroup-Skylar/excelize"
)

const ExportSheet = "Appointments"

var exportHeaders = []string{
	"Patient", "Email", "Phone", "Specialty", "Doctor",
	"Date", "Time", "Reason", "Contact", "Status", "Doctor Note",
}

func cell(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

func appendAppointmentRow(file *excelize.File, row int, a models.Appointment) {
	values := []interface{}{
		a.PatientName,
		a.PatientEmail,
		a.PatientPhone,
		a.Specialty,
		a.Doctor,
		a.PreferredDate.Format("2006-01-02"),
		a.PreferredTime,
		a.Reason,
		a.ContactMethod,
		a.Status,
		a.DoctorNote,
	}
	for col, v := range values {
		file.SetCellValue(ExportSheet, cell(col, row), v)
	}
}

// BuildAppointmentWorkbook writes one row per appointment under a header row.
func BuildAppointmentWorkbook(appts []models.Appointment) *excelize.File {
	file := excelize.NewFile()
	file.NewSheet(ExportSheet)
	file.DeleteSheet("Sheet1")

	for col, h := range exportHeaders {
		file.SetCellValue(ExportSheet, cell(col, 1), h)
	}
	for i, a := range appts {
		appendAppointmentRow(file, i+2, a)
	}
	return file
}

/*
* Reuse the listing rules for visibility and ordering
* Render the result as a workbook
 */
func (s *AppointmentService) Export(ctx context.Context, p models.Principal, userID, doctorID string) (*excelize.File, error) {
	appts, err := s.List(ctx, p, userID, doctorID)
	if err != nil {
		return nil, err
	}
	return BuildAppointmentWorkbook(appts), nil
}
