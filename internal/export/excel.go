// Package export renders booking lists as Excel workbooks for
// administrators.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"prenota/internal/models"
)

var columns = []string{
	"ID", "User", "Date", "Start", "End", "Room", "Platform", "Status", "Technician",
}

// WriteBookings writes one sheet per date with the bookings of that date,
// ordered as given.
func WriteBookings(w io.Writer, byDate map[string][]models.Booking, dates []string) error {
	file := excelize.NewFile()
	defer file.Close()

	first := true
	for _, date := range dates {
		sheet := sheetName(date)
		if first {
			file.SetSheetName("Sheet1", sheet)
			first = false
		} else {
			if _, err := file.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(file, sheet, byDate[date]); err != nil {
			return err
		}
	}
	if first {
		// No dates at all; keep a single sheet with just the header.
		if err := writeSheet(file, "Sheet1", nil); err != nil {
			return err
		}
	}

	return file.Write(w)
}

func sheetName(date string) string {
	if len(date) > 31 {
		return date[:31]
	}
	return date
}

func writeSheet(file *excelize.File, sheet string, bookings []models.Booking) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = file.SetCellStyle(sheet, startCell, endCell, style)
	}

	for rowIdx, b := range bookings {
		values := []any{
			b.ID, b.UserName, b.Date, b.StartTime, b.EndTime,
			b.Room, b.Platform, string(b.Status), b.Technician,
		}
		for i, val := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
