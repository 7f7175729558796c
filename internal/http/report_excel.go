package httpapi

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// DailyReportHeader is the export column order.
var DailyReportHeader = []string{
	"Day",
	"Device Code",
	"Readings",
	"Avg",
	"Max",
	"Min",
	"Alerts",
	"Generated At",
}

// GenerateDailyReportExcel renders one day's summaries as an xlsx workbook.
func GenerateDailyReportExcel(day string, summaries []domain.DailySummary) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() here, WriteTo needs the file open

	sheetName := "Daily Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range DailyReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header cell %s: %w", cell, err)
		}
	}

	for i, s := range summaries {
		rowN := i + 2
		values := []any{
			day,
			s.DeviceCode,
			s.CountRecords,
			nullableFloat(s.AvgValue.Float64, s.AvgValue.Valid),
			nullableFloat(s.MaxValue.Float64, s.MaxValue.Valid),
			nullableFloat(s.MinValue.Float64, s.MinValue.Valid),
			s.AlertCount,
			s.GeneratedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowN)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func nullableFloat(v float64, valid bool) any {
	if !valid {
		return ""
	}
	return v
}
