// Package sheets builds printable sign-in sheet workbooks for an activity:
// one name column and one column per weekly class date.
package sheets

import (
	"fmt"
	"math"
	"time"

	"github.com/rocfit/classtrack-api/internal/schedule"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultWeeks is used when a session span is unknown.
	DefaultWeeks = 7
	MinWeeks     = 1
	MaxWeeks     = 52
)

// NumWeeks derives the number of weekly date columns from a date span,
// clamped to [MinWeeks, MaxWeeks]. Missing or unparseable dates fall back
// to DefaultWeeks.
func NumWeeks(startDate, endDate string) int {
	if startDate == "" || endDate == "" {
		return DefaultWeeks
	}
	start, err := schedule.ParseDate(startDate)
	if err != nil {
		return DefaultWeeks
	}
	end, err := schedule.ParseDate(endDate)
	if err != nil {
		return DefaultWeeks
	}

	days := math.Abs(end.Sub(start).Hours() / 24)
	weeks := int(math.Ceil(days / 7))
	if weeks < MinWeeks {
		return MinWeeks
	}
	if weeks > MaxWeeks {
		return MaxWeeks
	}
	return weeks
}

// SheetInfo carries the activity context printed in the workbook header.
type SheetInfo struct {
	SessionName string
	DayOfWeek   string
	Type        string
}

// Title is the workbook title, e.g. "Fall 2025 - Friday Zumba".
func (s SheetInfo) Title() string {
	return fmt.Sprintf("%s - %s %s", s.SessionName, s.DayOfWeek, s.Type)
}

// Generate builds the sign-in workbook: a merged title row, a row of weekly
// M/D date headers starting at startDate, one row per enrolled student, a
// "Wait List/Drop Ins:" section and a few blank rows for walk-ins.
func Generate(info SheetInfo, startDate string, numWeeks int, enrolled, waitlist []string) (*excelize.File, error) {
	start, err := schedule.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if numWeeks < MinWeeks || numWeeks > MaxWeeks {
		return nil, fmt.Errorf("numWeeks must be between %d and %d", MinWeeks, MaxWeeks)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := make([]string, numWeeks)
	for i := range headers {
		d := start.AddDate(0, 0, 7*i)
		headers[i] = fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
	}

	row := 1
	if err := setRow(f, sheet, row, append([]string{info.Title()}, make([]string, numWeeks)...)); err != nil {
		return nil, err
	}
	endCol, _ := excelize.ColumnNumberToName(numWeeks + 1)
	if err := f.MergeCell(sheet, "A1", endCol+"1"); err != nil {
		return nil, err
	}

	row++
	if err := setRow(f, sheet, row, append([]string{""}, headers...)); err != nil {
		return nil, err
	}

	for _, name := range enrolled {
		row++
		if err := setRow(f, sheet, row, []string{name}); err != nil {
			return nil, err
		}
	}

	row += 2 // blank separator row
	if err := setRow(f, sheet, row, []string{"Wait List/Drop Ins:"}); err != nil {
		return nil, err
	}
	for _, name := range waitlist {
		row++
		if err := setRow(f, sheet, row, []string{name}); err != nil {
			return nil, err
		}
	}

	if err := styleHeader(f, sheet, numWeeks); err != nil {
		return nil, err
	}
	return f, nil
}

// WorksheetTitle is the timestamped tab label, e.g. "Nov 9, 2025 4:25PM".
func WorksheetTitle(now time.Time) string {
	return now.Format("Jan 2, 2006 3:04PM")
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, numWeeks int) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	endCol, err := excelize.ColumnNumberToName(numWeeks + 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A2", endCol+"2", headerStyle)
}
