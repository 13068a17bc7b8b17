package attendance

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

// ExportPeriod implements attendance.AttendanceService. The workbook has one
// row per day followed by a count per status.
func (s *AttendanceServiceImpl) ExportPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]byte, error) {
	summary, days, err := s.Summary(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheet, "A", "A", 14)
	f.SetColWidth(exportSheet, "B", "B", 16)
	f.SetColWidth(exportSheet, "C", "C", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Attendance %s, %s to %s",
		employeeID, summary.Start.Format(time.DateOnly), summary.End.Format(time.DateOnly)))
	f.MergeCell(exportSheet, "A1", "C1")

	row := 2
	f.SetCellValue(exportSheet, cell("A", row), "Date")
	f.SetCellValue(exportSheet, cell("B", row), "Status")
	f.SetCellValue(exportSheet, cell("C", row), "Worked (h)")
	f.SetCellStyle(exportSheet, cell("A", row), cell("C", row), headerStyle)

	for _, d := range days {
		row++
		f.SetCellValue(exportSheet, cell("A", row), d.Date.Format(time.DateOnly))
		f.SetCellValue(exportSheet, cell("B", row), string(d.Status))
		f.SetCellValue(exportSheet, cell("C", row), hours(d.Worked))
	}

	row += 2
	f.SetCellValue(exportSheet, cell("A", row), "Status")
	f.SetCellValue(exportSheet, cell("B", row), "Days")
	f.SetCellStyle(exportSheet, cell("A", row), cell("B", row), headerStyle)
	for _, status := range attendance.Statuses {
		row++
		f.SetCellValue(exportSheet, cell("A", row), string(status))
		f.SetCellValue(exportSheet, cell("B", row), summary.Counts[status])
	}
	row++
	f.SetCellValue(exportSheet, cell("A", row), "Worked (h)")
	f.SetCellValue(exportSheet, cell("B", row), hours(summary.Worked))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func hours(d time.Duration) float64 {
	return float64(d.Round(time.Minute)/time.Minute) / 60
}
