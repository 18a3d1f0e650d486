package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

const activitySheet = "Class Activity"

var workbookHeader = []interface{}{"Student", "Time", "Question", "Answer"}

// BuildWorkbook renders the all-students activity as an xlsx workbook with
// one row per (student, entry).
func BuildWorkbook(activity []domain.StudentActivity) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(activitySheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(activitySheet, "A1", &workbookHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, a := range activity {
		for _, e := range a.Entries {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			values := []interface{}{a.Student, e.Time.UTC(), e.Question, e.Answer}
			if err := f.SetSheetRow(activitySheet, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
