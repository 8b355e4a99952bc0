package backup

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/compliance"
	"github.com/dmitrijs2005/worktracker/internal/filex"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Compliance"
	GroupsSheet  = "Groups"
)

var summaryHeader = []any{"Employee", "Contract", "Accumulated days", "Limit", "Status", "Groups"}
var groupsHeader = []any{"Employee", "Diagnosis group", "Days", "Certificates"}

// ComplianceWorkbook renders a compliance report as an xlsx document.
func ComplianceWorkbook(rows []compliance.EmployeeReport, at time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(GroupsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, GroupsSheet, 1, groupsHeader); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "F1", bold)
	_ = f.SetCellStyle(GroupsSheet, "A1", "D1", bold)

	groupRow := 2
	for i, r := range rows {
		prefixes := make([]string, 0, len(r.Analysis.Groups))
		for _, g := range r.Analysis.Groups {
			prefixes = append(prefixes, fmt.Sprintf("%s (%g)", g.Prefix, g.Days))
			if err := writeRow(f, GroupsSheet, groupRow, []any{r.Name, g.Prefix, g.Days, g.Certificates}); err != nil {
				return nil, err
			}
			groupRow++
		}
		row := []any{r.Name, string(r.Contract), r.Analysis.AccumulatedDays, r.Analysis.Limit,
			string(r.Analysis.Status), strings.Join(prefixes, ", ")}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	footer := len(rows) + 3
	if err := writeRow(f, SummarySheet, footer, []any{"Generated", at.Format(time.RFC3339)}); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 30)
	_ = f.SetColWidth(SummarySheet, "F", "F", 40)
	_ = f.SetColWidth(GroupsSheet, "A", "A", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// WriteComplianceReport renders rows and stores them at path.
func WriteComplianceReport(path string, rows []compliance.EmployeeReport, at time.Time) error {
	data, err := ComplianceWorkbook(rows, at)
	if err != nil {
		return err
	}
	return filex.WriteAtomic(path, data)
}
