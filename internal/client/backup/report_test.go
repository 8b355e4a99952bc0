package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/compliance"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestComplianceWorkbook(t *testing.T) {
	rows := []compliance.EmployeeReport{
		{
			EmployeeID: "e1", Name: "Ana", Contract: models.ContractPermanent,
			Analysis: compliance.Analysis{
				AccumulatedDays: 11, Status: compliance.VerdictInternalCommittee, Limit: 10,
				Groups: []compliance.Group{{Prefix: "J06", Days: 11, Certificates: 4}},
			},
		},
		{
			EmployeeID: "e2", Name: "Rui", Contract: models.ContractOutsourced,
			Analysis: compliance.Analysis{Status: compliance.VerdictNormal, Limit: 15},
		},
	}
	at := time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)

	data, err := ComplianceWorkbook(rows, at)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, GroupsSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 3)
	assert.Equal(t, "Employee", summary[0][0])
	assert.Equal(t, []string{"Ana", "permanent", "11", "10", "refer-to-internal-committee", "J06 (11)"}, summary[1])
	assert.Equal(t, "Rui", summary[2][0])
	assert.Equal(t, "Generated", summary[len(summary)-1][0])

	groups, err := f.GetRows(GroupsSheet)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Ana", "J06", "11", "4"}, groups[1])
}

func TestWriteComplianceReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, WriteComplianceReport(path, nil, time.Now()))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}
