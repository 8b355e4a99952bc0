package compliance

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/models"
)

// EmployeeReport pairs an employee with their analysis.
type EmployeeReport struct {
	EmployeeID string               `json:"employeeId"`
	Name       string               `json:"name"`
	Contract   models.ContractClass `json:"contractClass"`
	Analysis   Analysis             `json:"analysis"`
}

// Report analyzes every employee. Escalated employees come first, then the
// rest, each part ordered by accumulated days (descending) and name.
func Report(employees []models.Employee, certs []models.LeaveCertificate, now time.Time) []EmployeeReport {
	byEmployee := make(map[string][]models.LeaveCertificate)
	for _, c := range certs {
		byEmployee[c.EmployeeID] = append(byEmployee[c.EmployeeID], c)
	}

	out := make([]EmployeeReport, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeReport{
			EmployeeID: e.ID,
			Name:       e.Name,
			Contract:   e.Contract,
			Analysis:   Analyze(byEmployee[e.ID], e.Contract, now),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Analysis.Escalated() != b.Analysis.Escalated() {
			return a.Analysis.Escalated()
		}
		if a.Analysis.AccumulatedDays != b.Analysis.AccumulatedDays {
			return a.Analysis.AccumulatedDays > b.Analysis.AccumulatedDays
		}
		return a.Name < b.Name
	})
	return out
}
