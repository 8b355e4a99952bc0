package engine

import (
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/compliance"
)

// Analyze runs the compliance accounting for one employee over the
// certificates currently held in the session.
func (e *Engine) Analyze(employeeID string) (compliance.Analysis, error) {
	emp, ok := e.Employee(employeeID)
	if !ok {
		return compliance.Analysis{}, notFound(common.CollectionEmployees, employeeID)
	}
	return compliance.Analyze(e.CertificatesOf(emp.ID), emp.Contract, e.now()), nil
}

// ComplianceReport analyzes every employee.
func (e *Engine) ComplianceReport() []compliance.EmployeeReport {
	e.s.mu.Lock()
	employees := e.s.employees.list()
	certs := e.s.certificates.list()
	e.s.mu.Unlock()

	return compliance.Report(employees, certs, e.now())
}
