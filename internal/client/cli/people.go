package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/models"
)

func (a *App) listEmployees(ctx context.Context, args []string) error {
	tw := newTable(a.out, "ID", "", "NAME", "CONTRACT", "TOKENS")
	for _, e := range a.engine.Employees() {
		row(tw, e.ID, a.marker(e.ID), e.Name, e.Contract, len(e.Tokens))
	}
	return tw.Flush()
}

func (a *App) promptEmployee(cur models.Employee) (models.Employee, error) {
	var err error
	if cur.Name, err = GetWithDefault(a.reader, "Name", cur.Name, a.out); err != nil {
		return cur, err
	}

	class := string(cur.Contract)
	if class == "" {
		class = string(models.ContractPermanent)
	}
	if class, err = GetWithDefault(a.reader, "Contract (permanent, fixed-term, outsourced)", class, a.out); err != nil {
		return cur, err
	}
	if cur.Contract, err = models.ParseContractClass(class); err != nil {
		return cur, err
	}

	tokens, err := GetWithDefault(a.reader, "Notification chat ids, comma separated ('-' for none)", strings.Join(cur.Tokens, ","), a.out)
	if err != nil {
		return cur, err
	}
	if tokens == "-" {
		cur.Tokens = nil
	} else {
		cur.Tokens = splitList(tokens)
	}
	return cur, nil
}

func (a *App) addEmployee(ctx context.Context, args []string) error {
	draft, err := a.promptEmployee(models.Employee{})
	if err != nil {
		return err
	}
	rec, _, err := a.engine.CreateEmployee(draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s\n", rec.ID)
	return nil
}

func (a *App) editEmployee(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "editemployee <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Employees(), args[0], "employee")
	if err != nil {
		return err
	}
	next, err := a.promptEmployee(cur)
	if err != nil {
		return err
	}
	_, err = a.engine.UpdateEmployee(next)
	return err
}

func (a *App) deleteEmployee(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "delemployee <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Employees(), args[0], "employee")
	if err != nil {
		return err
	}
	certs := len(a.engine.CertificatesOf(cur.ID))
	if _, err := a.engine.DeleteEmployee(cur.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s and %d certificate(s)\n", cur.Name, certs)
	return nil
}

func (a *App) listVacations(ctx context.Context, args []string) error {
	tw := newTable(a.out, "ID", "", "EMPLOYEE", "START", "END", "DAYS")
	for _, v := range a.engine.Vacations() {
		row(tw, v.ID, a.marker(v.ID), v.EmployeeName, v.StartDate, v.EndDate, v.Days())
	}
	return tw.Flush()
}

func (a *App) promptVacation(cur models.LeavePeriod) (models.LeavePeriod, error) {
	emp, err := GetWithDefault(a.reader, "Employee id", cur.EmployeeID, a.out)
	if err != nil {
		return cur, err
	}
	e, err := pick(a.engine.Employees(), emp, "employee")
	if err != nil {
		return cur, err
	}
	cur.EmployeeID = e.ID

	if cur.StartDate, err = GetDate(a.reader, "Start", cur.StartDate, false, a.out); err != nil {
		return cur, err
	}
	if cur.EndDate, err = GetDate(a.reader, "End", cur.EndDate, false, a.out); err != nil {
		return cur, err
	}
	return cur, nil
}

func (a *App) addVacation(ctx context.Context, args []string) error {
	draft, err := a.promptVacation(models.LeavePeriod{})
	if err != nil {
		return err
	}
	rec, _, err := a.engine.CreateVacation(draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s (%d days)\n", rec.ID, rec.Days())
	return nil
}

func (a *App) editVacation(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "editvacation <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Vacations(), args[0], "vacation")
	if err != nil {
		return err
	}
	next, err := a.promptVacation(cur)
	if err != nil {
		return err
	}
	_, err = a.engine.UpdateVacation(next)
	return err
}

func (a *App) deleteVacation(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "delvacation <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Vacations(), args[0], "vacation")
	if err != nil {
		return err
	}
	_, err = a.engine.DeleteVacation(cur.ID)
	return err
}
