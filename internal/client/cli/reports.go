package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/client/backup"
)

func (a *App) analyze(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "analyze <employee id>"); err != nil {
		return err
	}
	emp, err := pick(a.engine.Employees(), args[0], "employee")
	if err != nil {
		return err
	}
	res, err := a.engine.Analyze(emp.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s): %.1f of %d days, %s\n", emp.Name, emp.Contract, res.AccumulatedDays, res.Limit, res.Status)
	tw := newTable(a.out, "GROUP", "DAYS", "CERTIFICATES")
	for _, g := range res.Groups {
		row(tw, g.Prefix, g.Days, g.Certificates)
	}
	return tw.Flush()
}

func (a *App) report(ctx context.Context, args []string) error {
	rows := a.engine.ComplianceReport()

	tw := newTable(a.out, "EMPLOYEE", "CONTRACT", "DAYS", "LIMIT", "STATUS")
	for _, r := range rows {
		row(tw, r.Name, r.Contract, r.Analysis.AccumulatedDays, r.Analysis.Limit, r.Analysis.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(args) == 0 {
		return nil
	}
	if err := backup.WriteComplianceReport(args[0], rows, a.now()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "report written to %s\n", args[0])
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "export <file.json>"); err != nil {
		return err
	}
	if err := backup.WriteFile(args[0], backup.Export(a.engine)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "backup written to %s\n", args[0])
	return nil
}

func (a *App) importBackup(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "import <file.json>"); err != nil {
		return err
	}
	data, err := backup.ReadFile(args[0])
	if err != nil {
		return err
	}

	res := backup.Import(a.engine, data, a.logger)
	for _, r := range res.Rejected {
		fmt.Fprintf(a.out, "skipped %v\n", r)
	}
	total := 0
	for _, n := range res.Created {
		total += n
	}
	fmt.Fprintf(a.out, "imported %d record(s), %d existing status(es) kept\n", total, res.Skipped)
	return nil
}
