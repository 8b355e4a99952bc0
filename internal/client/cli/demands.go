package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/models"
)

func (a *App) listDemands(ctx context.Context, args []string) error {
	tw := newTable(a.out, "ID", "", "TITLE", "PRIORITY", "DUE", "STATUS", "OWNER")
	for _, w := range a.engine.Demands() {
		row(tw, w.ID, a.marker(w.ID), w.Title, w.Priority, orDash(w.DueDate.String()), w.Status, a.employeeName(w.Owner()))
	}
	return tw.Flush()
}

// promptDemand asks for every editable field, offering cur as the default.
func (a *App) promptDemand(cur models.WorkItem) (models.WorkItem, error) {
	var err error
	if cur.Title, err = GetWithDefault(a.reader, "Title", cur.Title, a.out); err != nil {
		return cur, err
	}
	if cur.Description, err = GetWithDefault(a.reader, "Description", cur.Description, a.out); err != nil {
		return cur, err
	}

	prio := string(cur.Priority)
	if prio == "" {
		prio = string(models.PriorityMedium)
	}
	if prio, err = GetWithDefault(a.reader, "Priority (high, medium, low)", prio, a.out); err != nil {
		return cur, err
	}
	if cur.Priority, err = models.ParsePriority(prio); err != nil {
		return cur, err
	}

	if cur.DueDate, err = GetDate(a.reader, "Due date", cur.DueDate, true, a.out); err != nil {
		return cur, err
	}
	if cur.Status, err = GetWithDefault(a.reader, "Status", cur.Status, a.out); err != nil {
		return cur, err
	}

	owner, err := GetWithDefault(a.reader, "Owner employee id ('-' for none)", cur.Owner(), a.out)
	if err != nil {
		return cur, err
	}
	switch owner {
	case "", "-":
		cur.OwnerID = nil
	default:
		emp, err := pick(a.engine.Employees(), owner, "employee")
		if err != nil {
			return cur, err
		}
		cur.OwnerID = &emp.ID
	}
	return cur, nil
}

func (a *App) addDemand(ctx context.Context, args []string) error {
	draft, err := a.promptDemand(models.WorkItem{})
	if err != nil {
		return err
	}
	rec, _, err := a.engine.CreateDemand(draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s (%s)\n", rec.ID, rec.Status)
	return nil
}

func (a *App) editDemand(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "editdemand <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Demands(), args[0], "demand")
	if err != nil {
		return err
	}
	next, err := a.promptDemand(cur)
	if err != nil {
		return err
	}
	_, err = a.engine.UpdateDemand(next)
	return err
}

func (a *App) moveDemand(ctx context.Context, args []string) error {
	if err := needArgs(args, 2, "move <id> <status>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Demands(), args[0], "demand")
	if err != nil {
		return err
	}
	cur.Status = strings.Join(args[1:], " ")
	if _, err := a.engine.UpdateDemand(cur); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s -> %s\n", cur.Title, cur.Status)
	return nil
}

func (a *App) deleteDemand(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "deldemand <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Demands(), args[0], "demand")
	if err != nil {
		return err
	}
	_, err = a.engine.DeleteDemand(cur.ID)
	return err
}
