package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/models"
)

func (a *App) listStatuses(ctx context.Context, args []string) error {
	tw := newTable(a.out, "ID", "", "ORDER", "LABEL", "ICON", "COLOR", "")
	for _, s := range a.engine.Statuses() {
		lock := ""
		if s.Protected() {
			lock = "built-in"
		}
		row(tw, s.ID, a.marker(s.ID), s.Order, s.Label, orDash(s.Icon), orDash(s.Color), lock)
	}
	return tw.Flush()
}

func (a *App) promptStatus(cur models.WorkflowStatus) (models.WorkflowStatus, error) {
	var err error
	if !cur.Protected() {
		if cur.Label, err = GetWithDefault(a.reader, "Label", cur.Label, a.out); err != nil {
			return cur, err
		}
	}
	if cur.Icon, err = GetWithDefault(a.reader, "Icon", cur.Icon, a.out); err != nil {
		return cur, err
	}
	if cur.Color, err = GetWithDefault(a.reader, "Color", cur.Color, a.out); err != nil {
		return cur, err
	}
	return cur, nil
}

func (a *App) addStatus(ctx context.Context, args []string) error {
	draft, err := a.promptStatus(models.WorkflowStatus{})
	if err != nil {
		return err
	}
	rec, _, err := a.engine.AddStatus(draft.Label, draft.Icon, draft.Color)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s at position %d\n", rec.Label, rec.Order)
	return nil
}

func (a *App) editStatus(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "editstatus <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Statuses(), args[0], "status")
	if err != nil {
		return err
	}
	next, err := a.promptStatus(cur)
	if err != nil {
		return err
	}
	_, err = a.engine.UpdateStatus(next)
	return err
}

func (a *App) deleteStatus(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "delstatus <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Statuses(), args[0], "status")
	if err != nil {
		return err
	}
	if _, err := a.engine.DeleteStatus(cur.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", cur.Label)
	return nil
}
