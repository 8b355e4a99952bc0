package engine

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/worktracker/internal/client/taxonomy"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

var statusesBinding = binding[models.WorkflowStatus]{
	name: common.CollectionStatuses,
	col:  func(s *Session) *collection[models.WorkflowStatus] { return &s.statuses },
}

func statusLess(a, b models.WorkflowStatus) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.Label < b.Label
}

// AddStatus appends a status after the existing non-terminal ones.
func (e *Engine) AddStatus(label, icon, color string) (models.WorkflowStatus, *Op, error) {
	e.s.mu.Lock()
	draft, err := taxonomy.NewStatus(e.s.statuses.items, label, icon, color)
	if err != nil {
		e.s.mu.Unlock()
		return models.WorkflowStatus{}, nil, err
	}
	f := e.s.capture()
	rec, op := stageCreate(e, statusesBinding, draft)
	e.s.statuses.sortBy(statusLess)
	e.s.mu.Unlock()

	confirmCreate(e, statusesBinding, rec, op, f, createHooks[models.WorkflowStatus]{})
	return rec, op, nil
}

// UpdateStatus edits a status. Protected statuses only take icon and color
// changes. Renaming relabels every work item carrying the old label, and a
// failure on any remote write restores both collections.
func (e *Engine) UpdateStatus(st models.WorkflowStatus) (*Op, error) {
	e.s.mu.Lock()
	st = st.WithID(e.s.canonical(st.ID))
	plan, err := taxonomy.PlanUpdate(e.s.statuses.items, st)
	if err != nil {
		e.s.mu.Unlock()
		return nil, err
	}

	f := e.s.capture()
	e.s.statuses.replace(plan.Next.ID, plan.Next)
	e.s.statuses.sortBy(statusLess)
	var changed []models.WorkItem
	if plan.Relabels() {
		var items []models.WorkItem
		items, changed = taxonomy.Relabel(e.s.demands.items, plan.Previous.Label, plan.Next.Label)
		e.s.demands.restore(items)
	}
	e.s.mu.Unlock()

	op := newOp()
	e.confirm(op, "update", common.CollectionStatuses, plan.Next.ID, f,
		[]string{common.CollectionStatuses, common.CollectionDemands},
		func(ctx context.Context) error {
			if err := replaceRemote(ctx, e, statusesBinding, plan.Next); err != nil {
				return err
			}
			for _, w := range changed {
				err := replaceRemote(ctx, e, demandsBinding, w)
				if errors.Is(err, errDropped) {
					// Its own create failed and was rolled back.
					continue
				}
				if err != nil {
					return err
				}
			}
			return nil
		}, nil)
	return op, nil
}

// DeleteStatus removes a non-protected status. Work items carrying it move
// to the lowest-order surviving status in the same local step; remotely the
// work items are replaced before the status document is deleted. Any remote
// failure restores both collections.
func (e *Engine) DeleteStatus(id string) (*Op, error) {
	e.s.mu.Lock()
	id = e.s.canonical(id)
	plan, err := taxonomy.PlanRemoval(e.s.statuses.items, id)
	if err != nil {
		e.s.mu.Unlock()
		return nil, err
	}

	f := e.s.capture()
	e.s.statuses.remove(id)
	items, changed := taxonomy.Relabel(e.s.demands.items, plan.Target.Label, plan.Fallback.Label)
	e.s.demands.restore(items)
	e.s.mu.Unlock()

	e.logger.Debug(context.Background(), "status deleted locally", "label", plan.Target.Label,
		"fallback", plan.Fallback.Label, "reassigned", len(changed))

	op := newOp()
	e.confirm(op, "delete", common.CollectionStatuses, id, f,
		[]string{common.CollectionStatuses, common.CollectionDemands},
		func(ctx context.Context) error {
			for _, w := range changed {
				err := replaceRemote(ctx, e, demandsBinding, w)
				if errors.Is(err, errDropped) {
					// Its own create failed and was rolled back.
					continue
				}
				if err != nil {
					return err
				}
			}
			return deleteRemote(ctx, e, common.CollectionStatuses, id)
		}, nil)
	return op, nil
}

// Statuses returns the taxonomy in display order.
func (e *Engine) Statuses() []models.WorkflowStatus {
	return list(e, statusesBinding)
}
