package engine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/client/taxonomy"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

var demandsBinding = binding[models.WorkItem]{
	name: common.CollectionDemands,
	col:  func(s *Session) *collection[models.WorkItem] { return &s.demands },
	resolve: func(ctx context.Context, e *Engine, w models.WorkItem) (models.WorkItem, error) {
		if w.Owner() == "" {
			return w, nil
		}
		id, err := e.awaitID(ctx, w.Owner())
		if err != nil {
			return w, fmt.Errorf("owner: %w", err)
		}
		w.OwnerID = &id
		return w, nil
	},
}

// checkDemand validates w against the live statuses and employees and
// canonicalizes its owner reference. Caller holds the lock.
func (e *Engine) checkDemand(w models.WorkItem) (models.WorkItem, error) {
	if err := w.Validate(); err != nil {
		return w, err
	}
	if _, ok := taxonomy.Lookup(e.s.statuses.items, w.Status); !ok {
		return w, fmt.Errorf("%w: %q", common.ErrUnknownStatus, w.Status)
	}
	if w.Owner() != "" {
		owner := e.s.canonical(w.Owner())
		if _, ok := e.s.employees.get(owner); !ok {
			return w, notFound(common.CollectionEmployees, owner)
		}
		w.OwnerID = &owner
	} else {
		w.OwnerID = nil
	}
	return w, nil
}

// CreateDemand adds a work item. An empty status defaults to the first
// status in display order.
func (e *Engine) CreateDemand(draft models.WorkItem) (models.WorkItem, *Op, error) {
	e.s.mu.Lock()
	if draft.Status == "" && len(e.s.statuses.items) > 0 {
		draft.Status = e.s.statuses.items[0].Label
	}
	draft, err := e.checkDemand(draft)
	if err != nil {
		e.s.mu.Unlock()
		return models.WorkItem{}, nil, err
	}
	f := e.s.capture()
	rec, op := stageCreate(e, demandsBinding, draft)
	e.s.mu.Unlock()

	confirmCreate(e, demandsBinding, rec, op, f, createHooks[models.WorkItem]{})
	return rec, op, nil
}

// UpdateDemand replaces a work item. Moving it into the terminal status
// notifies its owner, but only after the store confirms the change: a slow
// or failing store delays or suppresses the notification.
func (e *Engine) UpdateDemand(w models.WorkItem) (*Op, error) {
	var next models.WorkItem
	check := func(w, _ models.WorkItem) (models.WorkItem, error) {
		var err error
		next, err = e.checkDemand(w)
		return next, err
	}
	return update(e, demandsBinding, w, check, func(ctx context.Context, prev models.WorkItem) {
		if prev.Status != models.StatusDone && next.Status == models.StatusDone {
			e.notifyDone(ctx, next)
		}
	})
}

func (e *Engine) DeleteDemand(id string) (*Op, error) {
	return remove(e, demandsBinding, id)
}

// Demands returns the work items, newest first.
func (e *Engine) Demands() []models.WorkItem {
	return list(e, demandsBinding)
}

func (e *Engine) Demand(id string) (models.WorkItem, bool) {
	return get(e, demandsBinding, id)
}

// notifyDone sends one message per delivery token of w's owner. It runs on
// the confirmation goroutine, so Close waits for it; failures are only logged.
func (e *Engine) notifyDone(ctx context.Context, w models.WorkItem) {
	if e.notifier == nil || w.Owner() == "" {
		return
	}

	e.s.mu.Lock()
	owner, ok := e.s.employees.get(e.s.canonical(w.Owner()))
	e.s.mu.Unlock()
	if !ok || len(owner.Tokens) == 0 {
		return
	}

	text := fmt.Sprintf("Demand %q was marked as %s.", w.Title, models.StatusDone)
	for _, token := range owner.Tokens {
		if err := e.notifier.Notify(ctx, token, text); err != nil {
			e.logger.Warn(ctx, "notification failed", "demand", w.ID, "employee", owner.ID, "error", err)
		}
	}
}
