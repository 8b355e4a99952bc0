package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

var vacationsBinding = binding[models.LeavePeriod]{
	name: common.CollectionVacations,
	col:  func(s *Session) *collection[models.LeavePeriod] { return &s.vacations },
	resolve: func(ctx context.Context, e *Engine, v models.LeavePeriod) (models.LeavePeriod, error) {
		if v.EmployeeID == "" {
			return v, nil
		}
		id, err := e.awaitID(ctx, v.EmployeeID)
		if err != nil {
			return v, fmt.Errorf("employee: %w", err)
		}
		v.EmployeeID = id
		return v, nil
	},
}

// checkVacation validates v and fills the denormalized employee name.
// Caller holds the lock.
func (e *Engine) checkVacation(v models.LeavePeriod) (models.LeavePeriod, error) {
	if err := v.Validate(); err != nil {
		return v, err
	}
	if v.EmployeeID == "" {
		if strings.TrimSpace(v.EmployeeName) == "" {
			return v, fmt.Errorf("%w: employee is required", common.ErrValidation)
		}
		return v, nil
	}
	v.EmployeeID = e.s.canonical(v.EmployeeID)
	emp, ok := e.s.employees.get(v.EmployeeID)
	if !ok {
		return v, notFound(common.CollectionEmployees, v.EmployeeID)
	}
	v.EmployeeName = emp.Name
	return v, nil
}

func (e *Engine) CreateVacation(draft models.LeavePeriod) (models.LeavePeriod, *Op, error) {
	e.s.mu.Lock()
	draft, err := e.checkVacation(draft)
	if err != nil {
		e.s.mu.Unlock()
		return models.LeavePeriod{}, nil, err
	}
	f := e.s.capture()
	rec, op := stageCreate(e, vacationsBinding, draft)
	e.s.mu.Unlock()

	confirmCreate(e, vacationsBinding, rec, op, f, createHooks[models.LeavePeriod]{})
	return rec, op, nil
}

func (e *Engine) UpdateVacation(v models.LeavePeriod) (*Op, error) {
	check := func(next, _ models.LeavePeriod) (models.LeavePeriod, error) {
		return e.checkVacation(next)
	}
	return update(e, vacationsBinding, v, check, nil)
}

func (e *Engine) DeleteVacation(id string) (*Op, error) {
	return remove(e, vacationsBinding, id)
}

func (e *Engine) Vacations() []models.LeavePeriod {
	return list(e, vacationsBinding)
}

func (e *Engine) Vacation(id string) (models.LeavePeriod, bool) {
	return get(e, vacationsBinding, id)
}
