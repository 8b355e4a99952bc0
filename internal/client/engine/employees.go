package engine

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

var employeesBinding = binding[models.Employee]{
	name: common.CollectionEmployees,
	col:  func(s *Session) *collection[models.Employee] { return &s.employees },
}

func (e *Engine) CreateEmployee(draft models.Employee) (models.Employee, *Op, error) {
	if err := draft.Validate(); err != nil {
		return models.Employee{}, nil, err
	}

	e.s.mu.Lock()
	f := e.s.capture()
	rec, op := stageCreate(e, employeesBinding, draft)
	e.s.mu.Unlock()

	confirmCreate(e, employeesBinding, rec, op, f, createHooks[models.Employee]{})
	return rec, op, nil
}

func (e *Engine) UpdateEmployee(emp models.Employee) (*Op, error) {
	if err := emp.Validate(); err != nil {
		return nil, err
	}
	return update(e, employeesBinding, emp, nil, nil)
}

// DeleteEmployee removes the employee and all of its certificates in one
// local step. Remotely the employee goes first; a failure there restores
// both collections. Certificates are then deleted one by one, and failures
// among them are reported as a CascadeError without undoing anything.
func (e *Engine) DeleteEmployee(id string) (*Op, error) {
	e.s.mu.Lock()
	id = e.s.canonical(id)
	f := e.s.capture()
	if _, ok := e.s.employees.remove(id); !ok {
		e.s.mu.Unlock()
		return nil, notFound(common.CollectionEmployees, id)
	}
	cascaded := e.s.certificates.removeWhere(func(c models.LeaveCertificate) bool {
		return e.s.canonical(c.EmployeeID) == id
	})
	e.s.mu.Unlock()

	e.logger.Debug(context.Background(), "employee deleted locally", "id", id, "certificates", len(cascaded))

	touched := []string{common.CollectionEmployees, common.CollectionCertificates}
	op := newOp()
	e.launch(func(ctx context.Context) {
		if err := deleteRemote(ctx, e, common.CollectionEmployees, id); err != nil {
			e.s.mu.Lock()
			e.s.restore(f, touched...)
			e.s.mu.Unlock()

			serr := &SyncError{Collection: common.CollectionEmployees, Op: "delete", ID: id, Err: err}
			e.logger.Warn(ctx, "remote write failed, rolled back", "op", "delete", "collection", common.CollectionEmployees, "id", id, "error", err)
			op.finish(id, serr)
			e.report(serr)
			return
		}

		var failed []string
		var errs []error
		for _, c := range cascaded {
			if err := deleteRemote(ctx, e, common.CollectionCertificates, c.ID); err != nil {
				failed = append(failed, c.ID)
				errs = append(errs, err)
			}
		}
		if len(failed) == 0 {
			op.finish(id, nil)
			return
		}

		cerr := &CascadeError{EmployeeID: id, Failed: failed, Err: errors.Join(errs...)}
		e.logger.Warn(ctx, "certificate cascade incomplete", "employee", id, "failed", failed)
		op.finish(id, cerr)
		e.report(cerr)
	})
	return op, nil
}

func (e *Engine) Employees() []models.Employee {
	return list(e, employeesBinding)
}

func (e *Engine) Employee(id string) (models.Employee, bool) {
	return get(e, employeesBinding, id)
}
