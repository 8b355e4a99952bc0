package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/remote"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/stretchr/testify/require"
)

// faults injects failures and pauses into a MemoryStore.
type faults struct {
	mu    sync.Mutex
	fail  map[string]error
	gates map[string]chan struct{}
}

func key(op, collection string) string { return op + "/" + collection }

func (f *faults) hook(ctx context.Context, c remote.Call) error {
	f.mu.Lock()
	err := f.fail[key(c.Op, c.Collection)]
	gate := f.gates[key(c.Op, c.Collection)]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *faults) failOn(op, collection string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	f.fail[key(op, collection)] = err
}

// block holds every matching call until the returned release is called.
func (f *faults) block(op, collection string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	f.gates[key(op, collection)] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.gates, key(op, collection))
			f.mu.Unlock()
			close(ch)
		})
	}
}

type reports struct {
	mu   sync.Mutex
	errs []error
}

func (r *reports) add(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reports) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

type fixture struct {
	store   *remote.MemoryStore
	faults  *faults
	reports *reports
	eng     *Engine
}

var fixedNow = time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	fx := &fixture{store: remote.NewMemoryStore(), faults: &faults{}, reports: &reports{}}
	fx.store.Hook = fx.faults.hook

	opts = append([]Option{WithReporter(fx.reports.add), WithClock(func() time.Time { return fixedNow })}, opts...)
	fx.eng = New(fx.store, opts...)
	require.NoError(t, fx.eng.Load(context.Background()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = fx.eng.Close(ctx)
	})
	return fx
}

func wait(t *testing.T, op *Op) error {
	t.Helper()
	require.NotNil(t, op)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-op.Done():
		return op.Err()
	case <-ctx.Done():
		t.Fatalf("operation did not complete")
		return nil
	}
}

func mustOK(t *testing.T, op *Op) {
	t.Helper()
	require.NoError(t, wait(t, op))
}

func (fx *fixture) employee(t *testing.T, name string, class models.ContractClass, tokens ...string) models.Employee {
	t.Helper()
	_, op, err := fx.eng.CreateEmployee(models.Employee{Name: name, Contract: class, Tokens: tokens})
	require.NoError(t, err)
	mustOK(t, op)
	emp, ok := fx.eng.Employee(op.ID())
	require.True(t, ok)
	return emp
}

func (fx *fixture) certificate(t *testing.T, employeeID string, daysAgo int, days float64, code string) models.LeaveCertificate {
	t.Helper()
	_, op, err := fx.eng.CreateCertificate(models.LeaveCertificate{
		EmployeeID:    employeeID,
		Date:          models.DateOf(fixedNow.AddDate(0, 0, -daysAgo)),
		Days:          days,
		DiagnosisCode: code,
	}, nil)
	require.NoError(t, err)
	mustOK(t, op)
	c, ok := findByID(fx.eng.Certificates(), op.ID())
	require.True(t, ok)
	return c
}

func (fx *fixture) demand(t *testing.T, title, status string) models.WorkItem {
	t.Helper()
	_, op, err := fx.eng.CreateDemand(models.WorkItem{Title: title, Priority: models.PriorityMedium, Status: status})
	require.NoError(t, err)
	mustOK(t, op)
	w, ok := fx.eng.Demand(op.ID())
	require.True(t, ok)
	return w
}

func findByID[T Record[T]](items []T, id string) (T, bool) {
	for _, v := range items {
		if v.GetID() == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}
