package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/remote"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/compliance"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certsOf(items []models.LeaveCertificate, employeeID string) int {
	n := 0
	for _, c := range items {
		if c.EmployeeID == employeeID {
			n++
		}
	}
	return n
}

func TestDeleteEmployee_CascadesCertificates(t *testing.T) {
	fx := newFixture(t)
	ana := fx.employee(t, "Ana", models.ContractPermanent)
	bia := fx.employee(t, "Bia", models.ContractPermanent)
	for i := 0; i < 3; i++ {
		fx.certificate(t, ana.ID, i, 1, "J06")
	}
	fx.certificate(t, bia.ID, 1, 1, "J06")

	op, err := fx.eng.DeleteEmployee(ana.ID)
	require.NoError(t, err)
	assert.Zero(t, certsOf(fx.eng.Certificates(), ana.ID), "cascade is applied locally at once")
	_, present := fx.eng.Employee(ana.ID)
	assert.False(t, present)

	mustOK(t, op)
	assert.Equal(t, 1, fx.store.Len(common.CollectionCertificates))
	assert.Equal(t, 1, fx.store.Len(common.CollectionEmployees))
	assert.Equal(t, 1, certsOf(fx.eng.Certificates(), bia.ID))
}

func TestDeleteEmployee_CascadeFailureIsReportedNotRolledBack(t *testing.T) {
	fx := newFixture(t)
	ana := fx.employee(t, "Ana", models.ContractPermanent)
	fx.certificate(t, ana.ID, 1, 1, "J06")
	fx.certificate(t, ana.ID, 2, 1, "J06")

	fx.faults.failOn(remote.OpDelete, common.CollectionCertificates, errOffline)
	op, err := fx.eng.DeleteEmployee(ana.ID)
	require.NoError(t, err)

	err = wait(t, op)
	require.ErrorIs(t, err, common.ErrCascadeFailed)
	require.False(t, errors.Is(err, common.ErrSyncFailed))
	var cerr *CascadeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ana.ID, cerr.EmployeeID)
	assert.Len(t, cerr.Failed, 2)

	assert.Empty(t, fx.eng.Employees(), "parent deletion stands")
	assert.Zero(t, certsOf(fx.eng.Certificates(), ana.ID))
	assert.Equal(t, 0, fx.store.Len(common.CollectionEmployees))
	require.Len(t, fx.reports.all(), 1)
}

func TestDeleteEmployee_RemoteFailureRestoresBoth(t *testing.T) {
	fx := newFixture(t)
	ana := fx.employee(t, "Ana", models.ContractPermanent)
	fx.certificate(t, ana.ID, 1, 1, "J06")
	beforeEmp := fx.eng.Employees()
	beforeCert := fx.eng.Certificates()

	fx.faults.failOn(remote.OpDelete, common.CollectionEmployees, errOffline)
	op, err := fx.eng.DeleteEmployee(ana.ID)
	require.NoError(t, err)
	require.ErrorIs(t, wait(t, op), common.ErrSyncFailed)

	if diff := cmp.Diff(beforeEmp, fx.eng.Employees()); diff != "" {
		t.Fatalf("employees (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeCert, fx.eng.Certificates()); diff != "" {
		t.Fatalf("certificates (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, fx.store.Len(common.CollectionCertificates))
}

func TestDeleteEmployee_Unknown(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.eng.DeleteEmployee("ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAddStatus(t *testing.T) {
	fx := newFixture(t)

	st, op, err := fx.eng.AddStatus("In Review", "Eye", "bg-purple-500")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Order)
	mustOK(t, op)

	labels := func() []string {
		var out []string
		for _, s := range fx.eng.Statuses() {
			out = append(out, s.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Open", "AwaitingResponse", "In Review", "Done"}, labels())

	_, _, err = fx.eng.AddStatus("in review", "", "")
	require.ErrorIs(t, err, common.ErrDuplicateStatus)
	assert.Len(t, fx.eng.Statuses(), 4)
}

func TestAddStatus_RollbackOnFailure(t *testing.T) {
	fx := newFixture(t)
	before := fx.eng.Statuses()
	fx.faults.failOn(remote.OpCreate, common.CollectionStatuses, errOffline)

	_, op, err := fx.eng.AddStatus("Blocked", "Ban", "bg-red-500")
	require.NoError(t, err)
	require.ErrorIs(t, wait(t, op), common.ErrSyncFailed)
	if diff := cmp.Diff(before, fx.eng.Statuses()); diff != "" {
		t.Fatalf("statuses (-want +got):\n%s", diff)
	}
}

func addStatus(t *testing.T, fx *fixture, label string) models.WorkflowStatus {
	t.Helper()
	_, op, err := fx.eng.AddStatus(label, "Circle", "bg-gray-500")
	require.NoError(t, err)
	mustOK(t, op)
	for _, s := range fx.eng.Statuses() {
		if s.Label == label {
			return s
		}
	}
	t.Fatalf("status %s not found", label)
	return models.WorkflowStatus{}
}

func TestDeleteStatus_ReassignsWorkItems(t *testing.T) {
	fx := newFixture(t)
	review := addStatus(t, fx, "In Review")
	fx.demand(t, "a", "In Review")
	fx.demand(t, "b", "In Review")
	fx.demand(t, "c", models.StatusAwaitingResponse)

	op, err := fx.eng.DeleteStatus(review.ID)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, w := range fx.eng.Demands() {
		counts[w.Status]++
	}
	assert.Equal(t, map[string]int{models.StatusOpen: 2, models.StatusAwaitingResponse: 1}, counts)

	mustOK(t, op)
	assert.Equal(t, 3, fx.store.Len(common.CollectionStatuses))

	fresh := New(fx.store)
	require.NoError(t, fresh.Load(context.Background()))
	for _, w := range fresh.Demands() {
		assert.NotEqual(t, "In Review", w.Status)
	}
}

func TestDeleteStatus_RemoteFailureRestoresBoth(t *testing.T) {
	fx := newFixture(t)
	review := addStatus(t, fx, "In Review")
	fx.demand(t, "a", "In Review")
	beforeStatuses := fx.eng.Statuses()
	beforeDemands := fx.eng.Demands()

	fx.faults.failOn(remote.OpDelete, common.CollectionStatuses, errOffline)
	op, err := fx.eng.DeleteStatus(review.ID)
	require.NoError(t, err)
	require.ErrorIs(t, wait(t, op), common.ErrSyncFailed)

	if diff := cmp.Diff(beforeStatuses, fx.eng.Statuses()); diff != "" {
		t.Fatalf("statuses (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeDemands, fx.eng.Demands()); diff != "" {
		t.Fatalf("demands (-want +got):\n%s", diff)
	}
}

func TestDeleteStatus_ProtectedIsRejected(t *testing.T) {
	fx := newFixture(t)
	fx.demand(t, "a", models.StatusDone)
	beforeStatuses := fx.eng.Statuses()
	beforeDemands := fx.eng.Demands()

	for _, s := range beforeStatuses {
		op, err := fx.eng.DeleteStatus(s.ID)
		require.ErrorIs(t, err, common.ErrProtectedStatus, s.Label)
		assert.Nil(t, op)
	}
	assert.Equal(t, beforeStatuses, fx.eng.Statuses())
	assert.Equal(t, beforeDemands, fx.eng.Demands())
}

func labels(items []models.WorkflowStatus) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.Label)
	}
	return out
}

func TestDeleteStatus_SkipsWorkItemWhoseCreateFails(t *testing.T) {
	fx := newFixture(t)
	review := addStatus(t, fx, "In Review")

	release := fx.faults.block(remote.OpCreate, common.CollectionDemands)
	fx.faults.failOn(remote.OpCreate, common.CollectionDemands, errOffline)
	_, createOp, err := fx.eng.CreateDemand(models.WorkItem{Title: "a", Priority: models.PriorityLow, Status: "In Review"})
	require.NoError(t, err)

	op, err := fx.eng.DeleteStatus(review.ID)
	require.NoError(t, err)

	release()
	require.ErrorIs(t, wait(t, createOp), common.ErrSyncFailed)
	mustOK(t, op)

	want := []string{models.StatusOpen, models.StatusAwaitingResponse, models.StatusDone}
	assert.Equal(t, want, labels(fx.eng.Statuses()))
	assert.Empty(t, fx.eng.Demands())
	assert.Len(t, fx.reports.all(), 1, "only the create failure is reported")

	fresh := New(fx.store)
	require.NoError(t, fresh.Load(context.Background()))
	assert.Equal(t, want, labels(fresh.Statuses()))
}

func TestUpdateStatus_SkipsWorkItemWhoseCreateFails(t *testing.T) {
	fx := newFixture(t)
	review := addStatus(t, fx, "In Review")

	release := fx.faults.block(remote.OpCreate, common.CollectionDemands)
	fx.faults.failOn(remote.OpCreate, common.CollectionDemands, errOffline)
	_, createOp, err := fx.eng.CreateDemand(models.WorkItem{Title: "a", Priority: models.PriorityLow, Status: "In Review"})
	require.NoError(t, err)

	review.Label = "Under Review"
	op, err := fx.eng.UpdateStatus(review)
	require.NoError(t, err)

	release()
	require.ErrorIs(t, wait(t, createOp), common.ErrSyncFailed)
	mustOK(t, op)

	fresh := New(fx.store)
	require.NoError(t, fresh.Load(context.Background()))
	assert.Equal(t, labels(fx.eng.Statuses()), labels(fresh.Statuses()))
	assert.Contains(t, labels(fresh.Statuses()), "Under Review")
}

func TestUpdateStatus(t *testing.T) {
	fx := newFixture(t)
	review := addStatus(t, fx, "In Review")
	w := fx.demand(t, "a", "In Review")

	review.Label = "Under Review"
	op, err := fx.eng.UpdateStatus(review)
	require.NoError(t, err)
	got, _ := fx.eng.Demand(w.ID)
	assert.Equal(t, "Under Review", got.Status)
	mustOK(t, op)

	var open models.WorkflowStatus
	for _, s := range fx.eng.Statuses() {
		if s.Label == models.StatusOpen {
			open = s
		}
	}
	open.Label = "Inbox"
	_, err = fx.eng.UpdateStatus(open)
	require.ErrorIs(t, err, common.ErrProtectedStatus)

	open.Label = models.StatusOpen
	open.Color = "bg-sky-500"
	op, err = fx.eng.UpdateStatus(open)
	require.NoError(t, err)
	mustOK(t, op)
}

func TestDemandValidation(t *testing.T) {
	fx := newFixture(t)

	_, _, err := fx.eng.CreateDemand(models.WorkItem{Title: "x", Priority: models.PriorityLow, Status: "Nope"})
	require.ErrorIs(t, err, common.ErrUnknownStatus)

	ghost := "ghost"
	_, _, err = fx.eng.CreateDemand(models.WorkItem{Title: "x", Priority: models.PriorityLow, OwnerID: &ghost})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, _, err = fx.eng.CreateVacation(models.LeavePeriod{
		EmployeeName: "Ana", StartDate: models.NewDate(2025, 2, 2), EndDate: models.NewDate(2025, 2, 1),
	})
	require.ErrorIs(t, err, common.ErrInvalidPeriod)

	_, _, err = fx.eng.CreateCertificate(models.LeaveCertificate{EmployeeID: "ghost", Date: models.DateOf(fixedNow), Days: 1}, nil)
	require.ErrorIs(t, err, common.ErrorNotFound)

	assert.Empty(t, fx.eng.Demands())
	assert.Empty(t, fx.eng.Vacations())
	assert.Empty(t, fx.eng.Certificates())
}

type fakeUploader struct {
	url string
	err error

	mu         sync.Mutex
	employeeID string
}

func (f *fakeUploader) Upload(ctx context.Context, employeeID string, a models.Attachment) (string, error) {
	f.mu.Lock()
	f.employeeID = employeeID
	f.mu.Unlock()
	return f.url, f.err
}

func TestCreateCertificate_UploadsAttachment(t *testing.T) {
	up := &fakeUploader{url: "https://files.example/cert.pdf"}
	fx := newFixture(t, WithUploader(up))
	ana := fx.employee(t, "Ana", models.ContractPermanent)

	rec, op, err := fx.eng.CreateCertificate(models.LeaveCertificate{
		EmployeeID: ana.ID, Date: models.DateOf(fixedNow), Days: 1,
	}, &models.Attachment{Name: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Empty(t, rec.AttachmentURL, "upload happens after the local insert")

	mustOK(t, op)
	got := fx.eng.Certificates()
	require.Len(t, got, 1)
	assert.Equal(t, up.url, got[0].AttachmentURL)
	assert.Equal(t, ana.ID, up.employeeID)
}

func TestCreateCertificate_UploadFailureRollsBack(t *testing.T) {
	up := &fakeUploader{err: errors.New("s3 down")}
	fx := newFixture(t, WithUploader(up))
	ana := fx.employee(t, "Ana", models.ContractPermanent)

	_, op, err := fx.eng.CreateCertificate(models.LeaveCertificate{
		EmployeeID: ana.ID, Date: models.DateOf(fixedNow), Days: 1,
	}, &models.Attachment{Data: []byte("x")})
	require.NoError(t, err)
	require.ErrorIs(t, wait(t, op), common.ErrSyncFailed)
	assert.Empty(t, fx.eng.Certificates())
	assert.Equal(t, 0, fx.store.Len(common.CollectionCertificates))
}

func TestCreateCertificate_AttachmentWithoutUploader(t *testing.T) {
	fx := newFixture(t)
	ana := fx.employee(t, "Ana", models.ContractPermanent)
	_, _, err := fx.eng.CreateCertificate(models.LeaveCertificate{
		EmployeeID: ana.ID, Date: models.DateOf(fixedNow), Days: 1,
	}, &models.Attachment{Data: []byte("x")})
	require.ErrorIs(t, err, common.ErrValidation)
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  map[string]string
	err   error
	calls int
}

func (f *fakeNotifier) Notify(ctx context.Context, token, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.calls++
	f.sent[token] = text
	return f.err
}

func TestUpdateDemand_NotifiesOwnerOnDone(t *testing.T) {
	n := &fakeNotifier{}
	fx := newFixture(t, WithNotifier(n))
	ana := fx.employee(t, "Ana", models.ContractPermanent, "tok-1", "tok-2")

	owner := ana.ID
	_, op, err := fx.eng.CreateDemand(models.WorkItem{Title: "Audit reply", Priority: models.PriorityHigh, OwnerID: &owner})
	require.NoError(t, err)
	mustOK(t, op)
	w, _ := fx.eng.Demand(op.ID())

	w.Status = models.StatusDone
	op, err = fx.eng.UpdateDemand(w)
	require.NoError(t, err)
	mustOK(t, op)

	// Re-saving an already finished item sends nothing new.
	w.Description = "closed"
	op, err = fx.eng.UpdateDemand(w)
	require.NoError(t, err)
	mustOK(t, op)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fx.eng.Close(ctx))

	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Equal(t, 2, n.calls)
	assert.Contains(t, n.sent["tok-1"], "Audit reply")
	assert.Contains(t, n.sent["tok-2"], "Audit reply")
}

func TestUpdateDemand_RejectedChangeSendsNothing(t *testing.T) {
	n := &fakeNotifier{}
	fx := newFixture(t, WithNotifier(n))
	ana := fx.employee(t, "Ana", models.ContractPermanent, "tok")

	owner := ana.ID
	_, op, err := fx.eng.CreateDemand(models.WorkItem{Title: "x", Priority: models.PriorityLow, OwnerID: &owner})
	require.NoError(t, err)
	mustOK(t, op)
	w, _ := fx.eng.Demand(op.ID())

	fx.faults.failOn(remote.OpReplace, common.CollectionDemands, errOffline)
	w.Status = models.StatusDone
	op, err = fx.eng.UpdateDemand(w)
	require.NoError(t, err)
	require.ErrorIs(t, wait(t, op), common.ErrSyncFailed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fx.eng.Close(ctx))

	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Zero(t, n.calls)
}

func TestUpdateDemand_NotificationFailureIsNotSurfaced(t *testing.T) {
	n := &fakeNotifier{err: errors.New("push failed")}
	fx := newFixture(t, WithNotifier(n))
	ana := fx.employee(t, "Ana", models.ContractPermanent, "tok")

	owner := ana.ID
	_, op, err := fx.eng.CreateDemand(models.WorkItem{Title: "x", Priority: models.PriorityLow, OwnerID: &owner})
	require.NoError(t, err)
	mustOK(t, op)
	w, _ := fx.eng.Demand(op.ID())

	w.Status = models.StatusDone
	op, err = fx.eng.UpdateDemand(w)
	require.NoError(t, err)
	require.NoError(t, wait(t, op))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fx.eng.Close(ctx))
	assert.Empty(t, fx.reports.all())
}

func TestAnalyze(t *testing.T) {
	fx := newFixture(t)
	ana := fx.employee(t, "Ana", models.ContractPermanent)
	fx.certificate(t, ana.ID, 70, 3, "J06.9")
	fx.certificate(t, ana.ID, 40, 4, "J06.0")
	fx.certificate(t, ana.ID, 10, 5, "J06")

	a, err := fx.eng.Analyze(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, a.AccumulatedDays)
	assert.Equal(t, compliance.VerdictNormal, a.Status)

	fx.certificate(t, ana.ID, 5, 2, "J06.1")
	a, err = fx.eng.Analyze(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, a.AccumulatedDays)
	assert.Equal(t, compliance.VerdictInternalCommittee, a.Status)

	rep := fx.eng.ComplianceReport()
	require.Len(t, rep, 1)
	assert.Equal(t, ana.ID, rep[0].EmployeeID)

	_, err = fx.eng.Analyze("ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
