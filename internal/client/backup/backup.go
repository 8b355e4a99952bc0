// Package backup moves the whole tracker between a store and a JSON file.
// Imports go through the engine, so imported records get fresh ids and every
// reference between them is rewritten.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dmitrijs2005/worktracker/internal/client/engine"
	"github.com/dmitrijs2005/worktracker/internal/client/taxonomy"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/filex"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

// Data is the on-disk backup layout.
type Data struct {
	Demands      []models.WorkItem         `json:"demands"`
	Vacations    []models.LeavePeriod      `json:"vacations"`
	Employees    []models.Employee         `json:"employees"`
	Certificates []models.LeaveCertificate `json:"certificates"`
	Statuses     []models.WorkflowStatus   `json:"demandStatuses"`
}

// Source is what Export reads.
type Source interface {
	Demands() []models.WorkItem
	Vacations() []models.LeavePeriod
	Employees() []models.Employee
	Certificates() []models.LeaveCertificate
	Statuses() []models.WorkflowStatus
}

// Target is what Import writes to. *engine.Engine implements it.
type Target interface {
	Statuses() []models.WorkflowStatus
	AddStatus(label, icon, color string) (models.WorkflowStatus, *engine.Op, error)
	CreateEmployee(draft models.Employee) (models.Employee, *engine.Op, error)
	CreateCertificate(draft models.LeaveCertificate, att *models.Attachment) (models.LeaveCertificate, *engine.Op, error)
	CreateVacation(draft models.LeavePeriod) (models.LeavePeriod, *engine.Op, error)
	CreateDemand(draft models.WorkItem) (models.WorkItem, *engine.Op, error)
}

// Export copies the current contents of src. Empty collections are written
// as empty arrays.
func Export(src Source) Data {
	return Data{
		Demands:      nonNil(src.Demands()),
		Vacations:    nonNil(src.Vacations()),
		Employees:    nonNil(src.Employees()),
		Certificates: nonNil(src.Certificates()),
		Statuses:     nonNil(src.Statuses()),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func Encode(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func Decode(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("%w: backup: %v", common.ErrValidation, err)
	}
	return d, nil
}

// WriteFile stores d at path, replacing any previous file atomically.
func WriteFile(path string, d Data) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteAtomic(path, data)
}

func ReadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Rejection is a record the engine refused before any remote call.
type Rejection struct {
	Collection string
	ID         string
	Err        error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s %s: %v", r.Collection, r.ID, r.Err)
}

// Result describes a started import. Records are already visible in the
// session; Wait blocks until the store confirmed or rejected each of them.
type Result struct {
	Created  map[string]int
	Skipped  int
	Rejected []Rejection
	ops      []*engine.Op
}

// Wait returns the joined remote failures.
func (r *Result) Wait(ctx context.Context) error {
	var errs []error
	for _, op := range r.ops {
		if err := op.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type importer struct {
	t      Target
	logger logging.Logger
	res    *Result
	ids    map[string]string
}

func (im *importer) track(collection, oldID string, op *engine.Op, err error) bool {
	if err != nil {
		im.res.Rejected = append(im.res.Rejected, Rejection{Collection: collection, ID: oldID, Err: err})
		im.logger.Warn(context.Background(), "record rejected", "collection", collection, "id", oldID, "error", err)
		return false
	}
	im.res.Created[collection]++
	im.res.ops = append(im.res.ops, op)
	return true
}

func (im *importer) mapID(id string) string {
	if real, ok := im.ids[id]; ok {
		return real
	}
	return id
}

// Import adds the contents of d to t. Statuses whose label already exists
// (ignoring case) are skipped, built-in ones included. Employees are created
// first so certificates, vacations and work items can point at their new ids.
func Import(t Target, d Data, logger logging.Logger) *Result {
	im := &importer{
		t:      t,
		logger: logger.With("module", "backup"),
		res:    &Result{Created: make(map[string]int)},
		ids:    make(map[string]string),
	}

	statuses := append([]models.WorkflowStatus(nil), d.Statuses...)
	sort.SliceStable(statuses, func(i, j int) bool { return statuses[i].Order < statuses[j].Order })
	existing := make(map[string]bool)
	for _, s := range t.Statuses() {
		existing[taxonomy.Fold(s.Label)] = true
	}
	for _, s := range statuses {
		if existing[taxonomy.Fold(s.Label)] {
			im.res.Skipped++
			continue
		}
		_, op, err := t.AddStatus(s.Label, s.Icon, s.Color)
		if im.track(common.CollectionStatuses, s.ID, op, err) {
			existing[taxonomy.Fold(s.Label)] = true
		}
	}

	for _, emp := range d.Employees {
		rec, op, err := t.CreateEmployee(emp)
		if im.track(common.CollectionEmployees, emp.ID, op, err) {
			im.ids[emp.ID] = rec.ID
		}
	}

	for _, c := range d.Certificates {
		c.EmployeeID = im.mapID(c.EmployeeID)
		_, op, err := t.CreateCertificate(c, nil)
		im.track(common.CollectionCertificates, c.ID, op, err)
	}

	for _, v := range d.Vacations {
		if v.EmployeeID != "" {
			v.EmployeeID = im.mapID(v.EmployeeID)
		}
		_, op, err := t.CreateVacation(v)
		im.track(common.CollectionVacations, v.ID, op, err)
	}

	for _, w := range d.Demands {
		if owner := w.Owner(); owner != "" {
			mapped := im.mapID(owner)
			w.OwnerID = &mapped
		}
		_, op, err := t.CreateDemand(w)
		im.track(common.CollectionDemands, w.ID, op, err)
	}

	im.logger.Info(context.Background(), "import staged",
		"created", im.res.Created, "skipped", im.res.Skipped, "rejected", len(im.res.Rejected))
	return im.res
}
