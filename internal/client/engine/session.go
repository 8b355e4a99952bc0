package engine

import (
	"sync"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

// Session owns the in-memory collections of one user session together with
// the pending-create table and the temp→durable id aliases. Every field is
// guarded by mu.
type Session struct {
	mu sync.Mutex

	demands      collection[models.WorkItem]
	vacations    collection[models.LeavePeriod]
	employees    collection[models.Employee]
	certificates collection[models.LeaveCertificate]
	statuses     collection[models.WorkflowStatus]

	// pending maps the temp id of an unconfirmed record to its create Op.
	pending map[string]*Op
	// aliases maps confirmed temp ids to the durable ids that replaced them.
	aliases map[string]string
}

func newSession() *Session {
	return &Session{
		pending: make(map[string]*Op),
		aliases: make(map[string]string),
	}
}

// frame is a snapshot of every collection. Taking one copies five slice
// headers.
type frame struct {
	demands      []models.WorkItem
	vacations    []models.LeavePeriod
	employees    []models.Employee
	certificates []models.LeaveCertificate
	statuses     []models.WorkflowStatus
}

func (s *Session) capture() frame {
	return frame{
		demands:      s.demands.snapshot(),
		vacations:    s.vacations.snapshot(),
		employees:    s.employees.snapshot(),
		certificates: s.certificates.snapshot(),
		statuses:     s.statuses.snapshot(),
	}
}

// restore puts back the named collections from f. Temp ids confirmed since
// f was taken are re-keyed to their durable ids.
func (s *Session) restore(f frame, collections ...string) {
	for _, name := range collections {
		switch name {
		case common.CollectionDemands:
			s.demands.restore(f.demands)
		case common.CollectionVacations:
			s.vacations.restore(f.vacations)
		case common.CollectionEmployees:
			s.employees.restore(f.employees)
		case common.CollectionCertificates:
			s.certificates.restore(f.certificates)
		case common.CollectionStatuses:
			s.statuses.restore(f.statuses)
		}
	}
	for temp, real := range s.aliases {
		s.rekey(temp, real)
	}
}

// canonical maps a confirmed temp id to its durable id.
func (s *Session) canonical(id string) string {
	if real, ok := s.aliases[id]; ok {
		return real
	}
	return id
}

func (s *Session) isPending(id string) bool {
	_, ok := s.pending[id]
	return ok
}

// rekey replaces temp with real as a record id and as a reference in every
// collection.
func (s *Session) rekey(temp, real string) {
	rekeyIDs(&s.demands, temp, real)
	rekeyIDs(&s.vacations, temp, real)
	rekeyIDs(&s.employees, temp, real)
	rekeyIDs(&s.certificates, temp, real)
	rekeyIDs(&s.statuses, temp, real)

	s.demands.rewrite(func(w models.WorkItem) (models.WorkItem, bool) {
		if w.OwnerID == nil || *w.OwnerID != temp {
			return w, false
		}
		owner := real
		w.OwnerID = &owner
		return w, true
	})
	s.vacations.rewrite(func(v models.LeavePeriod) (models.LeavePeriod, bool) {
		if v.EmployeeID != temp {
			return v, false
		}
		v.EmployeeID = real
		return v, true
	})
	s.certificates.rewrite(func(c models.LeaveCertificate) (models.LeaveCertificate, bool) {
		if c.EmployeeID != temp {
			return c, false
		}
		c.EmployeeID = real
		return c, true
	})
}

func rekeyIDs[T Record[T]](c *collection[T], temp, real string) {
	c.rewrite(func(v T) (T, bool) {
		if v.GetID() != temp {
			return v, false
		}
		return v.WithID(real), true
	})
}
