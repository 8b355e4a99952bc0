package engine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
)

var certificatesBinding = binding[models.LeaveCertificate]{
	name: common.CollectionCertificates,
	col:  func(s *Session) *collection[models.LeaveCertificate] { return &s.certificates },
	resolve: func(ctx context.Context, e *Engine, c models.LeaveCertificate) (models.LeaveCertificate, error) {
		id, err := e.awaitID(ctx, c.EmployeeID)
		if err != nil {
			return c, fmt.Errorf("employee: %w", err)
		}
		c.EmployeeID = id
		return c, nil
	},
}

func (e *Engine) checkCertificate(c models.LeaveCertificate) (models.LeaveCertificate, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}
	c.EmployeeID = e.s.canonical(c.EmployeeID)
	if _, ok := e.s.employees.get(c.EmployeeID); !ok {
		return c, notFound(common.CollectionEmployees, c.EmployeeID)
	}
	if c.HalfDay {
		c.Days = 0.5
	}
	return c, nil
}

// CreateCertificate adds a certificate. When att is given it is uploaded as
// part of the remote confirmation, after the local insert; an upload failure
// counts as a failed create.
func (e *Engine) CreateCertificate(draft models.LeaveCertificate, att *models.Attachment) (models.LeaveCertificate, *Op, error) {
	if att != nil && e.uploader == nil {
		return models.LeaveCertificate{}, nil, fmt.Errorf("%w: attachment storage is not configured", common.ErrValidation)
	}

	e.s.mu.Lock()
	draft, err := e.checkCertificate(draft)
	if err != nil {
		e.s.mu.Unlock()
		return models.LeaveCertificate{}, nil, err
	}
	f := e.s.capture()
	rec, op := stageCreate(e, certificatesBinding, draft)
	e.s.mu.Unlock()

	hooks := createHooks[models.LeaveCertificate]{}
	if att != nil {
		hooks.before = func(ctx context.Context, c models.LeaveCertificate) (models.LeaveCertificate, error) {
			url, err := e.uploader.Upload(ctx, c.EmployeeID, *att)
			if err != nil {
				return c, fmt.Errorf("upload attachment: %w", err)
			}
			c.AttachmentURL = url
			return c, nil
		}
		hooks.merge = func(local, sent models.LeaveCertificate) models.LeaveCertificate {
			local.AttachmentURL = sent.AttachmentURL
			return local
		}
	}

	confirmCreate(e, certificatesBinding, rec, op, f, hooks)
	return rec, op, nil
}

func (e *Engine) UpdateCertificate(c models.LeaveCertificate) (*Op, error) {
	check := func(next, _ models.LeaveCertificate) (models.LeaveCertificate, error) {
		return e.checkCertificate(next)
	}
	return update(e, certificatesBinding, c, check, nil)
}

func (e *Engine) DeleteCertificate(id string) (*Op, error) {
	return remove(e, certificatesBinding, id)
}

func (e *Engine) Certificates() []models.LeaveCertificate {
	return list(e, certificatesBinding)
}

// CertificatesOf returns the certificates of one employee.
func (e *Engine) CertificatesOf(employeeID string) []models.LeaveCertificate {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	id := e.s.canonical(employeeID)
	var out []models.LeaveCertificate
	for _, c := range e.s.certificates.items {
		if c.EmployeeID == id {
			out = append(out, c)
		}
	}
	return out
}
