package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/dmitrijs2005/worktracker/internal/netx"
)

func (a *App) listCertificates(ctx context.Context, args []string) error {
	certs := a.engine.Certificates()
	if len(args) > 0 {
		emp, err := pick(a.engine.Employees(), args[0], "employee")
		if err != nil {
			return err
		}
		certs = a.engine.CertificatesOf(emp.ID)
	}

	tw := newTable(a.out, "ID", "", "EMPLOYEE", "DATE", "DAYS", "CODE", "ORIGINAL", "FILE")
	for _, c := range certs {
		original := "no"
		if c.OriginalReceived {
			original = "yes"
		}
		row(tw, c.ID, a.marker(c.ID), a.employeeName(c.EmployeeID), c.Date, c.EffectiveDays(),
			orDash(c.DiagnosisCode), original, orDash(c.AttachmentURL))
	}
	return tw.Flush()
}

func (a *App) promptCertificate(cur models.LeaveCertificate) (models.LeaveCertificate, error) {
	emp, err := GetWithDefault(a.reader, "Employee id", cur.EmployeeID, a.out)
	if err != nil {
		return cur, err
	}
	e, err := pick(a.engine.Employees(), emp, "employee")
	if err != nil {
		return cur, err
	}
	cur.EmployeeID = e.ID

	if cur.Date, err = GetDate(a.reader, "Certificate date", cur.Date, false, a.out); err != nil {
		return cur, err
	}
	if cur.HalfDay, err = GetYesNo(a.reader, "Half day?", cur.HalfDay, a.out); err != nil {
		return cur, err
	}
	if !cur.HalfDay {
		if cur.Days, err = GetFloat(a.reader, "Days", cur.Days, a.out); err != nil {
			return cur, err
		}
	}
	if cur.OriginalReceived, err = GetYesNo(a.reader, "Original received?", cur.OriginalReceived, a.out); err != nil {
		return cur, err
	}
	if cur.DiagnosisCode, err = GetWithDefault(a.reader, "Diagnosis code (optional)", cur.DiagnosisCode, a.out); err != nil {
		return cur, err
	}
	return cur, nil
}

// readAttachment loads a scan from disk.
func readAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = netx.DefaultContentType
	}
	return &models.Attachment{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

func (a *App) addCertificate(ctx context.Context, args []string) error {
	draft, err := a.promptCertificate(models.LeaveCertificate{})
	if err != nil {
		return err
	}

	var att *models.Attachment
	path, err := GetSimpleText(a.reader, "Scan file path (optional)", a.out)
	if err != nil {
		return err
	}
	if path != "" {
		if att, err = readAttachment(path); err != nil {
			return err
		}
	}

	rec, _, err := a.engine.CreateCertificate(draft, att)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s\n", rec.ID)
	return nil
}

func (a *App) editCertificate(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "editcert <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Certificates(), args[0], "certificate")
	if err != nil {
		return err
	}
	next, err := a.promptCertificate(cur)
	if err != nil {
		return err
	}
	_, err = a.engine.UpdateCertificate(next)
	return err
}

func (a *App) deleteCertificate(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "delcert <id>"); err != nil {
		return err
	}
	cur, err := pick(a.engine.Certificates(), args[0], "certificate")
	if err != nil {
		return err
	}
	_, err = a.engine.DeleteCertificate(cur.ID)
	return err
}
