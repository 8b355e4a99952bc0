package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/worktracker/internal/common"
)

// identified is any record with an id.
type identified interface {
	GetID() string
}

// pick finds the record whose id is ref or starts with ref.
func pick[T identified](items []T, ref, what string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%w: %s id is required", common.ErrValidation, what)
	}

	var found []T
	for _, it := range items {
		if it.GetID() == ref {
			return it, nil
		}
		if strings.HasPrefix(it.GetID(), ref) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%w: %s %s", common.ErrorNotFound, what, ref)
	case 1:
		return found[0], nil
	}
	return zero, fmt.Errorf("%w: %s id %q is ambiguous", common.ErrValidation, what, ref)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

// marker flags records whose create the server has not confirmed yet.
func (a *App) marker(id string) string {
	if a.engine.Pending(id) {
		return "*"
	}
	return ""
}

func (a *App) employeeName(id string) string {
	if id == "" {
		return "-"
	}
	if emp, ok := a.engine.Employee(id); ok {
		return emp.Name
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
