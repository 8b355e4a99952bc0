// Package taxonomy holds the rules of the workflow status registry: label
// uniqueness, protected statuses, ordering and fallback reassignment. It
// never mutates its inputs; the engine applies the results.
package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns the case-insensitive comparison key of a label.
func Fold(label string) string {
	return folder.String(strings.TrimSpace(label))
}

// Sort orders statuses by Order, then label.
func Sort(statuses []models.WorkflowStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		if statuses[i].Order != statuses[j].Order {
			return statuses[i].Order < statuses[j].Order
		}
		return statuses[i].Label < statuses[j].Label
	})
}

// Lookup finds the status carrying exactly label.
func Lookup(statuses []models.WorkflowStatus, label string) (models.WorkflowStatus, bool) {
	for _, s := range statuses {
		if s.Label == label {
			return s, true
		}
	}
	return models.WorkflowStatus{}, false
}

func byID(statuses []models.WorkflowStatus, id string) (models.WorkflowStatus, bool) {
	for _, s := range statuses {
		if s.ID == id {
			return s, true
		}
	}
	return models.WorkflowStatus{}, false
}

func collides(statuses []models.WorkflowStatus, label, exceptID string) bool {
	key := Fold(label)
	for _, s := range statuses {
		if s.ID != exceptID && Fold(s.Label) == key {
			return true
		}
	}
	return false
}

// NextOrder is one more than the highest order among non-terminal statuses,
// or 0 when there are none. It never reaches TerminalOrder.
func NextOrder(statuses []models.WorkflowStatus) int {
	next := 0
	for _, s := range statuses {
		if s.Label == models.StatusDone || s.Order >= models.TerminalOrder {
			continue
		}
		if s.Order+1 > next {
			next = s.Order + 1
		}
	}
	return min(next, models.TerminalOrder-1)
}

// NewStatus validates label and builds the status to add.
func NewStatus(statuses []models.WorkflowStatus, label, icon, color string) (models.WorkflowStatus, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.WorkflowStatus{}, fmt.Errorf("%w: label is required", common.ErrValidation)
	}
	if collides(statuses, label, "") {
		return models.WorkflowStatus{}, fmt.Errorf("%w: %q", common.ErrDuplicateStatus, label)
	}
	return models.WorkflowStatus{
		Label: label,
		Order: NextOrder(statuses),
		Icon:  icon,
		Color: color,
	}, nil
}

// Removal describes a validated status deletion.
type Removal struct {
	Target   models.WorkflowStatus
	Fallback models.WorkflowStatus
}

// PlanRemoval checks that id may be deleted and picks the fallback: the
// lowest-order status that survives.
func PlanRemoval(statuses []models.WorkflowStatus, id string) (Removal, error) {
	target, ok := byID(statuses, id)
	if !ok {
		return Removal{}, fmt.Errorf("%w: status %s", common.ErrorNotFound, id)
	}
	if target.Protected() {
		return Removal{}, fmt.Errorf("%w: %q", common.ErrProtectedStatus, target.Label)
	}
	if len(statuses) <= 1 {
		return Removal{}, common.ErrLastStatus
	}

	survivors := make([]models.WorkflowStatus, 0, len(statuses)-1)
	for _, s := range statuses {
		if s.ID != id {
			survivors = append(survivors, s)
		}
	}
	Sort(survivors)

	return Removal{Target: target, Fallback: survivors[0]}, nil
}

// Rename describes a validated status update.
type Rename struct {
	Previous models.WorkflowStatus
	Next     models.WorkflowStatus
}

// Relabels reports whether work items have to follow the update.
func (r Rename) Relabels() bool {
	return r.Previous.Label != r.Next.Label
}

// PlanUpdate validates an edit of an existing status. Protected statuses
// keep their label and order; other statuses may be renamed to any label
// that does not collide with another status.
func PlanUpdate(statuses []models.WorkflowStatus, next models.WorkflowStatus) (Rename, error) {
	prev, ok := byID(statuses, next.ID)
	if !ok {
		return Rename{}, fmt.Errorf("%w: status %s", common.ErrorNotFound, next.ID)
	}
	next.Label = strings.TrimSpace(next.Label)

	if prev.Protected() {
		if next.Label != prev.Label {
			return Rename{}, fmt.Errorf("%w: %q cannot be renamed", common.ErrProtectedStatus, prev.Label)
		}
		next.Order = prev.Order
		return Rename{Previous: prev, Next: next}, nil
	}

	if next.Label == "" {
		return Rename{}, fmt.Errorf("%w: label is required", common.ErrValidation)
	}
	if models.IsProtectedLabel(next.Label) || collides(statuses, next.Label, prev.ID) {
		return Rename{}, fmt.Errorf("%w: %q", common.ErrDuplicateStatus, next.Label)
	}
	if next.Order >= models.TerminalOrder {
		next.Order = prev.Order
	}
	return Rename{Previous: prev, Next: next}, nil
}

// Relabel returns a copy of items where every item carrying from carries to
// instead, plus the changed items in their new form.
func Relabel(items []models.WorkItem, from, to string) ([]models.WorkItem, []models.WorkItem) {
	out := make([]models.WorkItem, len(items))
	var changed []models.WorkItem
	for i, it := range items {
		if it.Status == from {
			it.Status = to
			changed = append(changed, it)
		}
		out[i] = it
	}
	return out, changed
}

// Missing returns the built-in statuses whose exact label is absent.
func Missing(statuses []models.WorkflowStatus) []models.WorkflowStatus {
	var out []models.WorkflowStatus
	for _, b := range models.BuiltinStatuses() {
		if _, ok := Lookup(statuses, b.Label); !ok {
			out = append(out, b)
		}
	}
	return out
}
