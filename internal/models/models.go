// Package models defines the records kept by the tracker: work items
// (demands), leave periods (vacations), employees, leave certificates and
// workflow statuses.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/common"
)

// Priority of a work item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority accepts the canonical names case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", common.ErrValidation, s)
}

// ContractClass decides which compliance limit applies to an employee.
type ContractClass string

const (
	ContractPermanent  ContractClass = "permanent"
	ContractFixedTerm  ContractClass = "fixed-term"
	ContractOutsourced ContractClass = "outsourced"
)

func ParseContractClass(s string) (ContractClass, error) {
	switch c := ContractClass(strings.ToLower(strings.TrimSpace(s))); c {
	case ContractPermanent, ContractFixedTerm, ContractOutsourced:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown contract class %q", common.ErrValidation, s)
}

// WorkItem is a demand tracked through the workflow statuses.
type WorkItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     Date     `json:"dueDate"`
	Status      string   `json:"status"`
	OwnerID     *string  `json:"ownerId"`
}

func (w WorkItem) GetID() string { return w.ID }

func (w WorkItem) WithID(id string) WorkItem {
	w.ID = id
	return w
}

// Owner returns the owner id or "" when the item is unassigned.
func (w WorkItem) Owner() string {
	if w.OwnerID == nil {
		return ""
	}
	return *w.OwnerID
}

func (w WorkItem) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if _, err := ParsePriority(string(w.Priority)); err != nil {
		return err
	}
	if strings.TrimSpace(w.Status) == "" {
		return fmt.Errorf("%w: status is required", common.ErrValidation)
	}
	return nil
}

// LeavePeriod is a vacation; both ends are inclusive.
type LeavePeriod struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	StartDate    Date   `json:"startDate"`
	EndDate      Date   `json:"endDate"`
}

func (l LeavePeriod) GetID() string { return l.ID }

func (l LeavePeriod) WithID(id string) LeavePeriod {
	l.ID = id
	return l
}

// Days is the inclusive length of the period.
func (l LeavePeriod) Days() int {
	return l.EndDate.DaysSince(l.StartDate) + 1
}

func (l LeavePeriod) Validate() error {
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", common.ErrValidation)
	}
	if l.EndDate.Before(l.StartDate.Time) {
		return common.ErrInvalidPeriod
	}
	return nil
}

// Employee is a person that can own work items and hold certificates.
type Employee struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Contract ContractClass `json:"contractClass"`
	Tokens   []string      `json:"notificationTokens,omitempty"`
}

func (e Employee) GetID() string { return e.ID }

func (e Employee) WithID(id string) Employee {
	e.ID = id
	return e
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	_, err := ParseContractClass(string(e.Contract))
	return err
}

// LeaveCertificate is a medical certificate justifying days off.
type LeaveCertificate struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employeeId"`
	Date             Date    `json:"certificateDate"`
	Days             float64 `json:"days"`
	HalfDay          bool    `json:"isHalfDay"`
	OriginalReceived bool    `json:"originalReceived"`
	DiagnosisCode    string  `json:"diagnosisCode,omitempty"`
	AttachmentURL    string  `json:"fileURL,omitempty"`
}

func (c LeaveCertificate) GetID() string { return c.ID }

func (c LeaveCertificate) WithID(id string) LeaveCertificate {
	c.ID = id
	return c
}

// EffectiveDays is what the certificate contributes to compliance sums.
func (c LeaveCertificate) EffectiveDays() float64 {
	if c.HalfDay {
		return 0.5
	}
	return c.Days
}

func (c LeaveCertificate) Validate() error {
	if c.EmployeeID == "" {
		return fmt.Errorf("%w: employee is required", common.ErrValidation)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: certificate date is required", common.ErrValidation)
	}
	if c.HalfDay {
		return nil
	}
	if c.Days <= 0 || c.Days*2 != float64(int(c.Days*2)) {
		return fmt.Errorf("%w: days must be a positive multiple of 0.5", common.ErrValidation)
	}
	return nil
}

// Built-in workflow status labels.
const (
	StatusOpen             = "Open"
	StatusAwaitingResponse = "AwaitingResponse"
	StatusDone             = "Done"
)

// TerminalOrder is reserved for the Done status so user statuses sort first.
const TerminalOrder = 99

// WorkflowStatus is one entry of the user-extensible status taxonomy.
type WorkflowStatus struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Order int    `json:"order"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s WorkflowStatus) GetID() string { return s.ID }

func (s WorkflowStatus) WithID(id string) WorkflowStatus {
	s.ID = id
	return s
}

// Protected reports whether the status belongs to the built-in set.
func (s WorkflowStatus) Protected() bool {
	return IsProtectedLabel(s.Label)
}

// IsProtectedLabel reports whether label names a built-in status.
func IsProtectedLabel(label string) bool {
	switch label {
	case StatusOpen, StatusAwaitingResponse, StatusDone:
		return true
	}
	return false
}

// BuiltinStatuses returns the protected statuses with their fixed order,
// icon and color.
func BuiltinStatuses() []WorkflowStatus {
	return []WorkflowStatus{
		{Label: StatusOpen, Order: 0, Icon: "Inbox", Color: "bg-blue-500"},
		{Label: StatusAwaitingResponse, Order: 1, Icon: "MailQuestion", Color: "bg-yellow-500"},
		{Label: StatusDone, Order: TerminalOrder, Icon: "CheckCircle2", Color: "bg-green-500"},
	}
}

// Attachment is a file handed to the certificate upload collaborator.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}
