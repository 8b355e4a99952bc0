package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/common"
)

// errNeverCreated is returned when a record's durable id is needed but its
// create was rejected by the store.
var errNeverCreated = errors.New("record was never created remotely")

// errDropped marks a write to a record whose own create was rejected; its
// rollback already happened.
var errDropped = errors.New("record was dropped")

// SyncError reports a remote write that failed after the local state had
// been rolled back. It matches common.ErrSyncFailed.
type SyncError struct {
	Collection string
	Op         string
	ID         string
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s %s %s could not be saved: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *SyncError) Unwrap() []error {
	return []error{common.ErrSyncFailed, e.Err}
}

// CascadeError reports dependent certificates that could not be deleted
// remotely after their employee was. Nothing is rolled back.
type CascadeError struct {
	EmployeeID string
	Failed     []string
	Err        error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("employee %s deleted, but certificates %s could not be deleted: %v",
		e.EmployeeID, strings.Join(e.Failed, ", "), e.Err)
}

func (e *CascadeError) Unwrap() []error {
	return []error{common.ErrCascadeFailed, e.Err}
}

func notFound(collection, id string) error {
	return fmt.Errorf("%w: %s %s", common.ErrorNotFound, collection, id)
}
