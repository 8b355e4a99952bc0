// Package models defines the records persisted by the server.
package models

import (
	"encoding/json"
	"time"
)

// Document is one stored JSON object of a collection. Ids are unique per
// collection and never change once assigned.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
