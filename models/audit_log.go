// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Actor types recorded in audit entries.
const (
	ActorUser     = "user"
	ActorAdmin    = "admin"
	ActorInvestor = "investor"
)

// AuditEntry is one element of a dashboard's embedded append-only audit trail.
// Entries are never edited or removed once pushed.
type AuditEntry struct {
	ActorType string    `bson:"actorType" json:"actorType"` // user, admin, investor
	ActorID   string    `bson:"actorId" json:"actorId"`
	Action    string    `bson:"action" json:"action"` // e.g. "update_ddform", "set_approval"
	Meta      bson.M    `bson:"meta,omitempty" json:"meta,omitempty"`
	At        time.Time `bson:"at" json:"at"`
}

// NewAuditEntry stamps an entry with the current time.
func NewAuditEntry(actorType, actorID, action string, meta bson.M) AuditEntry {
	if meta == nil {
		meta = bson.M{}
	}
	return AuditEntry{
		ActorType: actorType,
		ActorID:   actorID,
		Action:    action,
		Meta:      meta,
		At:        time.Now().UTC(),
	}
}
