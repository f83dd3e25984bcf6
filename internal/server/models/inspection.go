// Package models holds the server-side persistence model.
package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Inspection is one stored inspection session, keyed by the client-minted
// session id. Data is the session snapshot as an opaque JSON object; the
// server merges additively and never interprets fields it does not own.
type Inspection struct {
	ID          int64
	SessionID   string
	Code        string
	EmployeeID  string
	Data        json.RawMessage
	SubmittedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PhotoFolder is one (session, kind, folder URL) association. The triple is
// unique; re-asserting it only bumps UpdatedAt.
type PhotoFolder struct {
	ID        int64
	SessionID string
	Kind      string
	FolderURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answer is one checklist answer in its exploded tri-state columns. Exactly
// one of the value columns is set.
type Answer struct {
	ID           int64
	InspectionID int64
	BindKey      string
	TextValue    sql.NullString
	NumValue     sql.NullFloat64
	DateValue    sql.NullTime
}
