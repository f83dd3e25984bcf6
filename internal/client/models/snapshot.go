// Package models holds the client-side data model: the inspection session
// snapshot, the tri-state answer value, and the submission queue job
// variants.
package models

import (
	"encoding/json"
	"fmt"

	"github.com/cesworks/fieldcheck/internal/common"
)

// Snapshot is the typed view of the persisted inspection session. The store
// keeps the raw JSON object (so unknown fields survive round-trips); this
// struct is decoded from it for reads.
type Snapshot struct {
	SessionID string `json:"sessionId,omitempty"`
	Code      string `json:"code,omitempty"`
	Mode      string `json:"mode,omitempty"` // "qr" or "rental"

	UnitID          string `json:"unitId,omitempty"`
	DisplayedUnitID string `json:"displayedUnitId,omitempty"`
	UnitCategory    string `json:"unitCategory,omitempty"`
	UnitType        string `json:"unitType,omitempty"`
	SFormNum        string `json:"sFormNum,omitempty"`
	JobNumber       string `json:"jobNumber,omitempty"`

	EmployeeID    string `json:"employeeId,omitempty"`
	EmployeeName  string `json:"employeeName,omitempty"`
	PreferredName string `json:"preferredName,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`

	LocationLink  string   `json:"locationLink,omitempty"`
	GPSLat        *float64 `json:"gpsLat,omitempty"`
	GPSLon        *float64 `json:"gpsLon,omitempty"`
	GPSAccuracy   *float64 `json:"gpsAcc,omitempty"`
	GPSCapturedAt int64    `json:"gpsTs,omitempty"`

	Notes        string            `json:"notes,omitempty"`
	MeterReading string            `json:"meterReading,omitempty"`
	RepairDesc   string            `json:"repairDesc,omitempty"`
	Answers      map[string]Answer `json:"answers,omitempty"`

	// Tri-state flags: nil means not yet answered, which is distinct from
	// an explicit false.
	PolicyAcknowledged *bool `json:"policyAcknowledged,omitempty"`
	SafeToOperate      *bool `json:"safeToOperate,omitempty"`
	NeedsRepair        *bool `json:"needsRepair,omitempty"`

	PhotosWalkFolderURL   string `json:"photosWalkFolderUrl,omitempty"`
	PhotosRepairFolderURL string `json:"photosRepairFolderUrl,omitempty"`

	// Workflow markers, written by the page commands as the user advances.
	EmployeeVerified bool   `json:"employeeVerified,omitempty"`
	ModeChosen       bool   `json:"modeChosen,omitempty"`
	LocationCaptured bool   `json:"locationCaptured,omitempty"`
	Started          bool   `json:"started,omitempty"`
	Finalized        bool   `json:"finalized,omitempty"`
	SubmittedAt      string `json:"submittedAt,omitempty"`

	LastTouched int64 `json:"_touched,omitempty"`
}

// Patch is a partial snapshot applied by Store.Write. Keys are the snapshot's
// JSON field names; a nil value is the explicit removal marker.
type Patch map[string]any

// SnapshotFromRaw decodes the store's raw JSON object into the typed view.
func SnapshotFromRaw(raw map[string]json.RawMessage) (Snapshot, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode raw snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(buf, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// MintSessionID generates a client-side session id for offline starts, in
// the INS-<millis>-<rand> shape the server also recognizes.
func MintSessionID() string {
	return common.MintSessionID()
}

// Bool is a convenience for building tri-state flag patches.
func Bool(v bool) *bool { return &v }
