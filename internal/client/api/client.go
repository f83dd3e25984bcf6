// Package api is the HTTP client for the remote inspection service. Every
// write it performs is idempotent on the server side; the sync engine relies
// on that to make blind resends safe.
package api

import (
	"context"
	"encoding/json"
)

// Unit is the QR-resolve result.
type Unit struct {
	UnitID    string `json:"unitId"`
	DisplayID string `json:"displayId"`
	Category  string `json:"category"`
	UnitType  string `json:"unitType"`
	SFormNum  string `json:"sFormNum"`
}

// Employee is the verify result. Token is the one-shot verified marker the
// workflow gate honors for a single transition.
type Employee struct {
	ID            string `json:"employeeId"`
	Name          string `json:"name"`
	PreferredName string `json:"preferredName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// PhotoFolder is one stored (kind, url) association.
type PhotoFolder struct {
	Kind      string `json:"kind"`
	FolderURL string `json:"folderUrl"`
}

// RemoteSession is the stored session returned by the read endpoint, used to
// reconcile local state after a fresh load.
type RemoteSession struct {
	SessionID    string          `json:"sessionId"`
	Data         json.RawMessage `json:"data"`
	PhotoFolders []PhotoFolder   `json:"photos"`
	SubmittedAt  string          `json:"submittedAt"`
}

// StartResult confirms (or mints) a session id server-side.
type StartResult struct {
	SessionID string `json:"sessionId"`
	Reused    bool   `json:"reused"`
}

// FinalizeRequest closes out an inspection.
type FinalizeRequest struct {
	SessionID string   `json:"sessionId"`
	SendTo    []string `json:"sendTo,omitempty"`
}

// FinalizeResult reports the terminal stamp and the rendered artifact.
type FinalizeResult struct {
	SubmittedAt string `json:"submittedAt"`
	SummaryURL  string `json:"summaryUrl"`
}

// Client is the remote service boundary. Errors returned by delivery
// methods wrap either common.ErrValidation (do not retry) or
// common.ErrTransient (safe to retry).
type Client interface {
	Ping(ctx context.Context) error

	StartSession(ctx context.Context, sessionID, code, employeeID string) (*StartResult, error)
	UpsertSession(ctx context.Context, body json.RawMessage) error
	UpsertPhotoFolder(ctx context.Context, sessionID, kind, url string) error
	UploadPhoto(ctx context.Context, sessionID, kind, filename string, content []byte) (string, error)
	GetSession(ctx context.Context, sessionID string) (*RemoteSession, error)
	Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error)

	ResolveQR(ctx context.Context, code string) (*Unit, error)
	VerifyEmployee(ctx context.Context, employeeID string) (*Employee, string, error)
}
