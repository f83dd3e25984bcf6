package models

import (
	"encoding/json"
	"fmt"
)

// JobKind tags the persisted form of a queue job.
type JobKind string

const (
	JobUpsert JobKind = "upsert"
	JobUpload JobKind = "upload"
)

// Target operation names for upsert jobs.
const (
	OpSessionUpsert     = "session_upsert"
	OpPhotoFolderUpsert = "photo_folder_upsert"
)

// NaturalKey is the business key the server deduplicates on. For session
// upserts only SessionID is set; photo-folder upserts carry the full triple.
type NaturalKey struct {
	SessionID string `json:"sessionId"`
	Kind      string `json:"kind,omitempty"`
	URL       string `json:"url,omitempty"`
}

func (k NaturalKey) String() string {
	if k.Kind == "" {
		return k.SessionID
	}
	return fmt.Sprintf("%s/%s/%s", k.SessionID, k.Kind, k.URL)
}

// JobPayload is the sealed union of queue job bodies. The sync engine type
// switches over it; adding a variant without extending the dispatcher is a
// compile-time hole, not a silent string mismatch.
type JobPayload interface {
	kind() JobKind
}

// UpsertJob delivers a JSON body to a named upsert operation.
type UpsertJob struct {
	Op   string          `json:"op"`
	Key  NaturalKey      `json:"key"`
	Body json.RawMessage `json:"body,omitempty"`
}

// UploadJob delivers a photo binary as a multipart write. Content is inlined
// so the job stays replayable after a restart even if the source file moved.
type UploadJob struct {
	SessionID string `json:"sessionId"`
	Kind      string `json:"kind"`
	Filename  string `json:"filename"`
	Content   []byte `json:"content"`
}

func (UpsertJob) kind() JobKind { return JobUpsert }
func (UploadJob) kind() JobKind { return JobUpload }

// QueueJob is one pending write, as stored.
type QueueJob struct {
	ID         string
	Seq        int64
	Kind       JobKind
	Attempts   int
	EnqueuedAt int64
	Upsert     *UpsertJob
	Upload     *UploadJob
}

// Payload returns the populated variant.
func (j QueueJob) Payload() (JobPayload, error) {
	switch j.Kind {
	case JobUpsert:
		if j.Upsert == nil {
			return nil, fmt.Errorf("job %s: missing upsert payload", j.ID)
		}
		return *j.Upsert, nil
	case JobUpload:
		if j.Upload == nil {
			return nil, fmt.Errorf("job %s: missing upload payload", j.ID)
		}
		return *j.Upload, nil
	}
	return nil, fmt.Errorf("job %s: unknown kind %q", j.ID, j.Kind)
}

// NaturalKey returns the job's idempotency key.
func (j QueueJob) NaturalKey() NaturalKey {
	switch {
	case j.Upsert != nil:
		return j.Upsert.Key
	case j.Upload != nil:
		return NaturalKey{SessionID: j.Upload.SessionID, Kind: j.Upload.Kind}
	}
	return NaturalKey{}
}

// MarshalPayload serializes the populated variant for storage.
func (j QueueJob) MarshalPayload() ([]byte, error) {
	p, err := j.Payload()
	if err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// UnmarshalPayload restores the variant from its stored form.
func (j *QueueJob) UnmarshalPayload(data []byte) error {
	switch j.Kind {
	case JobUpsert:
		var p UpsertJob
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("job %s: decode upsert payload: %w", j.ID, err)
		}
		j.Upsert = &p
	case JobUpload:
		var p UploadJob
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("job %s: decode upload payload: %w", j.ID, err)
		}
		j.Upload = &p
	default:
		return fmt.Errorf("job %s: unknown kind %q", j.ID, j.Kind)
	}
	return nil
}

// DeadJob is a job that exceeded the attempt ceiling or was rejected by
// server-side validation; it requires manual resolution.
type DeadJob struct {
	QueueJob
	Reason   string
	FailedAt int64
}
