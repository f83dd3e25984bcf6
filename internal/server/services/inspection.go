// Package services holds the server's business layer between the HTTP
// handlers and the repositories.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/logging"
	"github.com/cesworks/fieldcheck/internal/server/models"
	"github.com/cesworks/fieldcheck/internal/server/render"
	"github.com/cesworks/fieldcheck/internal/server/repositories/repomanager"
	"github.com/cesworks/fieldcheck/internal/server/worker"
)

// TaskEnqueuer is the slice of asynq.Client the finalize path needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type InspectionService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	tasks   TaskEnqueuer
	log     logging.Logger
	baseURL string
}

func NewInspectionService(db *sql.DB, rm repomanager.RepositoryManager, tasks TaskEnqueuer, log logging.Logger, baseURL string) *InspectionService {
	return &InspectionService{db: db, rm: rm, tasks: tasks, log: log, baseURL: strings.TrimRight(baseURL, "/")}
}

// Start registers a session id, minting one when the client did not. The
// call is idempotent: a repeated start of the same id reports reused.
func (s *InspectionService) Start(ctx context.Context, sessionID, code, employeeID string) (string, bool, error) {
	if sessionID == "" {
		sessionID = common.MintSessionID()
	}
	reused, err := s.rm.Inspections(s.db).Start(ctx, sessionID, code, employeeID)
	if err != nil {
		return "", false, err
	}
	return sessionID, reused, nil
}

// sessionBody is the part of the upsert payload the server interprets; the
// rest of the object is stored verbatim.
type sessionBody struct {
	SessionID  string                     `json:"sessionId"`
	Code       string                     `json:"code"`
	EmployeeID string                     `json:"employeeId"`
	Answers    map[string]json.RawMessage `json:"answers"`
}

// Upsert merges one session payload. The row merge and the exploded answers
// land in a single transaction so a replayed payload is a no-op, never a
// half-write.
func (s *InspectionService) Upsert(ctx context.Context, body json.RawMessage) error {
	var head sessionBody
	if err := json.Unmarshal(body, &head); err != nil {
		return fmt.Errorf("%w: malformed session payload: %v", common.ErrValidation, err)
	}
	if head.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		insp, err := s.rm.Inspections(tx).Upsert(ctx, head.SessionID, head.Code, head.EmployeeID, body)
		if err != nil {
			return err
		}

		answerRepo := s.rm.Answers(tx)
		for key, raw := range head.Answers {
			a, err := explodeAnswer(insp.ID, key, raw)
			if err != nil {
				return fmt.Errorf("%w: answer %s: %v", common.ErrValidation, key, err)
			}
			if err := answerRepo.Upsert(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertPhotoFolder records a folder association. It deliberately does not
// require the session row to exist yet: the association may be delivered
// before the first session upsert and must not be lost for it.
func (s *InspectionService) UpsertPhotoFolder(ctx context.Context, sessionID, kind, folderURL string) error {
	if sessionID == "" || kind == "" || folderURL == "" {
		return fmt.Errorf("%w: sessionId, kind and folderUrl are required", common.ErrValidation)
	}
	return s.rm.Photos(s.db).Upsert(ctx, sessionID, kind, folderURL)
}

// Get returns the stored session and its photo folders.
func (s *InspectionService) Get(ctx context.Context, sessionID string) (*models.Inspection, []models.PhotoFolder, error) {
	insp, err := s.rm.Inspections(s.db).GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	folders, err := s.rm.Photos(s.db).ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return insp, folders, nil
}

// Finalize stamps the session submitted and queues the summary email. The
// stamp survives repeats; only the first call enqueues.
func (s *InspectionService) Finalize(ctx context.Context, sessionID string, sendTo []string) (*models.Inspection, string, error) {
	insp, err := s.rm.Inspections(s.db).GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	already := insp.SubmittedAt.Valid

	insp, err = s.rm.Inspections(s.db).SetSubmitted(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	summaryURL := fmt.Sprintf("%s/api/inspections/%s/summary", s.baseURL, sessionID)

	if !already && len(sendTo) > 0 && s.tasks != nil {
		task, err := worker.NewSummaryEmailTask(sessionID, sendTo)
		if err != nil {
			return nil, "", err
		}
		if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
			// The inspection is submitted either way; the email is best
			// effort and operators can resend from the summary page.
			s.log.Error(ctx, "summary email not queued", "sessionID", sessionID, "err", err)
		}
	}
	return insp, summaryURL, nil
}

// RenderSummary renders the summary page for a stored session. It backs
// both the summary endpoint and the email worker.
func (s *InspectionService) RenderSummary(ctx context.Context, sessionID string) ([]byte, error) {
	insp, folders, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := render.Build(insp, folders)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.Summary(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseDate parses the answers' date leg.
func parseDate(v string) (sql.NullTime, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// explodeAnswer maps one tri-state answer JSON into its row form.
func explodeAnswer(inspectionID int64, key string, raw json.RawMessage) (models.Answer, error) {
	var v struct {
		Text *string  `json:"text"`
		Num  *float64 `json:"num"`
		Date *string  `json:"date"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.Answer{}, err
	}

	a := models.Answer{InspectionID: inspectionID, BindKey: key}
	switch {
	case v.Text != nil:
		a.TextValue = sql.NullString{String: *v.Text, Valid: true}
	case v.Num != nil:
		a.NumValue = sql.NullFloat64{Float64: *v.Num, Valid: true}
	case v.Date != nil:
		d, err := parseDate(*v.Date)
		if err != nil {
			return models.Answer{}, err
		}
		a.DateValue = d
	default:
		return models.Answer{}, fmt.Errorf("no value set")
	}
	return a, nil
}
