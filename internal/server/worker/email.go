// Package worker runs the background jobs: the summary email sent after an
// inspection is finalized.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/cesworks/fieldcheck/internal/logging"
)

const TaskTypeSummaryEmail = "email:summary"

// SummaryEmailPayload is the queued task body. Only the session id travels
// through Redis; the summary is rendered fresh at send time.
type SummaryEmailPayload struct {
	SessionID  string   `json:"sessionId"`
	Recipients []string `json:"recipients"`
}

// NewSummaryEmailTask builds the asynq task enqueued by finalize.
func NewSummaryEmailTask(sessionID string, recipients []string) (*asynq.Task, error) {
	payload, err := json.Marshal(SummaryEmailPayload{SessionID: sessionID, Recipients: recipients})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSummaryEmail, payload, asynq.MaxRetry(5)), nil
}

// SummaryRenderer produces the email body for a finalized session.
type SummaryRenderer interface {
	RenderSummary(ctx context.Context, sessionID string) ([]byte, error)
}

// Mailer delivers one message. The SMTP/SES wiring lives behind this so the
// worker stays testable.
type Mailer interface {
	Send(ctx context.Context, from string, to []string, subject string, htmlBody []byte) error
}

// LogMailer logs instead of sending, for environments without a relay.
type LogMailer struct {
	Log logging.Logger
}

func (m *LogMailer) Send(ctx context.Context, from string, to []string, subject string, htmlBody []byte) error {
	m.Log.Info(ctx, "summary email (log only)",
		"from", from, "to", to, "subject", subject, "bytes", len(htmlBody))
	return nil
}

// EmailWorker processes summary email tasks.
type EmailWorker struct {
	renderer SummaryRenderer
	mailer   Mailer
	from     string
	log      logging.Logger
}

func NewEmailWorker(r SummaryRenderer, m Mailer, from string, log logging.Logger) *EmailWorker {
	return &EmailWorker{renderer: r, mailer: m, from: from, log: log}
}

func (w *EmailWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p SummaryEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that does not decode will never decode; skip retries.
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(p.Recipients) == 0 {
		return nil
	}

	body, err := w.renderer.RenderSummary(ctx, p.SessionID)
	if err != nil {
		return fmt.Errorf("render summary for %s: %w", p.SessionID, err)
	}

	subject := fmt.Sprintf("Inspection %s submitted", p.SessionID)
	if err := w.mailer.Send(ctx, w.from, p.Recipients, subject, body); err != nil {
		return fmt.Errorf("send summary for %s: %w", p.SessionID, err)
	}
	w.log.Info(ctx, "summary email sent", "sessionID", p.SessionID, "recipients", len(p.Recipients))
	return nil
}
