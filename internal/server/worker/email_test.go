package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/logging"
)

type fakeRenderer struct {
	body []byte
	err  error
}

func (f *fakeRenderer) RenderSummary(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

type recordingMailer struct {
	from    string
	to      []string
	subject string
	body    []byte
	err     error
}

func (m *recordingMailer) Send(_ context.Context, from string, to []string, subject string, body []byte) error {
	m.from, m.to, m.subject, m.body = from, to, subject, body
	return m.err
}

func TestProcessTaskSendsRenderedSummary(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("<html>summary</html>")}
	mailer := &recordingMailer{}
	w := NewEmailWorker(renderer, mailer, "inspections@example.com", logging.NewNop())

	task, err := NewSummaryEmailTask("INS-1-A", []string{"lead@example.com"})
	require.NoError(t, err)

	require.NoError(t, w.ProcessTask(context.Background(), task))
	assert.Equal(t, "inspections@example.com", mailer.from)
	assert.Equal(t, []string{"lead@example.com"}, mailer.to)
	assert.Contains(t, mailer.subject, "INS-1-A")
	assert.Equal(t, renderer.body, mailer.body)
}

func TestProcessTaskNoRecipientsIsNoop(t *testing.T) {
	mailer := &recordingMailer{}
	w := NewEmailWorker(&fakeRenderer{}, mailer, "x@example.com", logging.NewNop())

	task, err := NewSummaryEmailTask("INS-1-A", nil)
	require.NoError(t, err)

	require.NoError(t, w.ProcessTask(context.Background(), task))
	assert.Empty(t, mailer.to)
}

func TestProcessTaskBadPayloadSkipsRetry(t *testing.T) {
	w := NewEmailWorker(&fakeRenderer{}, &recordingMailer{}, "x@example.com", logging.NewNop())

	err := w.ProcessTask(context.Background(), asynq.NewTask(TaskTypeSummaryEmail, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestProcessTaskRenderFailureRetries(t *testing.T) {
	w := NewEmailWorker(&fakeRenderer{err: fmt.Errorf("db down")}, &recordingMailer{}, "x@example.com", logging.NewNop())

	task, err := NewSummaryEmailTask("INS-1-A", []string{"lead@example.com"})
	require.NoError(t, err)

	err = w.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
