// Package cli wires the field client: local store, submission queue, sync
// engine and workflow gate behind one command per page of the flow.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/cesworks/fieldcheck/internal/client/api"
	"github.com/cesworks/fieldcheck/internal/client/config"
	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/queue"
	"github.com/cesworks/fieldcheck/internal/client/store"
	syncx "github.com/cesworks/fieldcheck/internal/client/sync"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
	"github.com/cesworks/fieldcheck/internal/logging"
	"github.com/cesworks/fieldcheck/internal/token"
)

// App carries the assembled client. One App lives for one command
// invocation; the local database is the state shared between invocations.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	db     *sql.DB
	store  store.Store
	queue  queue.Queue
	client api.Client
	engine *syncx.Engine
	gate   *workflow.Gate
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr)

	a := &App{cfg: cfg, log: log}

	db, err := store.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		// Degraded mode: the session continues in memory only.
		log.Warn(ctx, "local database unavailable, state will not survive exit", "err", err)
		a.store = store.NewMemoryStore()
		a.queue = queue.NewMemoryQueue()
	} else {
		a.db = db
		a.store = store.NewSQLiteStore(db, log)
		a.queue = queue.NewSQLiteQueue(db)
	}

	a.client = api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)
	a.engine = syncx.NewEngine(a.queue, a.store, a.client, log)
	a.gate = workflow.NewGate(token.NewHMACVerifier(cfg.VerifySecret))
	return a, nil
}

// Watch runs the connectivity watcher until ctx is canceled, flushing the
// queue on every offline-to-online transition.
func (a *App) Watch(ctx context.Context) error {
	w := syncx.NewWatcher(a.engine, a.cfg.OnlineCheckInterval)
	w.Run(ctx)
	return nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// EnterPage runs the workflow gate for a page. A redirect is surfaced as an
// error telling the user which command to run; if a one-shot verified token
// satisfied the employee stage, the marker is persisted here so the token
// is consumed exactly once.
func (a *App) EnterPage(ctx context.Context, page workflow.Page, verifiedToken string) (models.Snapshot, error) {
	snap, err := a.store.Read(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("read local state: %w", err)
	}

	d := a.gate.Evaluate(snap, page, verifiedToken)
	if d.ConsumedToken {
		snap, err = a.store.Write(ctx, models.Patch{"employeeVerified": true})
		if err != nil && !isDegraded(err) {
			return models.Snapshot{}, err
		}
	}
	if !d.Allow {
		return snap, &RedirectError{To: d.RedirectTo, Params: d.Params}
	}
	return snap, nil
}

// RedirectError is the gate's redirect carried through the CLI: normal
// control flow rendered as a next-command hint.
type RedirectError struct {
	To     workflow.Page
	Params map[string]string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("not here yet: run %q first", commandFor(e.To))
}

func commandFor(p workflow.Page) string {
	switch p {
	case workflow.PageVerify:
		return "fieldcheck verify"
	case workflow.PageMode:
		return "fieldcheck scan"
	case workflow.PageLocation:
		return "fieldcheck locate"
	case workflow.PagePolicy:
		return "fieldcheck policy"
	case workflow.PageStart:
		return "fieldcheck start"
	case workflow.PageMain:
		return "fieldcheck save"
	case workflow.PagePhotos:
		return "fieldcheck photo"
	case workflow.PageSummary:
		return "fieldcheck finalize"
	}
	return "fieldcheck status"
}
