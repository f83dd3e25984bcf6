package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/logging"
	"github.com/cesworks/fieldcheck/internal/server/repositories/repomanager"
	"github.com/cesworks/fieldcheck/internal/server/storage"
)

type PhotoService struct {
	db    *sql.DB
	rm    repomanager.RepositoryManager
	store storage.PhotoStore
	log   logging.Logger
}

func NewPhotoService(db *sql.DB, rm repomanager.RepositoryManager, store storage.PhotoStore, log logging.Logger) *PhotoService {
	return &PhotoService{db: db, rm: rm, store: store, log: log}
}

// Upload stores one photo and records the folder association right away.
// Clients queue their own association upsert as well; both land on the same
// unique triple so the duplicate is absorbed.
func (s *PhotoService) Upload(ctx context.Context, sessionID, kind, filename string, content []byte) (string, error) {
	if sessionID == "" || kind == "" {
		return "", fmt.Errorf("%w: sessionId and kind are required", common.ErrValidation)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}

	folderURL, err := s.store.Put(ctx, sessionID, kind, filename, content)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	if err := s.rm.Photos(s.db).Upsert(ctx, sessionID, kind, folderURL); err != nil {
		// The object is stored and the client will retry the association;
		// surface the failure as transient.
		return "", err
	}

	s.log.Info(ctx, "photo stored", "sessionID", sessionID, "kind", kind,
		"filename", filename, "bytes", len(content))
	return folderURL, nil
}
