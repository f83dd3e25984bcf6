package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/common"
)

// isDegraded reports whether a store write only failed to persist; the
// merged value is still valid and the flow keeps going.
func isDegraded(err error) bool {
	return errors.Is(err, common.ErrDegraded)
}

// sessionBody encodes the full snapshot as the upsert payload. Sending the
// whole snapshot keeps every queued save self-contained: replaying an older
// job can only re-assert values, never clear ones a newer job wrote.
func sessionBody(s models.Snapshot) (json.RawMessage, error) {
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session body: %w", err)
	}
	return buf, nil
}
