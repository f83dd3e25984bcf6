package render

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

func TestBuildPicksLabeledFields(t *testing.T) {
	insp := &models.Inspection{
		SessionID:  "INS-1-A",
		EmployeeID: "12345",
		Data: json.RawMessage(`{
			"displayedUnitId": "U-9",
			"meterReading": "1250",
			"safeToOperate": true,
			"needsRepair": false,
			"internalMarker": "hidden",
			"answers": {"hydraulics": {"text": "ok"}, "hours": {"num": 1250}}
		}`),
	}

	d, err := Build(insp, nil)
	require.NoError(t, err)

	labels := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Unit", "Meter reading", "Safe to operate", "Needs repair"}, labels)
	assert.NotContains(t, labels, "internalMarker")

	// Answers come out sorted by key, tri-state legs flattened.
	require.Len(t, d.Answers, 2)
	assert.Equal(t, Field{Label: "hours", Value: "1250"}, d.Answers[0])
	assert.Equal(t, Field{Label: "hydraulics", Value: "ok"}, d.Answers[1])
}

func TestSummaryGolden(t *testing.T) {
	insp := &models.Inspection{
		SessionID:  "INS-1742913000000-AB12CD",
		EmployeeID: "12345",
		Data: json.RawMessage(`{
			"displayedUnitId": "U-9",
			"meterReading": "1250",
			"safeToOperate": true,
			"needsRepair": false,
			"answers": {"hydraulics": {"text": "ok"}, "hours": {"num": 1250}}
		}`),
		SubmittedAt: sql.NullTime{
			Time:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Valid: true,
		},
	}
	folders := []models.PhotoFolder{
		{Kind: "walk", FolderURL: "https://files.example/inspections/INS-1742913000000-AB12CD/walk/"},
	}

	d, err := Build(insp, folders)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, d))

	g := goldie.New(t)
	g.Assert(t, "summary_basic", buf.Bytes())
}
