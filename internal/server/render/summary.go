// Package render produces the human-readable inspection summary that is
// linked from the finalize response and attached to the summary email.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/cesworks/fieldcheck/internal/server/models"
)

// SummaryData is everything the summary page shows.
type SummaryData struct {
	SessionID    string
	EmployeeID   string
	SubmittedAt  string
	Fields       []Field
	Answers      []Field
	PhotoFolders []models.PhotoFolder
}

// Field is one label/value line.
type Field struct {
	Label string
	Value string
}

// labeled are the snapshot keys shown as top-level lines, in display order.
// Everything else in the session JSON stays machine-only.
var labeled = []struct{ key, label string }{
	{"displayedUnitId", "Unit"},
	{"unitCategory", "Category"},
	{"unitType", "Type"},
	{"sFormNum", "S-Form"},
	{"jobNumber", "Job"},
	{"employeeName", "Inspected by"},
	{"meterReading", "Meter reading"},
	{"locationLink", "Location"},
	{"safeToOperate", "Safe to operate"},
	{"needsRepair", "Needs repair"},
	{"repairDesc", "Repair description"},
	{"notes", "Notes"},
}

// Build assembles SummaryData from the stored row.
func Build(insp *models.Inspection, folders []models.PhotoFolder) (SummaryData, error) {
	var raw map[string]json.RawMessage
	if len(insp.Data) > 0 {
		if err := json.Unmarshal(insp.Data, &raw); err != nil {
			return SummaryData{}, fmt.Errorf("decode session data: %w", err)
		}
	}

	d := SummaryData{
		SessionID:    insp.SessionID,
		EmployeeID:   insp.EmployeeID,
		PhotoFolders: folders,
	}
	if insp.SubmittedAt.Valid {
		d.SubmittedAt = insp.SubmittedAt.Time.UTC().Format(time.RFC3339)
	}

	for _, l := range labeled {
		if v, ok := raw[l.key]; ok {
			d.Fields = append(d.Fields, Field{Label: l.label, Value: display(v)})
		}
	}

	if rawAnswers, ok := raw["answers"]; ok {
		var answers map[string]json.RawMessage
		if err := json.Unmarshal(rawAnswers, &answers); err == nil {
			keys := make([]string, 0, len(answers))
			for k := range answers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				d.Answers = append(d.Answers, Field{Label: k, Value: answerDisplay(answers[k])})
			}
		}
	}
	return d, nil
}

// display flattens a JSON scalar for the page; everything non-scalar is
// shown as its JSON text.
func display(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var b bool
	if json.Unmarshal(v, &b) == nil {
		if b {
			return "yes"
		}
		return "no"
	}
	return string(v)
}

// answerDisplay shows whichever leg of the tri-state answer is set.
func answerDisplay(v json.RawMessage) string {
	var a struct {
		Text *string  `json:"text"`
		Num  *float64 `json:"num"`
		Date *string  `json:"date"`
	}
	if err := json.Unmarshal(v, &a); err == nil {
		switch {
		case a.Text != nil:
			return *a.Text
		case a.Num != nil:
			return fmt.Sprintf("%g", *a.Num)
		case a.Date != nil:
			return *a.Date
		}
	}
	return string(v)
}

var summaryTmpl = template.Must(template.New("summary").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Inspection {{.SessionID}}</title></head>
<body>
<h1>Inspection {{.SessionID}}</h1>
{{if .SubmittedAt}}<p>Submitted {{.SubmittedAt}}</p>{{end}}
<table>
{{range .Fields}}<tr><th align="left">{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Answers}}<h2>Checklist</h2>
<table>
{{range .Answers}}<tr><th align="left">{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>{{end}}
{{if .PhotoFolders}}<h2>Photos</h2>
<ul>
{{range .PhotoFolders}}<li>{{.Kind}}: <a href="{{.FolderURL}}">{{.FolderURL}}</a></li>
{{end}}</ul>{{end}}
</body>
</html>
`))

// Summary writes the summary page.
func Summary(w io.Writer, d SummaryData) error {
	return summaryTmpl.Execute(w, d)
}
