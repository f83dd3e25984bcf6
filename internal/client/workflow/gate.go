// Package workflow implements the gate that decides which page of the
// inspection flow the user may reach. It is a pure function of the persisted
// snapshot: no I/O, no clock beyond token expiry checks.
package workflow

import (
	"github.com/cesworks/fieldcheck/internal/client/models"
)

// Stage is the ordered progress ladder. A page may render only when every
// stage strictly before its required stage is satisfied.
type Stage int

const (
	StageUnverified Stage = iota
	StageModeUnselected
	StageLocationPending
	StagePolicyPending
	StageReady
	StageInProgress
	StageFinalized
)

func (s Stage) String() string {
	switch s {
	case StageUnverified:
		return "unverified"
	case StageModeUnselected:
		return "modeUnselected"
	case StageLocationPending:
		return "locationPending"
	case StagePolicyPending:
		return "policyPending"
	case StageReady:
		return "ready"
	case StageInProgress:
		return "inProgress"
	case StageFinalized:
		return "finalized"
	}
	return "unknown"
}

// Page names the screens of the flow, in the order a user walks them.
type Page string

const (
	PageVerify   Page = "verify"
	PageMode     Page = "mode"
	PageLocation Page = "location"
	PagePolicy   Page = "policy"
	PageStart    Page = "start"
	PageMain     Page = "main"
	PagePhotos   Page = "photos"
	PageSummary  Page = "summary"
)

// requiredStage maps each page to the minimum satisfied stage it needs.
var requiredStage = map[Page]Stage{
	PageVerify:   StageUnverified,
	PageMode:     StageModeUnselected,
	PageLocation: StageLocationPending,
	PagePolicy:   StagePolicyPending,
	PageStart:    StageReady,
	PageMain:     StageInProgress,
	PagePhotos:   StageInProgress,
	PageSummary:  StageInProgress,
}

// pageFor reverses the ladder: the page where a given unsatisfied stage is
// resolved.
var pageFor = map[Stage]Page{
	StageUnverified:      PageVerify,
	StageModeUnselected:  PageMode,
	StageLocationPending: PageLocation,
	StagePolicyPending:   PagePolicy,
	StageReady:           PageStart,
	StageInProgress:      PageMain,
	StageFinalized:       PageSummary,
}

// Decision is the gate's verdict. Redirects are normal control flow, not
// errors; Params carries forward the minimal context the target page needs.
type Decision struct {
	Allow      bool
	RedirectTo Page
	Params     map[string]string

	// ConsumedToken is true when a one-shot verified token satisfied the
	// employee stage; the caller must persist the marker so the bypass does
	// not outlive this transition.
	ConsumedToken bool
}

// PageForStage reports the page where the given stage is resolved.
func PageForStage(s Stage) (Page, bool) {
	p, ok := pageFor[s]
	return p, ok
}

// TokenVerifier validates an upstream one-shot verified marker.
type TokenVerifier interface {
	// Verify returns the employee id the token vouches for.
	Verify(token string) (string, error)
}

// Gate evaluates pages against snapshots.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// StageOf derives the current stage from locally persisted facts only.
func StageOf(s models.Snapshot) Stage {
	switch {
	case !s.EmployeeVerified:
		return StageUnverified
	case !s.ModeChosen:
		return StageModeUnselected
	case !s.LocationCaptured:
		return StageLocationPending
	case s.PolicyAcknowledged == nil || !*s.PolicyAcknowledged:
		return StagePolicyPending
	case !s.Started:
		return StageReady
	case !s.Finalized:
		return StageInProgress
	}
	return StageFinalized
}

// Evaluate decides whether the page may render for this snapshot. A
// non-empty verifiedToken is honored for the employee stage alone, and only
// when it validates; it never bypasses later checks.
func (g *Gate) Evaluate(s models.Snapshot, page Page, verifiedToken string) Decision {
	stage := StageOf(s)

	consumed := false
	if stage == StageUnverified && verifiedToken != "" && g.tokens != nil {
		if _, err := g.tokens.Verify(verifiedToken); err == nil {
			// One transition only: the caller persists employeeVerified and
			// discards the token.
			consumed = true
			bypassed := s
			bypassed.EmployeeVerified = true
			stage = StageOf(bypassed)
		}
	}

	need, ok := requiredStage[page]
	if !ok {
		return Decision{RedirectTo: pageFor[stage], Params: carryParams(s)}
	}

	// A finalized inspection only renders its summary; the record persists
	// for resubmission but the fill pages are closed.
	if stage == StageFinalized && page != PageSummary {
		return Decision{RedirectTo: PageSummary, Params: carryParams(s)}
	}

	if stage >= need {
		return Decision{Allow: true, ConsumedToken: consumed}
	}
	return Decision{
		RedirectTo:    pageFor[stage],
		Params:        carryParams(s),
		ConsumedToken: consumed,
	}
}

// carryParams forwards only what the target page needs to keep its context;
// the gate never resets state it does not own.
func carryParams(s models.Snapshot) map[string]string {
	p := map[string]string{}
	if s.SessionID != "" {
		p["sessionId"] = s.SessionID
	}
	if s.Code != "" {
		p["code"] = s.Code
	}
	return p
}
