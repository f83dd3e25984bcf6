package models

import (
	"regexp"
	"strconv"
	"strings"
)

// AnswerKind discriminates the tri-state answer union.
type AnswerKind string

const (
	AnswerText AnswerKind = "text"
	AnswerNum  AnswerKind = "num"
	AnswerDate AnswerKind = "date"
)

// Answer is a scalar form value: exactly one of Text, Num or Date is set.
type Answer struct {
	Text *string  `json:"text,omitempty"`
	Num  *float64 `json:"num,omitempty"`
	Date *string  `json:"date,omitempty"`
}

func TextAnswer(s string) Answer  { return Answer{Text: &s} }
func NumAnswer(f float64) Answer  { return Answer{Num: &f} }
func DateAnswer(d string) Answer  { return Answer{Date: &d} }

func (a Answer) Kind() AnswerKind {
	switch {
	case a.Date != nil:
		return AnswerDate
	case a.Num != nil:
		return AnswerNum
	default:
		return AnswerText
	}
}

// String renders the scalar for display.
func (a Answer) String() string {
	switch {
	case a.Date != nil:
		return *a.Date
	case a.Num != nil:
		return strconv.FormatFloat(*a.Num, 'f', -1, 64)
	case a.Text != nil:
		return *a.Text
	}
	return ""
}

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DetectAnswer normalizes a raw field value into the union: ISO dates become
// date answers, numerics become numbers, everything else stays text.
func DetectAnswer(raw string) Answer {
	raw = strings.TrimSpace(raw)
	if raw != "" && dateShape.MatchString(raw) {
		return DateAnswer(raw)
	}
	if raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumAnswer(f)
		}
	}
	return TextAnswer(raw)
}
