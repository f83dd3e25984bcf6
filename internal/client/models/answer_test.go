package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectAnswer(t *testing.T) {
	cases := []struct {
		raw  string
		kind AnswerKind
		str  string
	}{
		{"2026-03-14", AnswerDate, "2026-03-14"},
		{"1250", AnswerNum, "1250"},
		{"3.5", AnswerNum, "3.5"},
		{"  42 ", AnswerNum, "42"},
		{"ok, minor wear", AnswerText, "ok, minor wear"},
		{"2026-3-14", AnswerText, "2026-3-14"}, // not ISO shaped
		{"", AnswerText, ""},
	}
	for _, tc := range cases {
		a := DetectAnswer(tc.raw)
		assert.Equal(t, tc.kind, a.Kind(), "raw %q", tc.raw)
		assert.Equal(t, tc.str, a.String(), "raw %q", tc.raw)
	}
}

func TestAnswerKindPrecedence(t *testing.T) {
	assert.Equal(t, AnswerText, Answer{}.Kind())
	assert.Equal(t, AnswerNum, NumAnswer(1).Kind())
	assert.Equal(t, AnswerDate, DateAnswer("2026-01-01").Kind())
}
