// Package hint generates inactivity hints from the current code text.
// The heuristic is pure and deterministic so the debounced auto-hint path
// never needs an LLM round-trip.
package hint

import (
	"strings"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

const (
	minLength        = 20
	genericTierLimit = 50
	structuralLimit  = 200
)

var sequenceTerms = []string{
	"array", "list", "string", "sequence", "nums", "elements",
	"characters", "digits", "matrix", "subarray", "substring",
}

var loopKeywords = []string{"for ", "for(", "while ", "while("}

// Candidates returns the ordered hint candidates for the given code, from
// most to least specific within the matched tier. An empty slice means the
// code is too short to hint on.
func Candidates(code string, p problem.Problem) []string {
	trimmed := strings.TrimSpace(code)
	n := len(trimmed)

	switch {
	case n < minLength:
		return nil
	case n < genericTierLimit:
		return genericHints()
	case n < structuralLimit:
		return structuralHints(trimmed, p)
	default:
		return polishHints()
	}
}

// Pick returns the surfaced hint: the first candidate, or "" when there is
// nothing to suggest.
func Pick(code string, p problem.Problem) string {
	candidates := Candidates(code, p)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func genericHints() []string {
	return []string{
		"Start by making sure you understand the input and output formats.",
		"Think about which data structure fits this problem best.",
		"Write out the function signature before filling in the logic.",
	}
}

func structuralHints(code string, p problem.Problem) []string {
	lower := strings.ToLower(code)
	statement := strings.ToLower(p.Statement + " " + p.Title)

	var hints []string

	if mentionsSequence(statement) && !containsAny(lower, loopKeywords) {
		hints = append(hints, "This problem works over a sequence of values — you probably need a loop to visit each one.")
	}
	if !strings.Contains(lower, "if ") && !strings.Contains(lower, "if(") {
		hints = append(hints, "Consider what conditions your solution needs to check — an if statement may be missing.")
	}
	if !strings.Contains(lower, "return") {
		hints = append(hints, "Don't forget to return your result from the function.")
	}
	if len(hints) == 0 {
		hints = append(hints, "You're making progress — trace through the first example by hand to check your logic.")
	}
	return hints
}

func polishHints() []string {
	return []string{
		"Try running your solution against the provided examples.",
		"Think about edge cases: empty input, a single element, duplicates.",
		"Review the time and space complexity of your approach — can it be improved?",
	}
}

func mentionsSequence(statement string) bool {
	for _, term := range sequenceTerms {
		if strings.Contains(statement, term) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
