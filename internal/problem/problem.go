// Package problem defines coding problems, their test cases, and the
// sources they are loaded from.
package problem

import "strings"

// Difficulty buckets problems the way the catalog labels them.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes a difficulty label, defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// TestCase is one input/expected-output pair.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Problem is a coding problem a session works on.
type Problem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Statement  string     `json:"statement"`
	TestCases  []TestCase `json:"testCases"`
	Source     string     `json:"source"`
}
