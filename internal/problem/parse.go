package problem

import (
	"bufio"
	"regexp"
	"strings"
)

var exampleHeaderRe = regexp.MustCompile(`(?i)^\s*Example\s+\d+\s*:?\s*$`)

// ParsePasted extracts a Problem from pasted statement text.
//
// Parsing is best-effort: the first non-empty line becomes the title, the
// text before the first "Example N:" header becomes the statement, and each
// example block contributes one test case from its "Input:" and "Output:"
// lines, in the order the blocks appear. A paste with no recognizable
// examples still yields a Problem with an empty test-case list.
func ParsePasted(text string) Problem {
	p := Problem{
		Difficulty: DifficultyMedium,
		Source:     "paste",
	}

	lines := readLines(text)

	var statement []string
	var current *TestCase
	inExamples := false

	flush := func() {
		if current != nil {
			p.TestCases = append(p.TestCases, *current)
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if exampleHeaderRe.MatchString(trimmed) {
			flush()
			current = &TestCase{}
			inExamples = true
			continue
		}

		if current != nil {
			if v, ok := labeledValue(trimmed, "Input:"); ok {
				current.Input = v
				continue
			}
			if v, ok := labeledValue(trimmed, "Output:"); ok {
				current.Expected = v
				continue
			}
			// Explanation lines and blanks inside a block are ignored.
			continue
		}

		if !inExamples {
			if p.Title == "" && trimmed != "" {
				p.Title = trimmed
				continue
			}
			statement = append(statement, line)
		}
	}
	flush()

	p.Statement = strings.TrimSpace(strings.Join(statement, "\n"))
	if p.Title == "" {
		p.Title = "Untitled Problem"
	}
	return p
}

func labeledValue(line, label string) (string, bool) {
	if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
		return strings.TrimSpace(line[len(label):]), true
	}
	return "", false
}

func readLines(text string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
