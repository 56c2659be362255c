// Package persona maps a learner's skill level to the coaching voice used
// when prompting the mentor and evaluation clients. Profiles parameterize
// prompt text only; they never affect control flow.
package persona

import "strings"

// Level is a learner's self-reported skill level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel normalizes a level label, defaulting to intermediate.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner
	case "advanced":
		return LevelAdvanced
	default:
		return LevelIntermediate
	}
}

// Profile describes how the mentor should talk to a learner.
type Profile struct {
	Tone      string
	Approach  string
	HintStyle string
	Focus     string
}

var profiles = map[Level]Profile{
	LevelBeginner: {
		Tone:      "encouraging and patient",
		Approach:  "breaking down concepts into simple, foundational steps",
		HintStyle: "direct and concrete with simple examples",
		Focus:     "understanding basic syntax and logic flow",
	},
	LevelIntermediate: {
		Tone:      "collaborative and challenging",
		Approach:  "guiding towards pattern recognition and optimization",
		HintStyle: "leading questions that promote self-discovery",
		Focus:     "algorithmic thinking and efficiency (time/space complexity)",
	},
	LevelAdvanced: {
		Tone:      "professional and direct, like a tech lead or interviewer",
		Approach:  "challenging with edge cases and advanced optimizations",
		HintStyle: "subtle nudges towards optimal solutions and trade-off discussions",
		Focus:     "deep optimization, complex edge cases, and architectural choices",
	},
}

// ForLevel returns the profile for a level. Unknown levels get the
// intermediate profile.
func ForLevel(level Level) Profile {
	if p, ok := profiles[level]; ok {
		return p
	}
	return profiles[LevelIntermediate]
}
