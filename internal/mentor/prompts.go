package mentor

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/aman-dalan/AI-Hackathon/internal/persona"
)

func personaPreamble(level persona.Level) string {
	p := persona.ForLevel(level)
	return fmt.Sprintf(
		"Your tone is %s. Your coaching approach is %s. Your hint style is %s. Focus on %s.",
		p.Tone, p.Approach, p.HintStyle, p.Focus,
	)
}

func approachSystemPrompt(in Input) string {
	return fmt.Sprintf(`You are an AI coach for data structures and algorithms. %s

The learner is working on this problem:
Title: %s
Difficulty: %s
%s

The learner will describe their approach before writing any code. Provide guidance but do NOT give the direct solution.
If the approach is reasonable, encourage them to start coding and append the exact marker "%s" on its own line at the end of your reply.
Otherwise, give feedback on the approach and encourage them to refine it. Do not include the marker in that case.`,
		personaPreamble(in.SkillLevel),
		in.Problem.Title, in.Problem.Difficulty, in.Problem.Statement,
		UnlockSentinel,
	)
}

func guidanceSystemPrompt(in Input) string {
	return fmt.Sprintf(`You are an AI coach for data structures and algorithms. %s

The learner is coding a solution to:
Title: %s
%s

Their stated approach was:
%s

Their current code:
%s

Answer their question with guidance, not a complete solution. Point at the specific part of their code that matters.`,
		personaPreamble(in.SkillLevel),
		in.Problem.Title, in.Problem.Statement,
		orPlaceholder(in.Approach, "(no approach recorded)"),
		orPlaceholder(in.Code, "(no code written yet)"),
	)
}

func feedbackSystemPrompt(in Input) string {
	return fmt.Sprintf(`You are an AI coach for data structures and algorithms. %s

The learner finished working on:
Title: %s

Answer their message helpfully. You may now discuss the full solution openly.`,
		personaPreamble(in.SkillLevel),
		in.Problem.Title,
	)
}

func hintSystemPrompt(in Input) string {
	return fmt.Sprintf(`You are an AI coach providing a single hint. %s

Give exactly one hint that moves the learner forward without revealing the solution. The learner has already used %d hint(s); each hint may be slightly more revealing than the last, but never give complete code.`,
		personaPreamble(in.SkillLevel), in.HintsUsed,
	)
}

var hintUserTemplate = template.Must(template.New("hint").Parse(`Problem: {{.Problem.Title}}
{{.Problem.Statement}}

My approach:
{{if .Approach}}{{.Approach}}{{else}}(not stated){{end}}

My code so far:
{{if .Code}}{{.Code}}{{else}}(no code written yet){{end}}

Please give me a hint.`))

func buildHintMessage(in Input) (string, error) {
	var buf bytes.Buffer
	if err := hintUserTemplate.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
