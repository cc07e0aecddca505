package llm

import (
	"fmt"
	"strings"
)

// maxPromptCandidates caps the candidate list sent in one request.
const maxPromptCandidates = 200

// BuildSystemPrompt states the task and the strict output contract.
func BuildSystemPrompt() string {
	parts := []string{
		"You classify labels extracted from floor-plan exports, sketches and insurance estimates.",
		"For each numbered candidate decide whether it names a real room or living space of a building.",
		"Summary rows, totals, attribute headers, fixtures, furniture, cabinets and object counts are NOT rooms.",
		"When unsure, answer false.",
		"Return ONLY JSON of the form {\"is_room\": [true, false, ...]} with exactly one boolean per candidate, in order.",
		"Never output null and never add other keys.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt lists the candidates with their floor area as a hint.
func BuildUserPrompt(candidates []Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidates (%d):\n", len(candidates))
	for i, c := range candidates {
		if i >= maxPromptCandidates {
			b.WriteString("…(truncated)\n")
			break
		}
		name := strings.TrimSpace(c.Name)
		if len(name) > 120 {
			name = name[:120]
		}
		fmt.Fprintf(&b, "%d. %q (area %.1f sq ft)\n", i+1, name, c.Area)
	}
	return b.String()
}

// BuildClassifyPrompt returns the system and user messages for one batch.
func BuildClassifyPrompt(candidates []Candidate) (system, user string) {
	return BuildSystemPrompt(), BuildUserPrompt(candidates)
}
