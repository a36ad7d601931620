// File: internal/template/starter.go
package template

import (
	"strings"
	"time"

	"github.com/ampersand-labs/homework/internal/domain"
)

// SystemInstruction is the global system prompt for every completion call.
const SystemInstruction = `You are a high-precision AI specialized in "Style Templates".
Your core logic is: f(input) = output, where "f" is a style pattern defined by the user.

RULES:
1. When a user @mentions a template, you MUST extract the transformation logic from the provided Input/Output examples.
2. Analyze:
   - Structure (Prose -> Bullets, Table -> List, etc.)
   - Tone (Formal, Academic, Slang, dense formatting)
   - Compression (Keep all facts vs. Summary)
   - Formatting (Bold keys, specific symbols)
3. Apply that EXACT transformation to the new input.
4. If NO template is used, act as a helpful, world-class assistant with clear, markdown-formatted responses.
5. Do not talk about the process. Just provide the transformed output unless the user asks a clarifying question.
6. DO NOT USE EMOJIS UNDER ANY CIRCUMSTANCES.
7. CRITICAL: Do not hallucinate data. If you cannot find the answer in the provided context (e.g. YouTube transcript), explicitly state: "I cannot find that information in the provided context." DO NOT make up facts.`

// Starter returns the built-in template set used to seed an empty or
// missing local template collection. A missing collection is never left
// empty.
func Starter() []domain.StyleTemplate {
	now := time.Now().UnixMilli()
	return []domain.StyleTemplate{
		{
			ID:          "t1",
			Name:        "HistoryNotes",
			Description: "Transform textbook pages into structured study notes",
			Icon:        "fa-book",
			Type:        domain.TemplateTypeStandard,
			InputExample: "The French Revolution began in 1789 when King Louis XVI faced a financial crisis. " +
				"The Third Estate, representing commoners, demanded representation. On July 14, the Bastille " +
				"was stormed, marking the beginning of revolutionary violence...",
			OutputExample: "DATE: French Rev - 1789\n- Trigger: Louis XVI $ crisis\n- Key: Third Estate wanted voice\n" +
				"- Bastille Day (July 14) = start of violence\n- Why important: showed people power > monarchy",
			CreatedAt: now,
			UseCount:  12,
		},
		{
			ID:          "t2",
			Name:        "CodeExplainer",
			Description: "Convert complex code into plain English explanations",
			Icon:        "fa-code",
			Type:        domain.TemplateTypeStandard,
			InputExample: "function quicksort(arr) {\n  if (arr.length <= 1) return arr;\n  const pivot = arr[arr.length - 1];\n" +
				"  const left = [];\n  const right = [];\n  for (let i = 0; i < arr.length - 1; i++) {\n" +
				"    if (arr[i] < pivot) left.push(arr[i]);\n    else right.push(arr[i]);\n  }\n" +
				"  return [...quicksort(left), pivot, ...quicksort(right)];\n}",
			OutputExample: "CONCEPT: Quicksort Algorithm\n- Concept: Divide and conquer using a pivot.\n" +
				"- Process: Splits array into smaller (left) and larger (right) elements compared to the pivot.\n" +
				"- Base Case: Return array if length is 0 or 1.\n- Time Complexity: O(n log n) average.",
			CreatedAt: now,
			UseCount:  5,
		},
		{
			ID:          "t3",
			Name:        "ProEmail",
			Description: "Turn casual messages into professional corporate emails",
			Icon:        "fa-envelope",
			Type:        domain.TemplateTypeStandard,
			InputExample: "Hey Sarah, can we move the meeting to Tuesday? Monday is super busy for me and I won't " +
				"have the slides ready by then. Let me know if that works for you.",
			OutputExample: "Subject: Rescheduling Meeting - [Project Name]\n\nDear Sarah,\n\nI hope you are having a " +
				"productive week.\n\nCould we please reschedule our upcoming meeting to Tuesday? My schedule is " +
				"currently at capacity for Monday, and I want to ensure I have the presentation materials finalized " +
				"for our discussion.\n\nPlease let me know if this time works for you.\n\nBest regards,\n[My Name]",
			CreatedAt: now,
			UseCount:  8,
		},
	}
}

// Resolve finds a template by @mention word, case-insensitively. A miss
// degrades silently to "no template applied".
func Resolve(templates []domain.StyleTemplate, word string) *domain.StyleTemplate {
	for i := range templates {
		if templates[i].MatchesMention(word) {
			return &templates[i]
		}
	}
	return nil
}

// Filter returns the templates whose names contain the partial mention,
// case-insensitively, preserving order. Drives the autocomplete list.
func Filter(templates []domain.StyleTemplate, partial string) []domain.StyleTemplate {
	needle := strings.ToLower(partial)
	var out []domain.StyleTemplate
	for _, t := range templates {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}
