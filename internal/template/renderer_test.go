// File: internal/template/renderer_test.go
package template

import (
	"strings"
	"testing"

	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
)

func TestRenderThreeSectionStructure(t *testing.T) {
	prompt := RenderThreeSection("the raw notes", "Name:\nDate:", "", false)

	raw, ok := content.RawSection(prompt)
	if !ok || raw != "the raw notes" {
		t.Fatalf("raw material should appear verbatim: %q", raw)
	}
	structure, ok := content.TemplateSection(prompt)
	if !ok || structure != "Name:\nDate:" {
		t.Fatalf("target structure should appear verbatim: %q", structure)
	}
	if !strings.Contains(prompt, "Not specified in source") {
		t.Fatal("instruction list must name the missing-field sentinel")
	}
	if !strings.Contains(prompt, "precise extraction and formatting assistant") {
		t.Fatal("preamble missing")
	}
}

func TestExampleBlockOnlyWhenEnabled(t *testing.T) {
	withExample := RenderThreeSection("raw", "structure", "the worked example", true)
	withoutFlag := RenderThreeSection("raw", "structure", "the worked example", false)
	withoutContent := RenderThreeSection("raw", "structure", "", true)

	header := "Example of Desired Output Format"
	if !strings.Contains(withExample, header) || !strings.Contains(withExample, "the worked example") {
		t.Fatal("enabled example should render its block")
	}
	if strings.Contains(withoutFlag, header) {
		t.Fatal("useExample=false must suppress the block even with content present")
	}
	if strings.Contains(withoutContent, header) {
		t.Fatal("empty example content must suppress the block")
	}

	// The block sits between the template section and the instructions.
	exampleAt := strings.Index(withExample, header)
	templateAt := strings.Index(withExample, content.SectionTemplateClose)
	instructionsAt := strings.Index(withExample, "INSTRUCTIONS:")
	if !(templateAt < exampleAt && exampleAt < instructionsAt) {
		t.Fatalf("example block out of position: template=%d example=%d instructions=%d",
			templateAt, exampleAt, instructionsAt)
	}
}

func TestRenderStandardFrame(t *testing.T) {
	tmpl := &domain.StyleTemplate{
		Name:          "ProEmail",
		Type:          domain.TemplateTypeStandard,
		InputExample:  "hey can we meet",
		OutputExample: "Dear colleague,",
	}
	prompt := RenderStandard(tmpl, "yo reschedule pls")

	for _, want := range []string{
		"[STYLE TEMPLATE: @ProEmail]",
		"LEARNING PATTERN:",
		`Input Example: """hey can we meet"""`,
		`Output Example: """Dear colleague,"""`,
		"NEW INPUT TO TRANSFORM:",
		"yo reschedule pls",
		"f(x)=y",
		"DO NOT USE EMOJIS",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("frame missing %q in:\n%s", want, prompt)
		}
	}
}

func TestCachedPromptUsesOwnExamples(t *testing.T) {
	tmpl := &domain.StyleTemplate{
		Name: "MeetingMinutes",
		Type: domain.TemplateTypeThreeSection,
		ThreeSection: &domain.ThreeSectionSpec{
			RawMaterial: domain.SlotSpec{Example: "call notes"},
			Template:    domain.SlotSpec{Example: "Attendees:"},
			ExampleOutput: &domain.ExampleOutput{
				Content: "Attendees: Sam",
				Enabled: true,
			},
		},
	}
	prompt := CachedPrompt(tmpl)
	raw, _ := content.RawSection(prompt)
	if raw != "call notes" {
		t.Fatalf("cached prompt should use the template's own raw example, got %q", raw)
	}
	if !strings.Contains(prompt, "Attendees: Sam") {
		t.Fatal("enabled example output should be included")
	}
}

func TestStarterSetAndResolution(t *testing.T) {
	starter := Starter()
	if len(starter) != 3 {
		t.Fatalf("expected 3 starter templates, got %d", len(starter))
	}

	if got := Resolve(starter, "PROEMAIL"); got == nil || got.Name != "ProEmail" {
		t.Fatalf("mention resolution should be case-insensitive, got %+v", got)
	}
	if got := Resolve(starter, "Nope"); got != nil {
		t.Fatalf("unknown mention should resolve to nil, got %+v", got)
	}

	matches := Filter(starter, "notes")
	if len(matches) != 1 || matches[0].Name != "HistoryNotes" {
		t.Fatalf("substring filter failed: %+v", matches)
	}
	if got := Filter(starter, ""); len(got) != len(starter) {
		t.Fatal("empty partial should match everything")
	}
}
