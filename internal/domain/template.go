// File: internal/domain/template.go
package domain

import "strings"

// Template kinds. A standard template teaches the model a transformation
// with a single before/after example pair; a three-section template is a
// fill-in-the-blank task built from raw material and a target structure.
const (
	TemplateTypeStandard     = "standard"
	TemplateTypeThreeSection = "three-section"
)

// StyleTemplate is a reusable transformation pattern. Name is the only
// user-facing handle (via @mention), matched case-insensitively, and must
// contain no whitespace.
type StyleTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Type        string `json:"type"`

	// Standard pattern: one learned input/output pair.
	InputExample  string `json:"inputExample,omitempty"`
	OutputExample string `json:"outputExample,omitempty"`

	// Three-section pattern.
	ThreeSection *ThreeSectionSpec `json:"threeSection,omitempty"`

	// Cached preview prompt, rendered at save time from the template's own
	// worked examples. The live prompt is always rebuilt at invocation time.
	SystemPrompt string `json:"systemPrompt,omitempty"`

	CreatedAt  int64 `json:"createdAt"`
	LastUsedAt int64 `json:"lastUsedAt,omitempty"`
	UseCount   int   `json:"useCount"`
}

// ThreeSectionSpec describes the two required input slots of a
// three-section template plus an optional saved example output.
type ThreeSectionSpec struct {
	RawMaterial   SlotSpec       `json:"rawMaterial"`
	Template      SlotSpec       `json:"template"`
	ExampleOutput *ExampleOutput `json:"exampleOutput,omitempty"`
}

// SlotSpec labels one fill-in slot and carries a worked example for the
// save-time preview render.
type SlotSpec struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Example     string `json:"example"`
}

// ExampleOutput is an optional second few-shot anchor for three-section
// invocations.
type ExampleOutput struct {
	Label   string `json:"label"`
	Content string `json:"content"`
	Enabled bool   `json:"enabled"`
}

// MatchesMention reports whether a bare @word token refers to this
// template.
func (t *StyleTemplate) MatchesMention(word string) bool {
	return strings.EqualFold(t.Name, word)
}

// IsThreeSection reports whether the template uses the three-section flow.
func (t *StyleTemplate) IsThreeSection() bool {
	return t.Type == TemplateTypeThreeSection && t.ThreeSection != nil
}

// TemplateUsage is the live input to a three-section invocation. It is
// transient and never persisted.
type TemplateUsage struct {
	TemplateID  string `json:"templateId"`
	RawMaterial string `json:"rawMaterial"`
	Template    string `json:"template"`
	UseExample  bool   `json:"useExample"`
}
