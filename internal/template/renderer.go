// File: internal/template/renderer.go

// Package template turns style template definitions into model prompts. The
// renderers are pure functions, called both at save time (with a template's
// own worked examples, as a cached preview) and at invocation time (with
// live user input).
package template

import (
	"strings"

	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
)

const threeSectionPreamble = `You are a precise extraction and formatting assistant. Your task is to fill a target template using ONLY information from the raw material provided below.`

const exampleOutputHeader = `Example of Desired Output Format (match this format exactly):`

const threeSectionInstructions = `INSTRUCTIONS:
1. Read the raw material carefully.
2. Map each field of the target template to information found in the raw material.
3. Fill in fields using ONLY information from the source material.
4. If a field cannot be filled from the source, write exactly: Not specified in source
5. Preserve the structure of the target template.
6. Do not add commentary, explanations, or extra sections.
7. Output ONLY the filled-in template.`

// RenderThreeSection builds the fill-in prompt for a three-section
// invocation. The example block is emitted only when useExample is true and
// example content is non-empty, between the template section and the
// instruction list.
func RenderThreeSection(rawMaterial, templateStructure, exampleOutput string, useExample bool) string {
	var sb strings.Builder
	sb.WriteString(threeSectionPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(content.SectionRawOpen)
	sb.WriteString("\n")
	sb.WriteString(rawMaterial)
	sb.WriteString("\n")
	sb.WriteString(content.SectionRawClose)
	sb.WriteString("\n\n")
	sb.WriteString(content.SectionTemplateOpen)
	sb.WriteString("\n")
	sb.WriteString(templateStructure)
	sb.WriteString("\n")
	sb.WriteString(content.SectionTemplateClose)
	sb.WriteString("\n\n")
	if useExample && exampleOutput != "" {
		sb.WriteString(exampleOutputHeader)
		sb.WriteString("\n\"\"\"\n")
		sb.WriteString(exampleOutput)
		sb.WriteString("\n\"\"\"\n\n")
	}
	sb.WriteString(threeSectionInstructions)
	return sb.String()
}

// RenderStandard wraps the learned input/output pair and the new input in
// the few-shot instructional frame.
func RenderStandard(t *domain.StyleTemplate, newInput string) string {
	var sb strings.Builder
	sb.WriteString("[STYLE TEMPLATE: @")
	sb.WriteString(t.Name)
	sb.WriteString("]\nLEARNING PATTERN:\n")
	sb.WriteString("Input Example: \"\"\"")
	sb.WriteString(t.InputExample)
	sb.WriteString("\"\"\"\n")
	sb.WriteString("Output Example: \"\"\"")
	sb.WriteString(t.OutputExample)
	sb.WriteString("\"\"\"\n\n")
	sb.WriteString("NEW INPUT TO TRANSFORM:\n\"\"\"")
	sb.WriteString(newInput)
	sb.WriteString("\"\"\"\n\n")
	sb.WriteString("TASK: Apply the learned transformation logic f(x)=y to the NEW INPUT. Output ONLY the result. DO NOT USE EMOJIS.")
	return sb.String()
}

// RenderInvocation builds the live prompt for a three-section usage against
// its template definition.
func RenderInvocation(t *domain.StyleTemplate, usage domain.TemplateUsage) string {
	example := ""
	if t.ThreeSection != nil && t.ThreeSection.ExampleOutput != nil {
		example = t.ThreeSection.ExampleOutput.Content
	}
	return RenderThreeSection(usage.RawMaterial, usage.Template, example, usage.UseExample)
}

// CachedPrompt renders the save-time preview for a template from its own
// worked examples. For standard templates this is the few-shot frame with
// the input example as the new input.
func CachedPrompt(t *domain.StyleTemplate) string {
	if t.IsThreeSection() {
		ts := t.ThreeSection
		example := ""
		useExample := false
		if ts.ExampleOutput != nil {
			example = ts.ExampleOutput.Content
			useExample = ts.ExampleOutput.Enabled
		}
		return RenderThreeSection(ts.RawMaterial.Example, ts.Template.Example, example, useExample)
	}
	return RenderStandard(t, t.InputExample)
}
