// File: internal/content/markers.go

// Package content implements the structured markers embedded in message
// bodies. The wire format is shared with previously stored messages, so the
// build and parse sides must round-trip exactly.
package content

import (
	"regexp"
	"strings"
)

// Marker strings. These are part of the stored message format and must not
// change.
const (
	MarkerContext   = "[CONTEXT/MATERIAL]"
	MarkerUserQuery = "[USER_QUERY]"
	MarkerAppended  = "[APPENDED_CONTEXT]"

	SectionRawOpen       = "[SECTION_RAW]"
	SectionRawClose      = "[/SECTION_RAW]"
	SectionTemplateOpen  = "[SECTION_TEMPLATE]"
	SectionTemplateClose = "[/SECTION_TEMPLATE]"

	snippetDivider = "\n---\n"
)

// WrapContext prepends side-panel material to a user query as a structured
// two-part body.
func WrapContext(material, query string) string {
	var sb strings.Builder
	sb.WriteString(MarkerContext)
	sb.WriteString("\n")
	sb.WriteString(material)
	sb.WriteString("\n\n")
	sb.WriteString(MarkerUserQuery)
	sb.WriteString("\n")
	sb.WriteString(query)
	return sb.String()
}

// ParseContext splits a context-wrapped body back into material and query.
// ok is false when the body does not use the wrapper.
func ParseContext(body string) (material, query string, ok bool) {
	rest, found := strings.CutPrefix(body, MarkerContext+"\n")
	if !found {
		return "", "", false
	}
	material, query, found = strings.Cut(rest, "\n\n"+MarkerUserQuery+"\n")
	if !found {
		return "", "", false
	}
	return material, query, true
}

// AppendSnippets attaches oversized pasted snippets under the appended
// context marker, each separated by a divider. With no snippets the text is
// returned unchanged.
func AppendSnippets(text string, snippets []string) string {
	if len(snippets) == 0 {
		return text
	}
	return text + "\n\n" + MarkerAppended + "\n" + strings.Join(snippets, snippetDivider)
}

// ParseSnippets splits an appended-context body back into the base text and
// its snippets.
func ParseSnippets(body string) (text string, snippets []string) {
	text, rest, found := strings.Cut(body, "\n\n"+MarkerAppended+"\n")
	if !found {
		return body, nil
	}
	return text, strings.Split(rest, snippetDivider)
}

// Section extracts the text between a delimiter pair. ok is false when
// either delimiter is missing or they are out of order; the section itself
// is returned verbatim with its surrounding newlines trimmed.
func Section(body, open, close string) (string, bool) {
	start := strings.Index(body, open)
	if start < 0 {
		return "", false
	}
	start += len(open)
	end := strings.Index(body[start:], close)
	if end < 0 {
		return "", false
	}
	section := body[start : start+end]
	section = strings.TrimPrefix(section, "\n")
	section = strings.TrimSuffix(section, "\n")
	return section, true
}

// RawSection extracts the raw-material section of a three-section body.
func RawSection(body string) (string, bool) {
	return Section(body, SectionRawOpen, SectionRawClose)
}

// TemplateSection extracts the target-structure section of a three-section
// body.
func TemplateSection(body string) (string, bool) {
	return Section(body, SectionTemplateOpen, SectionTemplateClose)
}

var (
	mentionRe  = regexp.MustCompile(`@(\w+)`)
	trailingRe = regexp.MustCompile(`@(\w*)$`)
)

// FirstMention returns the first @word token in the text.
func FirstMention(text string) (string, bool) {
	m := mentionRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TrailingMention returns the partial mention under the caret, i.e. an @
// plus zero or more word characters at the end of the text with no
// intervening whitespace. Drives the autocomplete list.
func TrailingMention(text string) (string, bool) {
	m := trailingRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StripTrailingMention removes the partial @mention from the end of the
// text, used when a highlighted template is committed.
func StripTrailingMention(text string) string {
	return trailingRe.ReplaceAllString(text, "")
}
