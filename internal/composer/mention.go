// File: internal/composer/mention.go
package composer

import (
	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/template"
)

// MentionState is the autocomplete sub-state-machine. It is active while
// the caret sits immediately after an @ plus zero or more word characters,
// and tracks a circularly-moving highlight over the filtered template list.
type MentionState struct {
	Active  bool
	Query   string
	Matches []domain.StyleTemplate
	Index   int
}

// Update recomputes the autocomplete state from the current text. The list
// filters known templates by case-insensitive substring match on name. When
// the trailing mention disappears the state deactivates.
func (m *MentionState) Update(text string, templates []domain.StyleTemplate) {
	query, ok := content.TrailingMention(text)
	if !ok {
		m.Dismiss()
		return
	}
	m.Active = true
	m.Query = query
	m.Matches = template.Filter(templates, query)
	if m.Index >= len(m.Matches) {
		m.Index = 0
	}
}

// Move steps the highlighted index by delta, wrapping circularly.
func (m *MentionState) Move(delta int) {
	if !m.Active || len(m.Matches) == 0 {
		return
	}
	n := len(m.Matches)
	m.Index = ((m.Index+delta)%n + n) % n
}

// Commit accepts the highlighted template (Enter or Tab). It returns the
// template and the text with the @partial removed; ok is false when nothing
// is highlighted. Standard templates become a chip; three-section templates
// open the invocation form instead, which is the caller's concern.
func (m *MentionState) Commit(text string) (domain.StyleTemplate, string, bool) {
	if !m.Active || len(m.Matches) == 0 {
		return domain.StyleTemplate{}, text, false
	}
	chosen := m.Matches[m.Index]
	stripped := content.StripTrailingMention(text)
	m.Dismiss()
	return chosen, stripped, true
}

// Dismiss closes the list without altering the text (Escape).
func (m *MentionState) Dismiss() {
	m.Active = false
	m.Query = ""
	m.Matches = nil
	m.Index = 0
}
