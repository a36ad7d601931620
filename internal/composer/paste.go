// File: internal/composer/paste.go
package composer

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ampersand-labs/homework/internal/domain"
)

// Paste routing thresholds, in characters.
const (
	// SnippetThreshold diverts pasted text into an inline snippet chip.
	SnippetThreshold = 500
	// PanelThreshold diverts pasted text into the side context panel to
	// keep the composer legible.
	PanelThreshold = 4000
)

// PasteTarget says where a paste ended up.
type PasteTarget int

const (
	PasteInline PasteTarget = iota
	PasteSnippet
	PastePanel
)

// Paste routes pasted text by size. Text at or under the snippet threshold
// goes inline at the end of the typed text; larger pastes become a snippet
// chip; pastes over the panel threshold land in the side context panel and
// leave the text field untouched.
func (d *Draft) Paste(text string) PasteTarget {
	n := len([]rune(text))
	switch {
	case n > PanelThreshold:
		if d.ContextPanel == "" {
			d.ContextPanel = text
		} else {
			d.ContextPanel += "\n\n" + text
		}
		return PastePanel
	case n > SnippetThreshold:
		d.Snippets = append(d.Snippets, text)
		return PasteSnippet
	default:
		d.Text += text
		return PasteInline
	}
}

// PasteImage converts clipboard image data into a synthetic self-contained
// attachment named with a timestamp.
func (d *Draft) PasteImage(data []byte, mimeType string) domain.FileAttachment {
	if mimeType == "" {
		mimeType = "image/png"
	}
	att := domain.FileAttachment{
		Name: fmt.Sprintf("pasted-image-%d.png", time.Now().UnixMilli()),
		Type: mimeType,
		Size: int64(len(data)),
		Data: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	d.Files = append(d.Files, att)
	return att
}
