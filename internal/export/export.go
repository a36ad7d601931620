// File: internal/export/export.go

// Package export produces one-way snapshots of the user's data: a full
// JSON bundle for backup, and per-chat Markdown or HTML transcripts for
// sharing. Nothing here is ever imported back.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
)

// Bundle is the full-backup JSON document.
type Bundle struct {
	ExportedAt int64                  `json:"exportedAt"`
	Chats      []domain.Chat          `json:"chats"`
	Templates  []domain.StyleTemplate `json:"templates"`
	Settings   domain.AppSettings     `json:"settings"`
}

// JSON renders the full backup bundle with stable indented encoding.
func JSON(chats []domain.Chat, templates []domain.StyleTemplate, settings domain.AppSettings) ([]byte, error) {
	bundle := Bundle{
		ExportedAt: time.Now().UnixMilli(),
		Chats:      chats,
		Templates:  templates,
		Settings:   settings,
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export bundle: %w", err)
	}
	return data, nil
}

// Markdown renders one chat as a readable transcript. Context-wrapped
// message bodies are unpacked into labeled blocks so the material and the
// query read separately.
func Markdown(chat domain.Chat) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", chat.Title)
	fmt.Fprintf(&sb, "*Created %s*\n\n", formatTime(chat.CreatedAt))

	for _, msg := range chat.Messages {
		switch msg.Role {
		case domain.RoleUser:
			sb.WriteString("## You\n\n")
		case domain.RoleAssistant:
			sb.WriteString("## Assistant\n\n")
		default:
			fmt.Fprintf(&sb, "## %s\n\n", msg.Role)
		}
		writeBody(&sb, msg.Content)
		if len(msg.Attachments) > 0 {
			sb.WriteString("\n*Attachments:*\n")
			for _, a := range msg.Attachments {
				fmt.Fprintf(&sb, "- %s (%s, %d bytes)\n", a.Name, a.Type, a.Size)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// writeBody unwraps the structured markers stored in message content back
// into display form.
func writeBody(sb *strings.Builder, body string) {
	base, snippets := content.ParseSnippets(body)
	if material, query, ok := content.ParseContext(base); ok {
		sb.WriteString("> **Context material:**\n>\n")
		for _, line := range strings.Split(material, "\n") {
			sb.WriteString("> ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(query)
		sb.WriteString("\n")
	} else {
		sb.WriteString(base)
		sb.WriteString("\n")
	}
	for i, snippet := range snippets {
		fmt.Fprintf(sb, "\n*Pasted snippet %d:*\n\n```\n%s\n```\n", i+1, snippet)
	}
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders one chat as a standalone HTML page.
func HTML(chat domain.Chat) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", htmlEscape(chat.Title))
	buf.WriteString("</head>\n<body>\n")
	if err := markdown.Convert([]byte(Markdown(chat)), &buf); err != nil {
		return nil, fmt.Errorf("render chat html: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func formatTime(unixMilli int64) string {
	return time.UnixMilli(unixMilli).UTC().Format("2006-01-02 15:04 UTC")
}
