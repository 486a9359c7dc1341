// Package normalize maps raw source blocks and rich-text runs onto the
// normalized content model.
package normalize

import (
	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
)

// Tokens converts raw rich-text runs into inline tokens, one token per run,
// in input order. Runs are never merged.
//
// Page mentions become mention tokens carrying the display label plus the raw
// page id for the later resolution pass; every other mention kind (user,
// date, ...) degrades to plain text using its rendered label. Style flags are
// attached only when true and color only when non-default.
func Tokens(runs []notion.RichText) []content.InlineToken {
	if len(runs) == 0 {
		return nil
	}
	out := make([]content.InlineToken, 0, len(runs))
	for _, run := range runs {
		out = append(out, token(run))
	}
	return out
}

func token(run notion.RichText) content.InlineToken {
	if run.Type == "mention" && run.Mention != nil {
		if run.Mention.Type == "page" && run.Mention.Page != nil {
			return content.InlineToken{
				Type:   content.TokenMention,
				Label:  run.PlainText,
				PageID: run.Mention.Page.ID,
			}
		}
		return content.InlineToken{Type: content.TokenText, Text: run.PlainText}
	}

	if run.Type == "text" && run.Text != nil {
		if run.Text.Link != nil {
			return content.InlineToken{
				Type: content.TokenLink,
				Text: run.PlainText,
				URL:  run.Text.Link.URL,
			}
		}
		tok := content.InlineToken{
			Type:          content.TokenText,
			Text:          run.PlainText,
			Bold:          run.Annotations.Bold,
			Italic:        run.Annotations.Italic,
			Strikethrough: run.Annotations.Strikethrough,
			Underline:     run.Annotations.Underline,
		}
		if run.Annotations.Color != "" && run.Annotations.Color != "default" {
			tok.Color = run.Annotations.Color
		}
		return tok
	}

	// Unknown run kind (equation, ...): keep the rendered text.
	return content.InlineToken{Type: content.TokenText, Text: run.PlainText}
}
