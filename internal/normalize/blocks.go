package normalize

import (
	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
)

// Blocks converts raw blocks into block nodes, preserving order and nesting
// exactly. Unrecognized kinds pass through as a bare node carrying only the
// source kind string, so new source block kinds never break a sync.
func Blocks(blocks []notion.Block) []content.BlockNode {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]content.BlockNode, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, node(b))
	}
	return out
}

func node(b notion.Block) content.BlockNode {
	children := Blocks(b.Children)

	switch b.Type {
	case "paragraph":
		return textNode(content.BlockParagraph, b.Paragraph, children)
	case "heading_1":
		// Headings never carry children, keeping section boundaries
		// unambiguous.
		return textNode(content.BlockHeading1, b.Heading1, nil)
	case "heading_2":
		return textNode(content.BlockHeading2, b.Heading2, nil)
	case "heading_3":
		return textNode(content.BlockHeading3, b.Heading3, nil)
	case "bulleted_list_item":
		return textNode(content.BlockBulletedListItem, b.BulletedListItem, children)
	case "numbered_list_item":
		return textNode(content.BlockNumberedListItem, b.NumberedListItem, children)
	case "quote":
		return textNode(content.BlockQuote, b.Quote, children)
	case "callout":
		return textNode(content.BlockCallout, b.Callout, children)
	case "code":
		n := content.BlockNode{Type: content.BlockCode}
		if b.Code != nil {
			n.Content = Tokens(b.Code.RichText)
			n.Language = b.Code.Language
		}
		return n
	case "image":
		n := content.BlockNode{Type: content.BlockImage, URL: b.Image.URL()}
		if b.Image != nil {
			n.Caption = Tokens(b.Image.Caption)
		}
		return n
	case "divider":
		return content.BlockNode{Type: content.BlockDivider}
	default:
		// Opaque passthrough for forward compatibility.
		return content.BlockNode{Type: content.BlockType(b.Type)}
	}
}

func textNode(t content.BlockType, payload *notion.RichTextPayload, children []content.BlockNode) content.BlockNode {
	n := content.BlockNode{Type: t, Children: children}
	if payload != nil {
		n.Content = Tokens(payload.RichText)
	}
	return n
}
