package normalize

import (
	"testing"

	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
)

func rawPara(id, text string, children ...notion.Block) notion.Block {
	return notion.Block{
		Object:      "block",
		ID:          id,
		Type:        "paragraph",
		HasChildren: len(children) > 0,
		Paragraph: &notion.RichTextPayload{RichText: []notion.RichText{
			{Type: "text", PlainText: text, Text: &notion.TextContent{Content: text}},
		}},
		Children: children,
	}
}

func TestBlocks_NestingRoundTrips(t *testing.T) {
	raw := []notion.Block{
		rawPara("a", "top",
			rawPara("b", "mid-1", rawPara("c", "leaf")),
			rawPara("d", "mid-2"),
		),
	}
	nodes := Blocks(raw)
	if len(nodes) != 1 {
		t.Fatalf("len = %d, want 1", len(nodes))
	}
	top := nodes[0]
	if len(top.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(top.Children))
	}
	if top.Children[0].Content[0].Text != "mid-1" || top.Children[1].Content[0].Text != "mid-2" {
		t.Errorf("child order not preserved: %+v", top.Children)
	}
	if len(top.Children[0].Children) != 1 || top.Children[0].Children[0].Content[0].Text != "leaf" {
		t.Errorf("grandchild lost: %+v", top.Children[0])
	}
}

func TestBlocks_HeadingsNeverCarryChildren(t *testing.T) {
	raw := []notion.Block{{
		Object:      "block",
		ID:          "h",
		Type:        "heading_2",
		HasChildren: true,
		Heading2:    &notion.RichTextPayload{},
		Children:    []notion.Block{rawPara("x", "stray")},
	}}
	nodes := Blocks(raw)
	if nodes[0].Children != nil {
		t.Errorf("heading node must not keep children: %+v", nodes[0])
	}
}

func TestBlocks_Code(t *testing.T) {
	raw := []notion.Block{{
		Object: "block", ID: "c", Type: "code",
		Code: &notion.CodePayload{
			RichText: []notion.RichText{{Type: "text", PlainText: "x := 1", Text: &notion.TextContent{}}},
			Language: "go",
		},
	}}
	n := Blocks(raw)[0]
	if n.Type != content.BlockCode || n.Language != "go" || n.Content[0].Text != "x := 1" {
		t.Errorf("code node = %+v", n)
	}
}

func TestBlocks_ImageVariantsAndCaption(t *testing.T) {
	external := []notion.Block{{
		Object: "block", ID: "i1", Type: "image",
		Image: &notion.ImagePayload{
			Type:     "external",
			External: &notion.FileURL{URL: "https://img.example/a.png"},
			Caption:  []notion.RichText{{Type: "text", PlainText: "cap", Text: &notion.TextContent{}}},
		},
	}}
	n := Blocks(external)[0]
	if n.Type != content.BlockImage || n.URL != "https://img.example/a.png" {
		t.Errorf("external image = %+v", n)
	}
	if len(n.Caption) != 1 || n.Caption[0].Text != "cap" {
		t.Errorf("caption = %+v", n.Caption)
	}

	hosted := []notion.Block{{
		Object: "block", ID: "i2", Type: "image",
		Image: &notion.ImagePayload{Type: "file", File: &notion.FileURL{URL: "https://files.example/b.jpg"}},
	}}
	if got := Blocks(hosted)[0].URL; got != "https://files.example/b.jpg" {
		t.Errorf("file image url = %q", got)
	}
}

func TestBlocks_DividerAndUnknownKind(t *testing.T) {
	raw := []notion.Block{
		{Object: "block", ID: "d", Type: "divider"},
		{Object: "block", ID: "u", Type: "synced_block"},
	}
	nodes := Blocks(raw)
	if nodes[0].Type != content.BlockDivider || nodes[0].Content != nil {
		t.Errorf("divider = %+v", nodes[0])
	}
	if nodes[1].Type != content.BlockType("synced_block") {
		t.Errorf("unknown kind should pass through opaquely: %+v", nodes[1])
	}
	if nodes[1].Content != nil || nodes[1].Children != nil {
		t.Errorf("opaque node must carry type only: %+v", nodes[1])
	}
}

func TestBlocks_EmptyInput(t *testing.T) {
	if got := Blocks(nil); got != nil {
		t.Errorf("Blocks(nil) = %v, want nil", got)
	}
}
