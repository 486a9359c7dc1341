package notion

import (
	"strings"

	"github.com/Vikram2Agrawal/notion-sync/internal/content"
)

// Property extractors. Each one reads a single typed value off the page's
// property bag and coerces it to a primitive, degrading to an absent value
// (empty string, nil, false, empty slice) on any missing or mismatched
// property. None of them can fail: the source schema is dynamic and a shape
// surprise must never abort a sync.

// Title concatenates the plain text of the title-typed property, wherever it
// sits in the bag.
func (p Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return plainText(prop.Title)
		}
	}
	return ""
}

// RichTextProp returns the concatenated plain text of a rich_text property.
func (p Page) RichTextProp(name string) string {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "rich_text" {
		return ""
	}
	return plainText(prop.RichText)
}

// CheckboxProp returns a checkbox value, false when absent.
func (p Page) CheckboxProp(name string) bool {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "checkbox" {
		return false
	}
	return prop.Checkbox
}

// SelectProp returns the selected option name, or empty string.
func (p Page) SelectProp(name string) string {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "select" || prop.Select == nil {
		return ""
	}
	return prop.Select.Name
}

// MultiSelectProp returns the selected option names, empty when absent.
func (p Page) MultiSelectProp(name string) []string {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "multi_select" {
		return []string{}
	}
	out := make([]string, 0, len(prop.MultiSelect))
	for _, s := range prop.MultiSelect {
		out = append(out, s.Name)
	}
	return out
}

// URLProp returns a url property value, or empty string.
func (p Page) URLProp(name string) string {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "url" {
		return ""
	}
	return prop.URL
}

// DateProp returns a date range, nil when absent. Start and End are carried
// as opaque strings.
func (p Page) DateProp(name string) *content.DateRange {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "date" || prop.Date == nil {
		return nil
	}
	return &content.DateRange{Start: prop.Date.Start, End: prop.Date.End}
}

// RelationIDs returns the referenced page ids of a relation property, empty
// when absent.
func (p Page) RelationIDs(name string) []string {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "relation" {
		return []string{}
	}
	out := make([]string, 0, len(prop.Relation))
	for _, r := range prop.Relation {
		out = append(out, r.ID)
	}
	return out
}

// NumberProp returns a number property value, nil when absent.
func (p Page) NumberProp(name string) *float64 {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "number" {
		return nil
	}
	return prop.Number
}

// PageIcon returns the page icon as a normalized Icon, nil when absent.
func (p Page) PageIcon() *content.Icon {
	if p.Icon == nil {
		return nil
	}
	if p.Icon.Type == "emoji" && p.Icon.Emoji != "" {
		return &content.Icon{Type: content.IconEmoji, Value: p.Icon.Emoji}
	}
	if u := p.Icon.URL(); u != "" {
		return &content.Icon{Type: content.IconImage, Value: u}
	}
	return nil
}

// CoverURL returns the page cover URL, or empty string.
func (p Page) CoverURL() string {
	return p.Cover.URL()
}

func plainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}
