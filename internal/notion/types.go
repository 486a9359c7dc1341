// Package notion implements a minimal client for the Notion REST API:
// database queries and block children, paginated, behind a shared admission
// gate. Wire types cover only the fields the pipeline reads; everything else
// in the source schema is ignored rather than rejected.
package notion

// Page is a raw page record returned by a database query.
type Page struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	Icon       *FileOrEmoji        `json:"icon"`
	Cover      *FileOrEmoji        `json:"cover"`
	Properties map[string]Property `json:"properties"`
}

// Full reports whether the record is a fully-populated page. Partial records
// (returned when the integration lacks content capabilities) are dropped.
func (p Page) Full() bool {
	return p.Object == "page" && p.ID != "" && p.Properties != nil
}

// Property is one value in a page's property bag. The source schema is
// dynamic, so every variant field is present and Type selects the live one.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title"`
	RichText    []RichText     `json:"rich_text"`
	Checkbox    bool           `json:"checkbox"`
	Select      *SelectOption  `json:"select"`
	MultiSelect []SelectOption `json:"multi_select"`
	URL         string         `json:"url"`
	Date        *DateValue     `json:"date"`
	Relation    []RelationRef  `json:"relation"`
	Number      *float64       `json:"number"`
}

// SelectOption is a select or multi-select choice.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a raw date property value. Start and End are opaque date
// strings.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RelationRef is one entry in a relation property.
type RelationRef struct {
	ID string `json:"id"`
}

// RichText is one inline run of rich text.
type RichText struct {
	Type        string       `json:"type"`
	PlainText   string       `json:"plain_text"`
	Text        *TextContent `json:"text"`
	Mention     *Mention     `json:"mention"`
	Annotations Annotations  `json:"annotations"`
}

// TextContent is the payload of a text-typed run.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link"`
}

// Link is an inline link target.
type Link struct {
	URL string `json:"url"`
}

// Mention is the payload of a mention-typed run.
type Mention struct {
	Type string   `json:"type"`
	Page *PageRef `json:"page"`
}

// PageRef references another page by id.
type PageRef struct {
	ID string `json:"id"`
}

// Annotations carries styling flags for a rich-text run.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// FileOrEmoji is a page icon or cover: an emoji, an externally hosted file,
// or a source-hosted file.
type FileOrEmoji struct {
	Type     string   `json:"type"`
	Emoji    string   `json:"emoji"`
	External *FileURL `json:"external"`
	File     *FileURL `json:"file"`
}

// URL returns whichever file URL variant is present, or empty string.
func (f *FileOrEmoji) URL() string {
	if f == nil {
		return ""
	}
	if f.External != nil {
		return f.External.URL
	}
	if f.File != nil {
		return f.File.URL
	}
	return ""
}

// FileURL wraps a file location.
type FileURL struct {
	URL string `json:"url"`
}

// Block is a raw content block. Children is populated by FetchBlockTree, not
// by the wire format.
type Block struct {
	Object      string `json:"object"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph        *RichTextPayload `json:"paragraph"`
	Heading1         *RichTextPayload `json:"heading_1"`
	Heading2         *RichTextPayload `json:"heading_2"`
	Heading3         *RichTextPayload `json:"heading_3"`
	BulletedListItem *RichTextPayload `json:"bulleted_list_item"`
	NumberedListItem *RichTextPayload `json:"numbered_list_item"`
	Quote            *RichTextPayload `json:"quote"`
	Callout          *RichTextPayload `json:"callout"`
	Code             *CodePayload     `json:"code"`
	Image            *ImagePayload    `json:"image"`

	Children []Block `json:"-"`
}

// Full reports whether the record is a fully-populated block.
func (b Block) Full() bool {
	return b.Object == "block" && b.Type != ""
}

// RichTextPayload is the common payload of text-bearing block kinds.
type RichTextPayload struct {
	RichText []RichText `json:"rich_text"`
}

// CodePayload is the payload of a code block.
type CodePayload struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// ImagePayload is the payload of an image block; exactly one of External or
// File is present.
type ImagePayload struct {
	Type     string     `json:"type"`
	External *FileURL   `json:"external"`
	File     *FileURL   `json:"file"`
	Caption  []RichText `json:"caption"`
}

// URL returns whichever image URL variant is present, or empty string.
func (p *ImagePayload) URL() string {
	if p == nil {
		return ""
	}
	if p.External != nil {
		return p.External.URL
	}
	if p.File != nil {
		return p.File.URL
	}
	return ""
}
