// Package content defines the normalized content model written to the cache
// documents: entities, block trees, inline tokens, and cross-references.
package content

// TokenType discriminates InlineToken variants.
type TokenType string

// Inline token types.
const (
	TokenText    TokenType = "text"
	TokenLink    TokenType = "link"
	TokenMention TokenType = "mention"
)

// InlineToken is one normalized inline rich-text run.
//
// Style flags and color are attached only when set; a false flag or default
// color is omitted from the serialized token entirely. Downstream rendering
// relies on that distinction.
type InlineToken struct {
	Type TokenType `json:"type"`
	Text string    `json:"text,omitempty"`

	// Mention fields. EntityType and Slug are filled by the resolution pass
	// after the identity map is complete; until then only Label is set.
	Label      string `json:"label,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	Slug       string `json:"slug,omitempty"`

	// PageID is the raw mention target, carried for the resolution pass.
	// Never serialized.
	PageID string `json:"-"`

	URL string `json:"url,omitempty"`

	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Color         string `json:"color,omitempty"`
}

// BlockType discriminates BlockNode variants. Unrecognized source kinds pass
// through with their original kind string, so the set is open at runtime.
type BlockType string

// Known block types.
const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockCode             BlockType = "code"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockDivider          BlockType = "divider"
	BlockImage            BlockType = "image"
)

// BlockNode is one normalized content block. Children preserve the source
// nesting exactly; only the section extractor ever regroups blocks.
type BlockNode struct {
	Type     BlockType     `json:"type"`
	Content  []InlineToken `json:"content,omitempty"`
	Children []BlockNode   `json:"children,omitempty"`

	// Code blocks.
	Language string `json:"language,omitempty"`

	// Image blocks.
	URL     string        `json:"url,omitempty"`
	Caption []InlineToken `json:"caption,omitempty"`
}

// IconType discriminates Icon variants.
type IconType string

// Icon types.
const (
	IconEmoji IconType = "emoji"
	IconImage IconType = "image"
)

// Icon is a page icon: an emoji character or an image URL/local path.
type Icon struct {
	Type  IconType `json:"type"`
	Value string   `json:"value"`
}

// DateRange carries opaque date strings as the source provides them. No
// timezone normalization is applied.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// ResolvedRef is a denormalized cross-reference to another entity. It is only
// ever built from an id present in the identity map.
type ResolvedRef struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	SharePath string `json:"sharePath"`
}

// Organization is a company, school, or similar body the author was involved
// with.
type Organization struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	SharePath    string        `json:"sharePath"`
	Name         string        `json:"name"`
	Published    bool          `json:"published"`
	Type         string        `json:"type,omitempty"`
	Logo         string        `json:"logo,omitempty"`
	URL          string        `json:"url,omitempty"`
	Location     string        `json:"location,omitempty"`
	Involvements []ResolvedRef `json:"involvements"`
	Context      []BlockNode   `json:"context"`
	Icon         *Icon         `json:"icon,omitempty"`
	Cover        string        `json:"cover,omitempty"`
}

// InvolvementSections are the named section slots extracted from an
// involvement page body.
type InvolvementSections struct {
	TLDR         []BlockNode `json:"tldr"`
	RoleOverview []BlockNode `json:"roleOverview"`
}

// Involvement is a role held at an organization.
type Involvement struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	SharePath    string              `json:"sharePath"`
	Title        string              `json:"title"`
	Published    bool                `json:"published"`
	Organization ResolvedRef         `json:"organization"`
	Dates        DateRange           `json:"dates"`
	Current      bool                `json:"current"`
	Type         string              `json:"type,omitempty"`
	Location     string              `json:"location,omitempty"`
	Projects     []ResolvedRef       `json:"projects"`
	Skills       []ResolvedRef       `json:"skills"`
	Sections     InvolvementSections `json:"sections"`
	Icon         *Icon               `json:"icon,omitempty"`
	Cover        string              `json:"cover,omitempty"`
}

// ProjectSections are the named section slots extracted from a project page
// body.
type ProjectSections struct {
	Overview     []BlockNode `json:"overview"`
	UnderTheHood []BlockNode `json:"underTheHood"`
	Impact       []BlockNode `json:"impact"`
}

// Project is a piece of work, usually tied to one or more involvements.
type Project struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	SharePath     string          `json:"sharePath"`
	Name          string          `json:"name"`
	Published     bool            `json:"published"`
	Dates         *DateRange      `json:"dates,omitempty"`
	Involvements  []ResolvedRef   `json:"involvements"`
	Organizations []ResolvedRef   `json:"organizations"`
	Skills        []ResolvedRef   `json:"skills"`
	Tags          []string        `json:"tags"`
	Links         []string        `json:"links,omitempty"`
	Sections      ProjectSections `json:"sections"`
	Icon          *Icon           `json:"icon,omitempty"`
	Cover         string          `json:"cover,omitempty"`
	Featured      bool            `json:"featured"`
}

// Skill is a technology or competence, linked back to where it was applied.
type Skill struct {
	ID                  string        `json:"id"`
	Slug                string        `json:"slug"`
	SharePath           string        `json:"sharePath"`
	Name                string        `json:"name"`
	Published           bool          `json:"published"`
	Type                string        `json:"type,omitempty"`
	Proficiency         *float64      `json:"proficiency,omitempty"`
	RelatedProjects     []ResolvedRef `json:"relatedProjects"`
	RelatedInvolvements []ResolvedRef `json:"relatedInvolvements"`
	Context             []BlockNode   `json:"context"`
	Icon                *Icon         `json:"icon,omitempty"`
}

// SyncMeta describes one sync run. Each run overwrites the previous document.
type SyncMeta struct {
	BuildTime     string `json:"buildTime"`
	SchemaVersion string `json:"schemaVersion"`
	Placeholder   bool   `json:"placeholder,omitempty"`
}
