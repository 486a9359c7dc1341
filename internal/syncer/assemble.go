package syncer

import (
	"context"

	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/normalize"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
	"github.com/Vikram2Agrawal/notion-sync/internal/resolve"
)

// Section names recognized in page bodies.
var (
	involvementSectionNames = []string{"TLDR", "Role Overview"}
	projectSectionNames     = []string{"Project Overview", "Under the Hood", "Impact"}
)

func (s *Syncer) assembleOrganization(ctx context.Context, page notion.Page, snap *resolve.Snapshot) (content.Organization, error) {
	slug := s.slugFor(page)
	body, err := s.pageBody(ctx, page, snap)
	if err != nil {
		return content.Organization{}, err
	}
	return content.Organization{
		ID:           page.ID,
		Slug:         slug,
		SharePath:    resolve.SharePath(resolve.KindOrganization, slug),
		Name:         page.Title(),
		Published:    true,
		Type:         page.SelectProp("Type"),
		URL:          page.URLProp("URL"),
		Location:     page.RichTextProp("Location"),
		Involvements: snap.Refs(page.RelationIDs("Involvements")),
		Context:      body,
		Icon:         s.icon(ctx, page),
		Cover:        s.cover(ctx, page),
	}, nil
}

func (s *Syncer) assembleInvolvement(ctx context.Context, page notion.Page, snap *resolve.Snapshot) (content.Involvement, error) {
	slug := s.slugFor(page)
	body, err := s.pageBody(ctx, page, snap)
	if err != nil {
		return content.Involvement{}, err
	}
	sections := content.ExtractSections(body, involvementSectionNames)

	var org content.ResolvedRef
	if refs := snap.Refs(page.RelationIDs("Organization")); len(refs) > 0 {
		org = refs[0]
	}

	dates := content.DateRange{}
	if d := page.DateProp("Dates"); d != nil {
		dates = *d
	}

	location := page.SelectProp("Location")
	if location == "" {
		location = page.RichTextProp("Location")
	}

	return content.Involvement{
		ID:           page.ID,
		Slug:         slug,
		SharePath:    resolve.SharePath(resolve.KindInvolvement, slug),
		Title:        page.Title(),
		Published:    true,
		Organization: org,
		Dates:        dates,
		Current:      page.CheckboxProp("Current"),
		Type:         page.SelectProp("Type"),
		Location:     location,
		Projects:     snap.Refs(page.RelationIDs("Projects")),
		Skills:       snap.Refs(page.RelationIDs("Skills Developed")),
		Sections: content.InvolvementSections{
			TLDR:         sections["TLDR"],
			RoleOverview: sections["Role Overview"],
		},
		Icon:  s.icon(ctx, page),
		Cover: s.cover(ctx, page),
	}, nil
}

func (s *Syncer) assembleProject(ctx context.Context, page notion.Page, snap *resolve.Snapshot) (content.Project, error) {
	slug := s.slugFor(page)
	body, err := s.pageBody(ctx, page, snap)
	if err != nil {
		return content.Project{}, err
	}
	sections := content.ExtractSections(body, projectSectionNames)

	var links []string
	if u := page.URLProp("Links"); u != "" {
		links = []string{u}
	}

	return content.Project{
		ID:            page.ID,
		Slug:          slug,
		SharePath:     resolve.SharePath(resolve.KindProject, slug),
		Name:          page.Title(),
		Published:     true,
		Dates:         page.DateProp("Dates"),
		Involvements:  snap.Refs(page.RelationIDs("Involvements")),
		Organizations: snap.Refs(page.RelationIDs("Involved With")),
		Skills:        snap.Refs(page.RelationIDs("Skills Developed")),
		Tags:          page.MultiSelectProp("Tags"),
		Links:         links,
		Sections: content.ProjectSections{
			Overview:     sections["Project Overview"],
			UnderTheHood: sections["Under the Hood"],
			Impact:       sections["Impact"],
		},
		Icon:     s.icon(ctx, page),
		Cover:    s.cover(ctx, page),
		Featured: page.CheckboxProp("Featured"),
	}, nil
}

func (s *Syncer) assembleSkill(ctx context.Context, page notion.Page, snap *resolve.Snapshot) (content.Skill, error) {
	slug := s.slugFor(page)
	body, err := s.pageBody(ctx, page, snap)
	if err != nil {
		return content.Skill{}, err
	}
	return content.Skill{
		ID:                  page.ID,
		Slug:                slug,
		SharePath:           resolve.SharePath(resolve.KindSkill, slug),
		Name:                page.Title(),
		Published:           true,
		Type:                page.SelectProp("Type"),
		Proficiency:         page.NumberProp("Proficiency (1-5)"),
		RelatedProjects:     snap.Refs(page.RelationIDs("Related Projects")),
		RelatedInvolvements: snap.Refs(page.RelationIDs("Related Involvements")),
		Context:             body,
		Icon:                s.icon(ctx, page),
	}, nil
}

// pageBody fetches and normalizes a page's block tree, resolves mentions
// against the snapshot, and rewrites image URLs through the asset cache.
func (s *Syncer) pageBody(ctx context.Context, page notion.Page, snap *resolve.Snapshot) ([]content.BlockNode, error) {
	raw, err := s.client.FetchBlockTree(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	nodes := normalize.Blocks(raw)
	if nodes == nil {
		nodes = []content.BlockNode{}
	}
	snap.ResolveMentions(nodes)
	s.localizeImages(ctx, nodes)
	return nodes, nil
}

func (s *Syncer) localizeImages(ctx context.Context, nodes []content.BlockNode) {
	for i := range nodes {
		if nodes[i].Type == content.BlockImage && nodes[i].URL != "" {
			nodes[i].URL = s.assets.Fetch(ctx, nodes[i].URL)
		}
		s.localizeImages(ctx, nodes[i].Children)
	}
}

func (s *Syncer) icon(ctx context.Context, page notion.Page) *content.Icon {
	ic := page.PageIcon()
	if ic != nil && ic.Type == content.IconImage {
		ic.Value = s.assets.Fetch(ctx, ic.Value)
	}
	return ic
}

func (s *Syncer) cover(ctx context.Context, page notion.Page) string {
	u := page.CoverURL()
	if u == "" {
		return ""
	}
	return s.assets.Fetch(ctx, u)
}
