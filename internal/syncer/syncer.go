// Package syncer orchestrates one full sync run: fetch every collection,
// build the identity snapshot, assemble entities, and produce the output
// documents. Output is full-replace: any fetch failure aborts the run before
// anything is written.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vikram2Agrawal/notion-sync/internal/assets"
	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
	"github.com/Vikram2Agrawal/notion-sync/internal/resolve"
)

// Databases holds the source database id per collection. An empty id yields
// an empty collection rather than an error.
type Databases struct {
	Organizations string
	Involvements  string
	Projects      string
	Skills        string
}

// Result is the complete output of one sync run.
type Result struct {
	Organizations []content.Organization
	Involvements  []content.Involvement
	Projects      []content.Project
	Skills        []content.Skill
	Meta          content.SyncMeta
}

// Syncer runs the normalization pipeline.
type Syncer struct {
	client        *notion.Client
	assets        *assets.Cache
	dbs           Databases
	schemaVersion string
	logger        *slog.Logger
	now           func() time.Time
}

// New creates a Syncer.
func New(client *notion.Client, cache *assets.Cache, dbs Databases, schemaVersion string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		client:        client,
		assets:        cache,
		dbs:           dbs,
		schemaVersion: schemaVersion,
		logger:        logger,
		now:           time.Now,
	}
}

// Run executes one sync. Collection fetches run concurrently under the shared
// request gate; the identity snapshot is completed before any entity assembly
// starts, because relations are bidirectional across collections.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	var orgPages, invPages, projPages, skillPages []notion.Page

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.fetchCollection(gctx, "organizations", s.dbs.Organizations, &orgPages))
	g.Go(s.fetchCollection(gctx, "involvements", s.dbs.Involvements, &invPages))
	g.Go(s.fetchCollection(gctx, "projects", s.dbs.Projects, &projPages))
	g.Go(s.fetchCollection(gctx, "skills", s.dbs.Skills, &skillPages))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	builder := resolve.NewBuilder()
	s.register(builder, resolve.KindOrganization, orgPages)
	s.register(builder, resolve.KindInvolvement, invPages)
	s.register(builder, resolve.KindProject, projPages)
	s.register(builder, resolve.KindSkill, skillPages)
	snap := builder.Snapshot()

	res := &Result{
		Organizations: make([]content.Organization, len(orgPages)),
		Involvements:  make([]content.Involvement, len(invPages)),
		Projects:      make([]content.Project, len(projPages)),
		Skills:        make([]content.Skill, len(skillPages)),
	}

	// Pages assemble concurrently; each result lands at its source index, so
	// output order follows source order, not completion order.
	ag, actx := errgroup.WithContext(ctx)
	for i, page := range orgPages {
		i, page := i, page
		ag.Go(func() error {
			e, err := s.assembleOrganization(actx, page, snap)
			res.Organizations[i] = e
			return err
		})
	}
	for i, page := range invPages {
		i, page := i, page
		ag.Go(func() error {
			e, err := s.assembleInvolvement(actx, page, snap)
			res.Involvements[i] = e
			return err
		})
	}
	for i, page := range projPages {
		i, page := i, page
		ag.Go(func() error {
			e, err := s.assembleProject(actx, page, snap)
			res.Projects[i] = e
			return err
		})
	}
	for i, page := range skillPages {
		i, page := i, page
		ag.Go(func() error {
			e, err := s.assembleSkill(actx, page, snap)
			res.Skills[i] = e
			return err
		})
	}
	if err := ag.Wait(); err != nil {
		return nil, err
	}

	res.Meta = content.SyncMeta{
		BuildTime:     s.now().UTC().Format(time.RFC3339),
		SchemaVersion: s.schemaVersion,
	}

	s.logger.Info("sync assembled",
		slog.Int("organizations", len(res.Organizations)),
		slog.Int("involvements", len(res.Involvements)),
		slog.Int("projects", len(res.Projects)),
		slog.Int("skills", len(res.Skills)),
		slog.Int("identities", snap.Len()))

	return res, nil
}

func (s *Syncer) fetchCollection(ctx context.Context, name, dbID string, dst *[]notion.Page) func() error {
	return func() error {
		if dbID == "" {
			s.logger.Warn("collection has no database id, skipping", slog.String("collection", name))
			return nil
		}
		pages, err := s.client.QueryDatabase(ctx, dbID)
		if err != nil {
			return err
		}
		s.logger.Info("collection fetched",
			slog.String("collection", name),
			slog.Int("pages", len(pages)))
		*dst = pages
		return nil
	}
}

func (s *Syncer) register(b *resolve.Builder, kind resolve.Kind, pages []notion.Page) {
	for _, p := range pages {
		title := p.Title()
		b.Add(p.ID, resolve.Identity{Kind: kind, Slug: s.slugFor(p), Title: title})
	}
}

// slugFor prefers an explicit Slug property, falling back to the title.
func (s *Syncer) slugFor(p notion.Page) string {
	if slug := p.RichTextProp("Slug"); slug != "" {
		return slug
	}
	return content.Slugify(p.Title())
}
