package syncer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vikram2Agrawal/notion-sync/internal/assets"
	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
	"github.com/Vikram2Agrawal/notion-sync/internal/testutil"
)

func textProp(s string) notion.Property {
	return notion.Property{
		Type:     "rich_text",
		RichText: []notion.RichText{{Type: "text", PlainText: s}},
	}
}

func testSyncer(t *testing.T, fake *testutil.FakeNotion) *Syncer {
	t.Helper()
	cache := assets.New(t.TempDir(), "/notion-assets", nil)
	dbs := Databases{
		Organizations: "db-orgs",
		Involvements:  "db-inv",
		Projects:      "db-proj",
		Skills:        "db-skills",
	}
	return New(fake.Client(t, 3), cache, dbs, "1.0.0", nil)
}

func TestRun_ResolvesRelationsAcrossCollections(t *testing.T) {
	fake := &testutil.FakeNotion{
		Pages: map[string][]notion.Page{
			"db-orgs": {
				testutil.TitlePage("org-1", "Acme Corp", map[string]notion.Property{
					"Involvements": testutil.RelationProp("inv-1"),
				}),
			},
			"db-inv": {
				testutil.TitlePage("inv-1", "Backend Lead", map[string]notion.Property{
					"Organization": testutil.RelationProp("org-1"),
					"Projects":     testutil.RelationProp("proj-1", "unpublished"),
				}),
			},
			"db-proj": {
				testutil.TitlePage("proj-1", "Rocket", map[string]notion.Property{
					"Slug":          textProp("rocket-v2"),
					"Involved With": testutil.RelationProp("org-1"),
				}),
			},
			"db-skills": {},
		},
		Blocks: map[string][]notion.Block{},
	}
	s := testSyncer(t, fake)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Organizations) != 1 || len(res.Involvements) != 1 || len(res.Projects) != 1 {
		t.Fatalf("counts = %d/%d/%d", len(res.Organizations), len(res.Involvements), len(res.Projects))
	}
	if res.Skills == nil || len(res.Skills) != 0 {
		t.Errorf("skills should be an empty slice: %v", res.Skills)
	}

	org := res.Organizations[0]
	if org.Slug != "acme-corp" || org.SharePath != "/organizations/acme-corp" {
		t.Errorf("org identity = %q %q", org.Slug, org.SharePath)
	}
	if len(org.Involvements) != 1 || org.Involvements[0].Title != "Backend Lead" {
		t.Errorf("org involvements = %+v", org.Involvements)
	}

	inv := res.Involvements[0]
	if inv.Organization.ID != "org-1" || inv.Organization.Title != "Acme Corp" {
		t.Errorf("involvement org = %+v", inv.Organization)
	}
	// The unpublished id is dropped, never a dangling ref.
	if len(inv.Projects) != 1 || inv.Projects[0].Slug != "rocket-v2" {
		t.Errorf("involvement projects = %+v", inv.Projects)
	}

	// Explicit Slug property wins over the title slug.
	if res.Projects[0].Slug != "rocket-v2" {
		t.Errorf("project slug = %q", res.Projects[0].Slug)
	}

	if res.Meta.SchemaVersion != "1.0.0" || res.Meta.BuildTime == "" || res.Meta.Placeholder {
		t.Errorf("meta = %+v", res.Meta)
	}
}

func TestRun_SectionsAndBodyNormalization(t *testing.T) {
	fake := &testutil.FakeNotion{
		Pages: map[string][]notion.Page{
			"db-inv": {testutil.TitlePage("inv-1", "Role", nil)},
		},
		Blocks: map[string][]notion.Block{
			"inv-1": {
				testutil.HeadingBlock("h1", "TLDR"),
				testutil.TextBlock("p1", "short version"),
				testutil.HeadingBlock("h2", "Role Overview"),
				testutil.TextBlock("p2", "long version"),
				testutil.HeadingBlock("h3", "Scratch"),
				testutil.TextBlock("p3", "dropped"),
			},
		},
	}
	s := testSyncer(t, fake)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sec := res.Involvements[0].Sections
	if len(sec.TLDR) != 1 || sec.TLDR[0].Content[0].Text != "short version" {
		t.Errorf("tldr = %+v", sec.TLDR)
	}
	if len(sec.RoleOverview) != 1 || sec.RoleOverview[0].Content[0].Text != "long version" {
		t.Errorf("roleOverview = %+v", sec.RoleOverview)
	}
}

func TestRun_OutputOrderFollowsSourceOrder(t *testing.T) {
	fake := &testutil.FakeNotion{
		Pages: map[string][]notion.Page{
			"db-skills": {
				testutil.TitlePage("s1", "Go", nil),
				testutil.TitlePage("s2", "Rust", nil),
				testutil.TitlePage("s3", "SQL", nil),
			},
		},
	}
	s := testSyncer(t, fake)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"Go", "Rust", "SQL"} {
		if res.Skills[i].Name != want {
			t.Errorf("skill %d = %q, want %q", i, res.Skills[i].Name, want)
		}
	}
	if res.Skills[0].Context == nil {
		t.Error("empty page body should be an empty slice, not nil")
	}
}

func TestRun_FetchFailureAborts(t *testing.T) {
	// Unknown database id still returns an empty list from the fake, so point
	// the client at a server that always fails instead.
	fake := &testutil.FakeNotion{}
	srv := fake.Server(t)
	srv.Close()

	cache := assets.New(t.TempDir(), "/notion-assets", nil)
	s := New(notion.NewClient(srv.URL, "tok", 3), cache, Databases{Organizations: "db"}, "1.0.0", nil)
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected run to fail when a collection fetch fails")
	}
}

func TestWriter_WriteResultDocuments(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	res := &Result{
		Organizations: []content.Organization{},
		Involvements:  []content.Involvement{},
		Projects:      []content.Project{{ID: "p", Slug: "p", Name: "P", Tags: []string{}}},
		Skills:        []content.Skill{},
		Meta:          content.SyncMeta{BuildTime: "2026-01-01T00:00:00Z", SchemaVersion: "1.0.0"},
	}
	if err := w.WriteResult(res); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, name := range DocumentNames() {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("document %s missing: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, DocProjects))
	if err != nil {
		t.Fatal(err)
	}
	var projects []content.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		t.Fatalf("projects.json invalid: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "P" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestWriter_PlaceholderDocuments(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	meta := content.SyncMeta{BuildTime: "2026-01-01T00:00:00Z", SchemaVersion: "1.0.0"}
	if err := w.WritePlaceholder(meta); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{DocOrganizations, DocInvolvements, DocProjects, DocSkills} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		var arr []any
		if err := json.Unmarshal(data, &arr); err != nil || len(arr) != 0 {
			t.Errorf("%s should be an empty JSON array: %s", name, data)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, DocMeta))
	if err != nil {
		t.Fatal(err)
	}
	var got content.SyncMeta
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Placeholder {
		t.Errorf("meta should carry placeholder flag: %+v", got)
	}
}
