package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vikram2Agrawal/notion-sync/internal/content"
)

// Output document names.
const (
	DocOrganizations = "organizations.json"
	DocInvolvements  = "involvements.json"
	DocProjects      = "projects.json"
	DocSkills        = "skills.json"
	DocMeta          = "meta.json"
)

// DocumentNames returns every output document name.
func DocumentNames() []string {
	return []string{DocOrganizations, DocInvolvements, DocProjects, DocSkills, DocMeta}
}

// Writer persists sync results into the cache directory. Each document is
// written atomically (tmp file, fsync, rename) so a consumer never observes a
// half-written file, and a failed run leaves the previous documents intact.
type Writer struct {
	dir string
}

// NewWriter creates a writer targeting dir, which must already exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteResult writes all five documents of a completed run.
func (w *Writer) WriteResult(res *Result) error {
	docs := []struct {
		name string
		v    any
	}{
		{DocOrganizations, res.Organizations},
		{DocInvolvements, res.Involvements},
		{DocProjects, res.Projects},
		{DocSkills, res.Skills},
		{DocMeta, res.Meta},
	}
	for _, d := range docs {
		if err := w.writeJSON(d.name, d.v); err != nil {
			return err
		}
	}
	return nil
}

// WritePlaceholder writes structurally valid empty collections plus metadata
// flagged as placeholder, so downstream builds never fail on missing
// credentials.
func (w *Writer) WritePlaceholder(meta content.SyncMeta) error {
	meta.Placeholder = true
	res := &Result{
		Organizations: []content.Organization{},
		Involvements:  []content.Involvement{},
		Projects:      []content.Project{},
		Skills:        []content.Skill{},
		Meta:          meta,
	}
	return w.WriteResult(res)
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("writer: encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(w.dir, ".sync-tmp-*")
	if err != nil {
		return fmt.Errorf("writer: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writer: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("writer: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writer: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		return fmt.Errorf("writer: rename: %w", err)
	}
	success = true
	return nil
}
