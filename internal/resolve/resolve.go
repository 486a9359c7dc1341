// Package resolve builds the per-run identity map and resolves relations and
// page mentions against it.
//
// Resolution is two-phase by construction: a Snapshot is built once from
// every fetched page across all collections, then handed read-only to the
// assemblers. Relations are bidirectional and unordered across collections,
// so no ref may be resolved before the snapshot is complete.
package resolve

import "github.com/Vikram2Agrawal/notion-sync/internal/content"

// Kind is an entity kind.
type Kind string

// Entity kinds.
const (
	KindOrganization Kind = "organization"
	KindInvolvement  Kind = "involvement"
	KindProject      Kind = "project"
	KindSkill        Kind = "skill"
)

// Plural returns the collection name used in share paths and document names.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// SharePath returns the canonical share path for an entity.
func SharePath(kind Kind, slug string) string {
	return "/" + kind.Plural() + "/" + slug
}

// Identity is what the rest of the pipeline may know about a page without
// fetching it: its kind, slug, and title.
type Identity struct {
	Kind  Kind
	Slug  string
	Title string
}

// Builder accumulates identities while collections are being fetched.
type Builder struct {
	byID map[string]Identity
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byID: make(map[string]Identity)}
}

// Add registers one page identity.
func (b *Builder) Add(id string, ident Identity) {
	b.byID[id] = ident
}

// Snapshot freezes the accumulated identities. The Builder must not be used
// afterwards.
func (b *Builder) Snapshot() *Snapshot {
	s := &Snapshot{byID: b.byID}
	b.byID = nil
	return s
}

// Snapshot is the immutable global identity map for one sync run.
type Snapshot struct {
	byID map[string]Identity
}

// Lookup returns the identity for a page id.
func (s *Snapshot) Lookup(id string) (Identity, bool) {
	ident, ok := s.byID[id]
	return ident, ok
}

// Len returns the number of known identities.
func (s *Snapshot) Len() int {
	return len(s.byID)
}

// Refs resolves relation ids into cross-references, preserving input order
// and silently dropping any id not in the snapshot (the common case when the
// related page is unpublished and was never fetched).
func (s *Snapshot) Refs(ids []string) []content.ResolvedRef {
	refs := make([]content.ResolvedRef, 0, len(ids))
	for _, id := range ids {
		ident, ok := s.byID[id]
		if !ok {
			continue
		}
		refs = append(refs, content.ResolvedRef{
			ID:        id,
			Slug:      ident.Slug,
			Title:     ident.Title,
			SharePath: SharePath(ident.Kind, ident.Slug),
		})
	}
	return refs
}

// ResolveMentions walks assembled block trees and fills entity type and slug
// on mention tokens whose target page is in the snapshot. Tokens pointing at
// unknown pages keep their label only. This is the second phase of mention
// resolution; tokenization records just the label and target id.
func (s *Snapshot) ResolveMentions(blocks []content.BlockNode) {
	for i := range blocks {
		s.resolveTokens(blocks[i].Content)
		s.resolveTokens(blocks[i].Caption)
		s.ResolveMentions(blocks[i].Children)
	}
}

func (s *Snapshot) resolveTokens(tokens []content.InlineToken) {
	for i := range tokens {
		tok := &tokens[i]
		if tok.Type != content.TokenMention || tok.PageID == "" {
			continue
		}
		if ident, ok := s.byID[tok.PageID]; ok {
			tok.EntityType = string(ident.Kind)
			tok.Slug = ident.Slug
		}
	}
}
