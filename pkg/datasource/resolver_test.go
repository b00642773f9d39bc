package datasource

import (
	"errors"
	"testing"
)

func relatedSources() (articles, comments, authors, tags *Source) {
	articles = New("Articles", nil, nil)
	comments = New("Comments", nil, nil)
	authors = New("Authors", nil, nil)
	tags = New("Tags", nil, nil)

	articles.
		BelongsTo("author", "author_id", authors).
		HasMany("comments", "article_id", comments).
		BelongsToMany("tags", "article_id", tags)
	comments.BelongsTo("article", "article_id", articles)
	authors.HasOne("profile", "author_id", New("Profiles", nil, nil))
	return articles, comments, authors, tags
}

func TestResolve(t *testing.T) {
	articles, _, _, _ := relatedSources()

	cases := []struct {
		path       string
		wantSource string
		wantField  string
	}{
		{"title", "Articles", "title"},
		{"author.name", "Authors", "name"},
		{"author.profile.bio", "Profiles", "bio"},
		{"comments.0.body", "Comments", "body"},
		{"comments.12.article.title", "Articles", "title"},
		{"tags._ids", "Tags", "_ids"},
		{"0.title", "Articles", "title"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			source, field, err := Resolve(tc.path, articles)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tc.path, err)
			}
			if source.Name() != tc.wantSource || field != tc.wantField {
				t.Fatalf("Resolve(%q) = (%s, %s), want (%s, %s)", tc.path, source.Name(), field, tc.wantSource, tc.wantField)
			}
		})
	}
}

func TestResolveSkipsIndexAfterHasMany(t *testing.T) {
	parents := New("Parents", nil, nil)
	children := New("Children", nil, nil)
	parents.HasMany("children", "parent_id", children)

	source, field, err := Resolve("children.0.value", parents)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if source != children || field != "value" {
		t.Fatalf("Resolve() = (%s, %s), want (Children, value)", source.Name(), field)
	}
}

func TestResolveUnknownRelationship(t *testing.T) {
	articles, _, _, _ := relatedSources()

	_, _, err := Resolve("publisher.name", articles)
	if !errors.Is(err, ErrUnresolvedRelationship) {
		t.Fatalf("expected ErrUnresolvedRelationship, got %v", err)
	}

	if _, _, err := Resolve("title", nil); !errors.Is(err, ErrUnresolvedRelationship) {
		t.Fatalf("expected ErrUnresolvedRelationship for nil root, got %v", err)
	}
}

func TestRelationshipSides(t *testing.T) {
	articles, _, _, _ := relatedSources()
	author, _ := FindRelationship(articles, "author")
	comments, _ := FindRelationship(articles, "comments")
	tags, _ := FindRelationship(articles, "tags")

	if !author.IsOwningSide() || author.HasMultiple() {
		t.Fatalf("belongsTo must be owning and single: %+v", author)
	}
	if comments.IsOwningSide() || !comments.HasMultiple() {
		t.Fatalf("hasMany must be non-owning and multiple: %+v", comments)
	}
	if !tags.HasMultiple() {
		t.Fatalf("belongsToMany must be multiple")
	}
	if _, ok := FindRelationship(nil, "x"); ok {
		t.Fatalf("nil source has no relationships")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(New("Articles", nil, nil))

	if err := registry.Register(New("Articles", nil, nil)); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(New(" ", nil, nil)); err == nil {
		t.Fatalf("expected error for unnamed source")
	}
	if _, err := registry.Get("Missing"); err == nil {
		t.Fatalf("expected lookup error")
	}
	if !registry.Has("Articles") || len(registry.Names()) != 1 {
		t.Fatalf("unexpected registry contents: %v", registry.Names())
	}
}
