package preview

import (
	"context"
	"strings"
	"testing"
)

func testContent() map[string]any {
	return map[string]any{
		"headline":         "Late Winner Settles Derby",
		"summary":          "A stoppage-time strike decided it.",
		"article_content":  "<p>The match turned on a moment of brilliance.</p>",
		"meta_description": "Match report from Old Trafford.",
		"keywords":         "football, derby",
	}
}

func TestRenderArticleFragment(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	markup, err := renderer.Render(context.Background(), "standard-article", testContent())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, "Late Winner Settles Derby") {
		t.Fatalf("headline missing from markup:\n%s", markup)
	}
	if !strings.Contains(markup, "<p>The match turned on a moment of brilliance.</p>") {
		t.Fatalf("body not rendered unescaped:\n%s", markup)
	}
	if strings.Contains(markup, "<!DOCTYPE") {
		t.Fatal("fragment must not be a full document")
	}
}

func TestRenderStripsExecutableMarkup(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	content := testContent()
	content["article_content"] = `<p>ok</p><script>alert(1)</script>`
	markup, err := renderer.Render(context.Background(), "standard-article", content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(markup, "<script>") || strings.Contains(markup, "alert(1)") {
		t.Fatalf("script survived sanitization:\n%s", markup)
	}
	if !strings.Contains(markup, "<p>ok</p>") {
		t.Fatalf("legitimate markup stripped:\n%s", markup)
	}
}

func TestRenderMatchReportLayout(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	content := testContent()
	content["home_team"] = "United"
	content["away_team"] = "Liverpool"
	content["home_score"] = "2"
	content["away_score"] = "1"

	markup, err := renderer.Render(context.Background(), "match-report", content)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, "match-scoreline") {
		t.Fatalf("match layout not used:\n%s", markup)
	}
	if !strings.Contains(markup, "United") || !strings.Contains(markup, "Liverpool") {
		t.Fatalf("teams missing:\n%s", markup)
	}
}

func TestRenderUnknownTemplateFallsBackToArticle(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	markup, err := renderer.Render(context.Background(), "never-published", testContent())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(markup, "article-headline") {
		t.Fatalf("fallback layout not used:\n%s", markup)
	}
}

func TestRenderDocumentWrapsFragment(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	doc, err := renderer.RenderDocument(context.Background(), "standard-article", testContent())
	if err != nil {
		t.Fatalf("render document: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Late Winner Settles Derby</title>",
		`content="Match report from Old Trafford."`,
		"article-headline",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderDocumentWithTheme(t *testing.T) {
	selector := NewManifestSelector(BuiltinThemes()...)
	renderer, err := NewRenderer(WithThemeSelector(selector, "newsroom", ""))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	doc, err := renderer.RenderDocument(context.Background(), "standard-article", testContent())
	if err != nil {
		t.Fatalf("render document: %v", err)
	}
	if !strings.Contains(doc, "--color-accent:#b91c1c;") {
		t.Fatalf("theme tokens missing:\n%s", doc)
	}
	if !strings.Contains(doc, `class="theme-newsroom"`) {
		t.Fatalf("theme class missing:\n%s", doc)
	}
}

func TestManifestSelectorVariantOverlay(t *testing.T) {
	selector := NewManifestSelector(BuiltinThemes()...)

	selection, err := selector.Select("newsroom", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	tokens := selection.Manifest.Tokens
	if tokens["color-bg"] != "#111827" {
		t.Fatalf("variant token not overlaid: %q", tokens["color-bg"])
	}
	if tokens["color-accent"] != "#b91c1c" {
		t.Fatalf("base token lost in overlay: %q", tokens["color-accent"])
	}

	if _, err := selector.Select("newsroom", "sepia"); err == nil {
		t.Fatal("expected unknown variant error")
	}
	if _, err := selector.Select("ghost", ""); err == nil {
		t.Fatal("expected unknown theme error")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		avoid string
	}{
		{"empty", "   ", "", ""},
		{"script stripped", "<p>hi</p><script>x()</script>", "<p>hi</p>", "script"},
		{"event handler stripped", `<p onclick="x()">hi</p>`, "<p>hi</p>", "onclick"},
		{"structure kept", "<article><h2>ok</h2></article>", "<article><h2>ok</h2></article>", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.in)
			if got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if tc.avoid != "" && strings.Contains(got, tc.avoid) {
				t.Fatalf("output still contains %q: %q", tc.avoid, got)
			}
		})
	}
}

func TestEngineRequiresASource(t *testing.T) {
	if _, err := NewEngine(); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestEngineGlobals(t *testing.T) {
	engine, err := NewEngine(
		WithFS(TemplatesFS()),
		WithGlobals(map[string]any{"title": "Global Title"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("templates/document", map[string]any{"body": "<p>x</p>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<title>Global Title</title>") {
		t.Fatalf("global not applied:\n%s", out)
	}
}
