package adapters

import "testing"

func TestRegistry_FindAdapter(t *testing.T) {
	registry := NewRegistry()

	cases := []struct {
		path string
		want string
	}{
		{"typescript.mdc", "mdc"},
		{"rules/style.MDC", "mdc"},
		{"AGENTS.md", "markdown"},
		{".cursorrules", "markdown"},
		{"unknown.cfg", "markdown"}, // fallback
	}

	for _, tc := range cases {
		adapter := registry.FindAdapter(tc.path)
		if adapter.Name() != tc.want {
			t.Errorf("FindAdapter(%q) = %s, want %s", tc.path, adapter.Name(), tc.want)
		}
	}
}

func TestMarkdownAdapter_NoHeaderEvenWithDelimiters(t *testing.T) {
	adapter := NewMarkdownAdapter()

	raw := "---\nlooks: like frontmatter\n---\nBut markdown files have no header."
	result := adapter.Parse(raw)

	if result.Found {
		t.Error("Markdown adapter must not parse a header")
	}
	if result.Body != raw {
		t.Errorf("Expected whole file as body, got %q", result.Body)
	}
}

func TestMDCAdapter_ParsesHeader(t *testing.T) {
	adapter := NewMDCAdapter()

	result := adapter.Parse("---\nalwaysApply: true\n---\nGuidance.")
	if !result.Found {
		t.Fatal("Expected header found")
	}
	if b, _ := result.Data["alwaysApply"].AsBool(); !b {
		t.Error("Expected alwaysApply true")
	}
}
