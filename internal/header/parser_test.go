package header

import (
	"strings"
	"testing"

	"github.com/ppiankov/ruleaudit/internal/model"
)

func TestParse_BasicHeader(t *testing.T) {
	doc := `---
description: TypeScript conventions
alwaysApply: true
---
Use strict mode everywhere.
`

	result := Parse(doc)
	if result.Err != "" {
		t.Fatalf("Expected no error, got %q", result.Err)
	}
	if !result.Found {
		t.Fatal("Expected header to be found")
	}

	desc, ok := result.Data["description"]
	if !ok {
		t.Fatal("Expected description key")
	}
	if s, isStr := desc.AsString(); !isStr || s != "TypeScript conventions" {
		t.Errorf("Expected string description, got %+v", desc)
	}

	always, ok := result.Data["alwaysApply"]
	if !ok {
		t.Fatal("Expected alwaysApply key")
	}
	if b, isBool := always.AsBool(); !isBool || !b {
		t.Errorf("Expected alwaysApply true, got %+v", always)
	}

	if !strings.Contains(result.Body, "Use strict mode") {
		t.Errorf("Expected body after header, got %q", result.Body)
	}
	if !strings.HasPrefix(result.Raw, "---\n") || !strings.HasSuffix(result.Raw, "---\n") {
		t.Errorf("Expected raw block with delimiters, got %q", result.Raw)
	}
}

func TestParse_GlobList(t *testing.T) {
	doc := `---
globs:
  - "*.ts"
  - '*.tsx'
  - src/**/*.js
---
Body.
`

	result := Parse(doc)
	if result.Err != "" {
		t.Fatalf("Expected no error, got %q", result.Err)
	}

	globs, ok := result.Data["globs"]
	if !ok {
		t.Fatal("Expected globs key")
	}
	list, isList := globs.AsList()
	if !isList {
		t.Fatalf("Expected list value, got %+v", globs)
	}

	want := []string{"*.ts", "*.tsx", "src/**/*.js"}
	if len(list) != len(want) {
		t.Fatalf("Expected %d globs, got %d: %v", len(want), len(list), list)
	}
	for i, w := range want {
		if list[i] != w {
			t.Errorf("Glob %d: expected %q (unquoted), got %q", i, w, list[i])
		}
	}
}

func TestParse_QuotedScalar(t *testing.T) {
	doc := "---\ndescription: \"Quoted value\"\nname: 'single'\n---\nBody"

	result := Parse(doc)
	if result.Err != "" {
		t.Fatalf("Expected no error, got %q", result.Err)
	}

	if s, _ := result.Data["description"].AsString(); s != "Quoted value" {
		t.Errorf("Expected double quotes stripped, got %q", s)
	}
	if s, _ := result.Data["name"].AsString(); s != "single" {
		t.Errorf("Expected single quotes stripped, got %q", s)
	}
}

func TestParse_NoHeader(t *testing.T) {
	cases := []string{
		"Just a plain rule body.\nNo header at all.",
		"",
		"--- not a delimiter\nfoo: bar\n---",
		"---\nkey: value\nno closing delimiter",
	}

	for _, doc := range cases {
		result := Parse(doc)
		if result.Found {
			t.Errorf("Expected no header for %q", doc)
		}
		if result.Err != "" {
			t.Errorf("Expected no error for %q, got %q", doc, result.Err)
		}
	}
}

func TestParse_MalformedIndentation(t *testing.T) {
	doc := `---
description: ok
  stray: indented line
---
Body.
`

	result := Parse(doc)
	if !result.Found {
		t.Fatal("Expected header block to be found")
	}
	if result.Err == "" {
		t.Fatal("Expected a hard parse error for malformed indentation")
	}
	if result.Data != nil {
		t.Errorf("Expected no data on parse error, got %v", result.Data)
	}
	// The body must still be available for redundancy comparison
	if !strings.Contains(result.Body, "Body.") {
		t.Errorf("Expected body to survive parse error, got %q", result.Body)
	}
}

func TestParse_ListItemWithoutKey(t *testing.T) {
	doc := "---\n  - orphan item\n---\nBody"

	result := Parse(doc)
	if result.Err == "" {
		t.Fatal("Expected parse error for list item without a key")
	}
}

func TestParse_CRLFNormalization(t *testing.T) {
	doc := "---\r\nalwaysApply: false\r\nglobs:\r\n  - \"*.py\"\r\n---\r\nWindows body.\r\n"

	result := Parse(doc)
	if result.Err != "" {
		t.Fatalf("Expected no error for CRLF input, got %q", result.Err)
	}
	if !result.Found {
		t.Fatal("Expected header to be found in CRLF document")
	}
	if b, _ := result.Data["alwaysApply"].AsBool(); b {
		t.Error("Expected alwaysApply false")
	}
	list, _ := result.Data["globs"].AsList()
	if len(list) != 1 || list[0] != "*.py" {
		t.Errorf("Expected one glob *.py, got %v", list)
	}
	if strings.Contains(result.Body, "\r") {
		t.Errorf("Expected CR stripped from body, got %q", result.Body)
	}
}

func TestParse_UnrecognizedKeysPreserved(t *testing.T) {
	doc := `---
description: has extras
priority: high
tags:
  - style
---
Body.
`

	result := Parse(doc)
	if result.Err != "" {
		t.Fatalf("Expected no error, got %q", result.Err)
	}

	if _, ok := result.Data["priority"]; !ok {
		t.Error("Expected unrecognized scalar key to be preserved")
	}
	if _, ok := result.Data["tags"]; !ok {
		t.Error("Expected unrecognized list key to be preserved")
	}

	wantKeys := []string{"description", "priority", "tags"}
	if len(result.Keys) != len(wantKeys) {
		t.Fatalf("Expected keys %v, got %v", wantKeys, result.Keys)
	}
	for i, k := range wantKeys {
		if result.Keys[i] != k {
			t.Errorf("Key %d: expected %q, got %q", i, k, result.Keys[i])
		}
	}
	if model.RecognizedHeaderKey("priority") {
		t.Error("Expected priority to be unrecognized")
	}
}

func TestParse_EmptyHeaderBlock(t *testing.T) {
	doc := "---\n---\nOnly a body."

	result := Parse(doc)
	if !result.Found {
		t.Fatal("Expected empty header block to be found")
	}
	if result.Err != "" {
		t.Fatalf("Expected no error, got %q", result.Err)
	}
	if len(result.Data) != 0 {
		t.Errorf("Expected empty data, got %v", result.Data)
	}
}
