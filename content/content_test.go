package content

import (
	"testing"

	"github.com/quillssg/quill"
)

func TestIndexWithFrontMatter(t *testing.T) {
	reg := quill.NewRegistry(quill.NewSink())
	src := "{ title: \"Hello\" }\n---\nbody text\nmore body"

	item, err := Index(reg, "post.quill", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Meta == nil {
		t.Fatal("expected front matter to be parsed")
	}
	title, ok := item.Meta.ObjectGet(quill.NewSymbolValue("title"))
	if !ok || title.Str() != "Hello" {
		t.Errorf("expected title=Hello, got %v, %v", title, ok)
	}
	if item.Body != "body text\nmore body" {
		t.Errorf("unexpected body: %q", item.Body)
	}
}

func TestIndexWithoutFrontMatter(t *testing.T) {
	reg := quill.NewRegistry(quill.NewSink())
	item, err := Index(reg, "post.quill", "just plain text, no front matter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Meta != nil {
		t.Error("expected no front matter to be indexed")
	}
	if item.Body != "just plain text, no front matter" {
		t.Errorf("unexpected body: %q", item.Body)
	}
}

func TestIndexLeadingBraceWithoutDelimiterIsPlainBody(t *testing.T) {
	reg := quill.NewRegistry(quill.NewSink())
	src := "{ not actually front matter, no delimiter follows"
	item, err := Index(reg, "post.quill", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Meta != nil {
		t.Error("a leading '{' with no closing '---' delimiter should not be treated as front matter")
	}
	if item.Body != src {
		t.Errorf("expected the whole source to be treated as body, got %q", item.Body)
	}
}

func TestIndexFrontMatterParseErrorIsReportedNotFatal(t *testing.T) {
	sink := quill.NewSink()
	reg := quill.NewRegistry(sink)
	src := "{ title: \n---\nbody"

	item, err := Index(reg, "post.quill", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sink.HasErrors() {
		t.Error("expected a malformed front-matter object literal to report a diagnostic")
	}
	if item.Body != "body" {
		t.Errorf("unexpected body: %q", item.Body)
	}
}
