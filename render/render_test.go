package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quillssg/quill"
)

func TestOneRendersLocationAndCaret(t *testing.T) {
	mod := &quill.Module{Path: "page.quill", Source: "line one\nbad + line\nline three"}
	d := &quill.Diagnostic{
		Module: mod, Kind: quill.DiagSyntax, Message: "bad token",
		Pos: quill.Pos{Line: 2, Col: 5}, Severity: quill.SeverityError,
	}

	var buf bytes.Buffer
	One(&buf, d)
	out := buf.String()

	if !strings.Contains(out, "bad token") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "page.quill:2:5") {
		t.Errorf("expected file:line:col location in output, got %q", out)
	}
	if !strings.Contains(out, "bad + line") {
		t.Errorf("expected the offending source line in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret in output, got %q", out)
	}
}

func TestOneWarningSeverityLabel(t *testing.T) {
	d := &quill.Diagnostic{Kind: quill.DiagRuntime, Message: "heads up", Severity: quill.SeverityWarning}
	var buf bytes.Buffer
	One(&buf, d)
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected a warning label, got %q", buf.String())
	}
}

func TestOneUnknownModuleFallsBack(t *testing.T) {
	d := &quill.Diagnostic{Kind: quill.DiagSyntax, Message: "x", Severity: quill.SeverityError}
	var buf bytes.Buffer
	One(&buf, d)
	if !strings.Contains(buf.String(), "<unknown>") {
		t.Errorf("expected the fallback module path, got %q", buf.String())
	}
}

func TestDiagnosticsSkipsSuppressed(t *testing.T) {
	diags := []*quill.Diagnostic{
		{Kind: quill.DiagRuntime, Message: "hidden", Suppressed: true, Severity: quill.SeverityError},
		{Kind: quill.DiagRuntime, Message: "visible", Severity: quill.SeverityError},
	}
	var buf bytes.Buffer
	Diagnostics(&buf, diags)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected a suppressed diagnostic to be skipped, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected the non-suppressed diagnostic to be printed, got %q", out)
	}
}
