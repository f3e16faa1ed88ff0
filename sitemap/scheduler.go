// Package sitemap replays the declarative page entries a quill script
// accumulates in its SITE_MAP global (spec.md §6): it is the "site-map
// scheduler" named in spec.md §2 as a companion specified only at its
// boundary with the runtime. Grounded on spec.md §4.5/§6 directly (no
// single teacher file owns a scheduler; the shape mirrors pongo2's
// TemplateSet.ExecuteWriter in that it evaluates a module and writes
// the result to a destination path).
package sitemap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/quillssg/quill"
	"github.com/quillssg/quill/htmlpost"
)

// EntryType distinguishes the two site-map entry shapes of spec.md §6.
type EntryType string

const (
	EntryCopy     EntryType = "copy"
	EntryTemplate EntryType = "template"
)

// Entry is a decoded SITE_MAP array element.
type Entry struct {
	Type    EntryType
	Src     string
	Dest    string
	WebPath string
	Data    *quill.Value
}

// Scheduler replays a script's accumulated SITE_MAP against a
// Registry, writing files under DistRoot.
type Scheduler struct {
	Registry *quill.Registry
	SrcRoot  string
	DistRoot string
	Sink     *quill.Sink

	// ReversePaths maps a destination web path back to its source
	// path, populated as entries are scheduled (spec.md §4.5 names
	// REVERSE_PATHS as a global binding the core reads/writes; the
	// scheduler is the thing that actually wants it, for building
	// cross-page links before every page has been rendered).
	ReversePaths map[string]string
}

// NewScheduler creates a Scheduler backed by reg.
func NewScheduler(reg *quill.Registry, sink *quill.Sink, srcRoot, distRoot string) *Scheduler {
	return &Scheduler{
		Registry: reg, Sink: sink, SrcRoot: srcRoot, DistRoot: distRoot,
		ReversePaths: make(map[string]string),
	}
}

// DecodeEntries reads the SITE_MAP array Value into Entry structs. Array
// items that are not objects are skipped without a diagnostic; an
// object's type is not checked here (Run reports unrecognized types).
func DecodeEntries(siteMap *quill.Value) []Entry {
	var out []Entry
	if siteMap == nil || !siteMap.IsArray() {
		return out
	}
	for _, item := range siteMap.Array() {
		if !item.IsObject() {
			continue
		}
		e := Entry{}
		if tv, ok := item.ObjectGet(quill.NewSymbolValue("type")); ok {
			e.Type = EntryType(tv.Str())
		}
		if sv, ok := item.ObjectGet(quill.NewSymbolValue("src")); ok {
			e.Src = sv.Str()
		}
		if dv, ok := item.ObjectGet(quill.NewSymbolValue("dest")); ok {
			e.Dest = dv.Str()
		}
		if wv, ok := item.ObjectGet(quill.NewSymbolValue("web_path")); ok {
			e.WebPath = wv.Str()
		}
		if dv, ok := item.ObjectGet(quill.NewSymbolValue("data")); ok {
			e.Data = dv
		}
		out = append(out, e)
	}
	return out
}

// Run replays every entry, copying files and rendering templates.
func (s *Scheduler) Run(entries []Entry) error {
	for _, e := range entries {
		if e.WebPath != "" {
			s.ReversePaths[e.WebPath] = e.Src
		}
		switch e.Type {
		case EntryCopy:
			if err := s.runCopy(e); err != nil {
				return err
			}
		case EntryTemplate:
			if err := s.runTemplate(e); err != nil {
				return err
			}
		default:
			s.Sink.Report(&quill.Diagnostic{
				Kind: quill.DiagRuntime, Message: fmt.Sprintf("unrecognized site-map entry type %q", e.Type),
			})
		}
	}
	return nil
}

func (s *Scheduler) runCopy(e Entry) error {
	src := filepath.Join(s.SrcRoot, e.Src)
	dest := filepath.Join(s.DistRoot, e.Dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "quill: creating directory for %q", dest)
	}
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "quill: opening copy source %q", src)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "quill: creating copy destination %q", dest)
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	if err != nil {
		return errors.Wrapf(err, "quill: copying %q to %q", src, dest)
	}
	return nil
}

func (s *Scheduler) runTemplate(e Entry) error {
	mod, err := s.Registry.Load(filepath.Join(s.SrcRoot, e.Src), quill.ModuleUser, false)
	if err != nil {
		return err
	}
	arena := quill.NewArena()
	env := quill.NewEnvironment(arena, s.Sink)
	env.Define(quill.SymSrcRoot, arena.NewString(s.SrcRoot))
	env.Define(quill.SymDistRoot, arena.NewString(s.DistRoot))
	env.Define(quill.SymPath, arena.NewString(e.Src))
	if e.Data != nil {
		env.Define(quill.Intern("data"), quill.CopyValue(arena, e.Data))
	}

	rendered, err := quill.EvalTemplateWithLayout(s.Registry, mod, env)
	if err != nil {
		return err
	}
	out := rendered.String()

	if strings.HasSuffix(e.Dest, ".html") {
		out, err = s.postProcessHTML(out)
		if err != nil {
			return errors.Wrapf(err, "quill: post-processing %q", e.Src)
		}
	}

	dest := filepath.Join(s.DistRoot, e.Dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "quill: creating directory for %q", dest)
	}
	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		return errors.Wrapf(err, "quill: writing %q", dest)
	}
	arena.Release()
	return nil
}

// postProcessHTML runs the optional HTML post-processing collaborator
// (spec.md §1) over a rendered page: heading-anchor assignment, code
// highlighting, and rewriting site-relative source paths in href/src
// attributes to their published web paths via ReversePaths.
func (s *Scheduler) postProcessHTML(rendered string) (string, error) {
	return htmlpost.Render(rendered,
		func(doc *html.Node) { htmlpost.TableOfContents(doc) },
		htmlpost.Highlight,
		func(doc *html.Node) {
			htmlpost.RewriteLinks(doc, func(src string) string {
				if web, ok := s.forwardPath(src); ok {
					return web
				}
				return src
			})
		},
	)
}

// forwardPath finds the published web path for a source-relative path,
// the reverse lookup of ReversePaths (which is keyed the other way
// round since the scheduler fills it in as entries are scheduled,
// before every page's links are known).
func (s *Scheduler) forwardPath(src string) (string, bool) {
	for web, rsrc := range s.ReversePaths {
		if rsrc == src {
			return web, true
		}
	}
	return "", false
}
