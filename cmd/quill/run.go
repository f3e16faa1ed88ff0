package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/quillssg/quill"
	"github.com/quillssg/quill/builtins"
	"github.com/quillssg/quill/sitemap"
)

// rootScriptName is the conventional root script filename under
// src_root (spec.md §6: "the root index file"; project discovery itself
// is out of core scope, so a fixed conventional name stands in for it).
const rootScriptName = "index.quill"

// runScript evaluates cfg's root script, returning the diagnostic sink
// and the decoded SITE_MAP entries it accumulated. It never returns an
// error for ordinary evaluation problems (those are diagnostics on the
// sink, per spec.md §7's report-and-continue policy); it returns an
// error only for the host-boundary failures spec.md §7 calls out as
// hard failures (missing SRC_ROOT, unreadable root script).
func runScript(cfg projectConfig) (*quill.Sink, []sitemap.Entry, error) {
	sink := quill.NewSink()
	reg := quill.NewRegistry(sink)

	rootPath := filepath.Join(cfg.SrcRoot, rootScriptName)
	if _, err := os.Stat(rootPath); err != nil {
		return sink, nil, errors.Wrapf(err, "quill: root script %q", rootPath)
	}
	mod, err := reg.Load(rootPath, quill.ModuleUser, true)
	if err != nil {
		return sink, nil, err
	}

	arena := quill.NewArena()
	env := quill.NewEnvironment(arena, sink)
	env.Define(quill.SymSrcRoot, arena.NewString(cfg.SrcRoot))
	env.Define(quill.SymDistRoot, arena.NewString(cfg.DistRoot))
	env.Define(quill.SymRootURL, arena.NewString(cfg.RootURL))
	env.Define(quill.SymRootPath, arena.NewString("/"))
	env.Define(quill.SymSiteMap, arena.NewArray())
	env.Define(quill.SymReversePaths, arena.NewObject())
	builtins.Register(env)

	if mod.ParseError {
		return sink, nil, nil
	}
	if _, err := quill.EvalModule(mod, env); err != nil {
		return sink, nil, err
	}

	siteMapVal, _ := env.Lookup(quill.SymSiteMap)
	entries := sitemap.DecodeEntries(siteMapVal)
	return sink, entries, nil
}
