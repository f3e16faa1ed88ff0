package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quillssg/quill"
	"github.com/quillssg/quill/render"
	"github.com/quillssg/quill/sitemap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the project's site map into dist_root",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		sink, entries, err := runScript(cfg)
		if err != nil {
			return err
		}
		render.Diagnostics(os.Stderr, sink.Diagnostics())

		sched := sitemap.NewScheduler(quill.NewRegistry(sink), sink, cfg.SrcRoot, cfg.DistRoot)
		if err := sched.Run(entries); err != nil {
			return err
		}
		if sink.HasErrors() {
			cmd.SilenceUsage = true
			return errBuildHadErrors
		}
		return nil
	},
}

var errBuildHadErrors = buildErr("quill: build completed with errors")

type buildErr string

func (e buildErr) Error() string { return string(e) }
