package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillssg/quill/render"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate the root script and report diagnostics without writing files",
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
		fmt.Fprintf(os.Stdout, "quill: %d site-map entries, %d diagnostics\n", len(entries), len(sink.Diagnostics()))
		if sink.HasErrors() {
			cmd.SilenceUsage = true
			return errBuildHadErrors
		}
		return nil
	},
}
