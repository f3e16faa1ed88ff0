// Command quill is the CLI dispatch collaborator spec.md §1 places out
// of core scope ("CLI command dispatch, argument parsing, colour-coded
// terminal output"), a thin host around the quill runtime: it loads a
// project's root script, evaluates it to populate SITE_MAP, and replays
// that site map through the sitemap.Scheduler. Grounded on
// adest-aes-scripts/go-tools/cmd/devshell's cmd_root.go (a cobra root
// command with subcommands dispatching into the real work).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagSrcRoot  string
	flagDistRoot string
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Build a site driven by a quill script",
	Long:  "quill renders a project's root script and templates into a static site.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "quill.yaml", "project config file")
	rootCmd.PersistentFlags().StringVar(&flagSrcRoot, "src", "", "override src_root")
	rootCmd.PersistentFlags().StringVar(&flagDistRoot, "dist", "", "override dist_root")
	rootCmd.AddCommand(buildCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig loads flagConfig and applies any --src/--dist overrides.
func resolveConfig() (projectConfig, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagSrcRoot != "" {
		cfg.SrcRoot = flagSrcRoot
	}
	if flagDistRoot != "" {
		cfg.DistRoot = flagDistRoot
	}
	return cfg, nil
}
