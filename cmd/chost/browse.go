// ABOUTME: Browse CLI command
// ABOUTME: Opens the interactive archive browser

package main

import (
	"github.com/spf13/cobra"

	"github.com/harper/chost/internal/creds"
	"github.com/harper/chost/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the post archive interactively",
	Long: `Open a three-pane browser over the local post archive:
projects, posts, and post content. Run 'chost get' first to
populate the archive.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Browsing works without a configured project; it just preselects one.
	projectName := creds.Project(projectFlag, cfg.Project)
	return tui.Run(dbConn, projectName)
}
