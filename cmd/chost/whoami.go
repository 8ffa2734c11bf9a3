// ABOUTME: Whoami command
// ABOUTME: Shows the configured account, project, and sync state

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost/internal/cache"
	"github.com/harper/chost/internal/creds"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the configured account and project",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, err := creds.Resolve()
	if err != nil {
		color.Yellow("No credentials: %v", err)
	} else {
		local, domain := creds.SplitEmail(c.Email)
		fmt.Printf("Account: %s@%s\n", local, domain)
	}

	projectName := creds.Project(projectFlag, cfg.Project)
	if projectName == "" {
		fmt.Println("Project: (none, set COHOST_PROJECT or --project)")
	} else {
		fmt.Printf("Project: @%s\n", projectName)
	}

	cfg.ApplyEnvironment()
	if err := cache.InitGlobal(); err != nil {
		fmt.Println("Sync: not initialized")
		return nil
	}
	client, err := cache.Global()
	if err != nil {
		fmt.Println("Sync: not initialized")
		return nil
	}

	charmID, err := client.ID()
	if err != nil {
		fmt.Println("Sync: not linked")
	} else {
		fmt.Printf("Charm ID: %s\n", charmID[:8])
		fmt.Printf("Sync: enabled (host: %s)\n", cfg.GetCharmHost())
	}

	return nil
}
