// ABOUTME: Sync CLI commands for Charm cloud synchronization
// ABOUTME: Pushes and pulls the archive, manages device linking

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	charmclient "github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/ui/link"
	"github.com/charmbracelet/charm/ui/linkgen"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost/internal/cache"
	"github.com/harper/chost/internal/config"
	"github.com/harper/chost/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the post archive across devices",
	Long: `Replicate your post archive to the cloud using Charm.

Authentication is automatic via SSH keys - no passwords needed.
Your archive is encrypted end-to-end before leaving your device.

Commands:
  push    - Copy the local archive to the cloud replica
  pull    - Merge the cloud replica into the local archive
  status  - Show sync status and user info
  link    - Link this device to your Charm account
  wipe    - Clear the replica and re-sync from cloud`,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy the local archive to the cloud replica",
	RunE:  runSyncPush,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge the cloud replica into the local archive",
	RunE:  runSyncPull,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runSyncStatus,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link [code]",
	Short: "Link this device to your Charm account",
	Long: `Link multiple machines to your Charm account.

Run without arguments to generate a link code.
Run with a code to link to an existing account.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSyncLink,
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Wipe the local replica and re-sync from cloud",
	Long: `Clear the local Charm KV replica and re-sync from cloud.

This is useful if your replica is corrupted or out of sync.
Your cloud data and your sqlite archive will NOT be affected.`,
	RunE: runSyncWipe,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd, syncLinkCmd, syncWipeCmd)
}

func openReplica() (*cache.Client, error) {
	cfg.ApplyEnvironment()
	if err := cache.InitGlobal(); err != nil {
		return nil, fmt.Errorf("charm replica not available: %w", err)
	}
	return cache.Global()
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	replica, err := openReplica()
	if err != nil {
		return err
	}

	projects, err := store.ListProjects(dbConn)
	if err != nil {
		return err
	}

	pushed := 0
	for _, projectName := range projects {
		posts, err := store.ListPosts(dbConn, projectName)
		if err != nil {
			return err
		}
		for _, post := range posts {
			if err := replica.PutPost(post); err != nil {
				return fmt.Errorf("push %s/%d: %w", projectName, post.ID, err)
			}
			pushed++
		}
	}

	color.Green("Pushed %d posts to the cloud replica", pushed)
	return nil
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	replica, err := openReplica()
	if err != nil {
		return err
	}

	projects, err := replica.ListProjects()
	if err != nil {
		return err
	}

	pulled := 0
	for _, projectName := range projects {
		posts, err := replica.ListPosts(projectName)
		if err != nil {
			return err
		}
		for _, post := range posts {
			if err := store.RecordPost(dbConn, post); err != nil {
				return fmt.Errorf("pull %s/%d: %w", projectName, post.ID, err)
			}
			pulled++
		}
	}

	color.Green("Pulled %d posts into the local archive", pulled)
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("Sync Status")
	fmt.Println("───────────")

	fmt.Printf("Config:     %s\n", config.GetConfigPath())
	fmt.Printf("Charm Host: %s\n", cfg.GetCharmHost())

	client, err := openReplica()
	if err != nil {
		fmt.Print("\nStatus:     ")
		color.Yellow("Not initialized")
		fmt.Println()
		fmt.Println("\nRun 'chost sync link' to link this device.")
		return nil
	}

	userID, err := client.ID()
	if err != nil {
		fmt.Print("\nStatus:     ")
		color.Yellow("Not linked")
		fmt.Println()
		fmt.Println("\nRun 'chost sync link' to link this device.")
		return nil
	}

	fmt.Printf("User ID:    %s\n", strings.TrimSpace(userID))
	fmt.Print("\nStatus:     ")
	color.Green("Connected")
	fmt.Println()

	cc := client.CharmClient()
	keys, err := cc.AuthorizedKeys()
	if err == nil && keys != "" {
		lines := strings.Split(strings.TrimSpace(keys), "\n")
		fmt.Printf("Devices:    %d linked\n", len(lines))
	}

	return nil
}

func runSyncLink(cmd *cobra.Command, args []string) error {
	cfg.ApplyEnvironment()

	charmCfg, err := getCharmConfig()
	if err != nil {
		return fmt.Errorf("get charm config: %w", err)
	}

	var p *tea.Program
	if len(args) == 0 {
		fmt.Println("Generating link code...")
		fmt.Println("Share this code with another device to link it to your account.")
		fmt.Println()
		p = linkgen.NewProgram(charmCfg, "chost")
	} else {
		fmt.Println("Linking to existing account...")
		fmt.Println()
		p = link.NewProgram(charmCfg, args[0])
	}

	if _, err := p.Run(); err != nil {
		return err
	}

	color.Green("\n✓ Device linked successfully")
	return nil
}

func runSyncWipe(cmd *cobra.Command, args []string) error {
	client, err := openReplica()
	if err != nil {
		return err
	}

	fmt.Println("This will DELETE the local cloud replica and re-sync from the cloud.")
	fmt.Println("Your cloud data and sqlite archive will NOT be affected.")
	fmt.Print("\nType 'wipe' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	confirmation = strings.TrimSpace(confirmation)

	if confirmation != "wipe" {
		fmt.Println("Aborted.")
		return nil
	}

	fmt.Println("\nWiping local replica...")
	if err := client.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	color.Green("✓ Local replica wiped and re-synced from cloud")
	return nil
}

// getCharmConfig returns the charm client configuration.
func getCharmConfig() (*charmclient.Config, error) {
	cfg.ApplyEnvironment()

	charmCfg, err := charmclient.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.CharmHost != "" {
		charmCfg.Host = cfg.CharmHost
	}

	return charmCfg, nil
}
