// ABOUTME: MCP server command implementation
// ABOUTME: Starts the posting MCP server in stdio mode

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/chost/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents like Claude
to write, share, and manage posts through a standardized protocol.
Credentials come from COHOST_EMAIL and COHOST_PASSWORD.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	projectName, err := project()
	if err != nil {
		return err
	}

	session, err := newSession(ctx)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(session, dbConn, projectName)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
