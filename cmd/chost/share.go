// ABOUTME: Share and delete CLI commands
// ABOUTME: Shares posts with optional commentary, deletes posts

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/store"
)

var shareTagFlags []string

var shareCmd = &cobra.Command{
	Use:   "share <post-id> [commentary]",
	Short: "Share a post, optionally with commentary",
	Long: `Share a post onto your project page. The post ID is the numeric ID
from the post's URL; it does not have to be one of your own posts.
Commentary is optional, an empty share is valid.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShare,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	shareCmd.Flags().StringArrayVar(&shareTagFlags, "tag", nil, "tag (repeatable)")
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	shareOf, err := chost.ParsePostID(args[0])
	if err != nil {
		return fmt.Errorf("invalid post id: %s", args[0])
	}

	post := &chost.Post{Tags: shareTagFlags}
	if len(args) > 1 {
		post.Markdown = args[1]
	}

	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	id, err := session.SharePost(cmd.Context(), projectName, shareOf, post)
	if err != nil {
		return fmt.Errorf("failed to share: %w", err)
	}

	if err := record(projectName, id, post); err != nil {
		return err
	}

	color.Green("Shared post %d as %d", shareOf, id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	id, err := store.ResolvePostID(dbConn, projectName, args[0])
	if err != nil {
		// Not in the archive; accept a full numeric ID.
		parsed, perr := chost.ParsePostID(args[0])
		if perr != nil {
			return fmt.Errorf("post not found: %s", args[0])
		}
		id = uint64(parsed)
	}

	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	if err := session.DeletePost(cmd.Context(), projectName, chost.PostID(id)); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	store.DeletePost(dbConn, projectName, id)

	color.Green("Post %d deleted", id)
	return nil
}
