// ABOUTME: Post and edit CLI commands
// ABOUTME: Publishes new posts and replaces existing ones

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/store"
)

var (
	headlineFlag string
	tagFlags     []string
	cwFlags      []string
	adultFlag    bool
	draftFlag    bool
	attachFlags  []string
)

var postCmd = &cobra.Command{
	Use:   "post [markdown]",
	Short: "Publish a post to your project page",
	Long: `Publish a post. Blank lines in the markdown body become block
boundaries. Attachments upload before the post goes live; if any
upload fails the post stays behind as a draft and can be retried
with 'chost edit'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

var editCmd = &cobra.Command{
	Use:   "edit <post-id> [markdown]",
	Short: "Replace the contents of a post",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runEdit,
}

func init() {
	for _, cmd := range []*cobra.Command{postCmd, editCmd} {
		cmd.Flags().StringVar(&headlineFlag, "headline", "", "post headline")
		cmd.Flags().StringArrayVar(&tagFlags, "tag", nil, "tag (repeatable)")
		cmd.Flags().StringArrayVar(&cwFlags, "cw", nil, "content warning (repeatable)")
		cmd.Flags().BoolVar(&adultFlag, "adult", false, "mark as adult content")
		cmd.Flags().BoolVar(&draftFlag, "draft", false, "save as draft instead of publishing")
		cmd.Flags().StringArrayVar(&attachFlags, "attach", nil, "file to attach (repeatable)")
	}
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(editCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	markdown := ""
	if len(args) > 0 {
		markdown = args[0]
	}
	post, err := buildPost(headlineFlag, markdown, tagFlags, cwFlags, adultFlag, draftFlag, attachFlags)
	if err != nil {
		return err
	}

	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	id, err := session.CreatePost(cmd.Context(), projectName, post)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	if err := record(projectName, id, post); err != nil {
		return err
	}

	color.Green("Posted to @%s", projectName)
	fmt.Printf("Post ID: %d\n", id)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	id, err := store.ResolvePostID(dbConn, projectName, args[0])
	if err != nil {
		return fmt.Errorf("post not found: %s", args[0])
	}

	markdown := ""
	if len(args) > 1 {
		markdown = args[1]
	}
	post, err := buildPost(headlineFlag, markdown, tagFlags, cwFlags, adultFlag, draftFlag, attachFlags)
	if err != nil {
		return err
	}

	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	if _, err := session.EditPost(cmd.Context(), projectName, chost.PostID(id), post); err != nil {
		return fmt.Errorf("failed to edit: %w", err)
	}

	if err := record(projectName, chost.PostID(id), post); err != nil {
		return err
	}

	color.Green("Post %d updated", id)
	return nil
}
