// ABOUTME: Draft queue CLI commands
// ABOUTME: Queues posts locally and publishes them later in order

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost/internal/store"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage the local draft queue",
	Long: `Queue posts locally without contacting the server, then publish
the whole queue in order with 'chost draft publish'. Useful for
writing offline.`,
}

var draftAddCmd = &cobra.Command{
	Use:   "add <markdown>",
	Short: "Queue a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftAdd,
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued drafts",
	RunE:  runDraftList,
}

var draftPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish all queued drafts, oldest first",
	RunE:  runDraftPublish,
}

func init() {
	draftAddCmd.Flags().StringVar(&headlineFlag, "headline", "", "post headline")
	draftAddCmd.Flags().StringArrayVar(&tagFlags, "tag", nil, "tag (repeatable)")
	draftAddCmd.Flags().StringArrayVar(&cwFlags, "cw", nil, "content warning (repeatable)")
	draftAddCmd.Flags().BoolVar(&adultFlag, "adult", false, "mark as adult content")
	draftAddCmd.Flags().StringArrayVar(&attachFlags, "attach", nil, "file to attach (repeatable)")

	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftAddCmd, draftListCmd, draftPublishCmd)
}

func runDraftAdd(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	draft := store.NewDraft(projectName, headlineFlag, args[0])
	draft.Tags = tagFlags
	draft.CWs = cwFlags
	draft.AdultContent = adultFlag
	draft.Attachments = attachFlags

	if err := store.QueueDraft(dbConn, draft); err != nil {
		return fmt.Errorf("failed to queue draft: %w", err)
	}

	color.Green("Draft queued")
	fmt.Printf("Draft ID: %s\n", draft.ID.String()[:8])
	return nil
}

func runDraftList(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	drafts, err := store.ListDrafts(dbConn, projectName)
	if err != nil {
		return err
	}

	if len(drafts) == 0 {
		fmt.Println("No drafts queued.")
		return nil
	}

	for _, draft := range drafts {
		title := draft.Headline
		if title == "" {
			title = draft.Markdown
			if len(title) > 40 {
				title = title[:40] + "..."
			}
		}
		fmt.Printf("%s  %s  (%d attachments)\n", draft.ID.String()[:8], title, len(draft.Attachments))
	}
	return nil
}

func runDraftPublish(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	drafts, err := store.ListDrafts(dbConn, projectName)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts queued.")
		return nil
	}

	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	for _, draft := range drafts {
		post, err := buildPost(draft.Headline, draft.Markdown, draft.Tags, draft.CWs, draft.AdultContent, false, draft.Attachments)
		if err != nil {
			return fmt.Errorf("draft %s: %w", draft.ID.String()[:8], err)
		}

		id, err := session.CreatePost(cmd.Context(), projectName, post)
		if err != nil {
			return fmt.Errorf("draft %s: %w", draft.ID.String()[:8], err)
		}

		if err := record(projectName, id, post); err != nil {
			return err
		}
		if err := store.DeleteDraft(dbConn, draft.ID); err != nil {
			return err
		}

		color.Green("Published draft %s as post %d", draft.ID.String()[:8], id)
	}
	return nil
}
