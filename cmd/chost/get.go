// ABOUTME: Get and list CLI commands
// ABOUTME: Fetches published posts and browses the local archive

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/store"
)

var getCmd = &cobra.Command{
	Use:   "get [page]",
	Short: "Fetch a page of published posts",
	Long: `Fetch published posts from your project page, newest first, and
record them in the local archive. Pages start at 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts in the local archive",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	var page uint64
	if len(args) > 0 {
		page, err = strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid page: %s", args[0])
		}
	}

	client := chost.NewClient()
	if cfg.APIBase != "" {
		client = client.WithBaseURL(cfg.APIBase)
	}

	posts, err := client.GetPostsPage(cmd.Context(), projectName, page)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	for _, post := range posts {
		if err := record(projectName, post.ID, &post.Post); err != nil {
			return err
		}
		printPost(post.ID, &post.Post)
	}

	color.Green("Fetched %d posts from @%s (page %d)", len(posts), projectName, page)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	projectName, err := project()
	if err != nil {
		return err
	}

	posts, err := store.ListPosts(dbConn, projectName)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Printf("No posts recorded for @%s. Run 'chost get' to fetch some.\n", projectName)
		return nil
	}

	for _, post := range posts {
		title := post.Headline
		if title == "" {
			title = "(untitled)"
		}
		state := ""
		if post.State == 0 {
			state = " [draft]"
		}
		fmt.Printf("%-10d %s%s\n", post.ID, title, state)
	}
	return nil
}

func printPost(id chost.PostID, post *chost.Post) {
	if post.Headline != "" {
		color.Cyan("%s", post.Headline)
	}
	fmt.Printf("post %d\n", id)
	if len(post.ContentWarnings) > 0 {
		color.Yellow("CW: %s", strings.Join(post.ContentWarnings, ", "))
	}
	if post.Markdown != "" {
		fmt.Println(post.Markdown)
	}
	for _, att := range post.Attachments {
		fmt.Printf("  [attachment %s]\n", att.URL())
	}
	if len(post.Tags) > 0 {
		fmt.Printf("#%s\n", strings.Join(post.Tags, " #"))
	}
	fmt.Println("---")
}
