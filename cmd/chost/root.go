// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure, config, and the archive database

package main

import (
	"context"
	"database/sql"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/config"
	"github.com/harper/chost/internal/creds"
	"github.com/harper/chost/internal/store"
)

var (
	dbPath      string
	projectFlag string
	dbConn      *sql.DB
	cfg         *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chost",
	Short: "Post to cohost from the command line",
	Long: `
 ██████╗██╗  ██╗ ██████╗ ███████╗████████╗
██╔════╝██║  ██║██╔═══██╗██╔════╝╚══██╔══╝
██║     ███████║██║   ██║███████╗   ██║
██║     ██╔══██║██║   ██║╚════██║   ██║
╚██████╗██║  ██║╚██████╔╝███████║   ██║
 ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝   ╚═╝

Write, share, and browse posts on cohost.

Set COHOST_EMAIL and COHOST_PASSWORD to log in, and COHOST_PROJECT
(or --project) to pick the page to post as.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		path := dbPath
		if path == "" {
			path = store.DefaultPath()
		}
		dbConn, err = store.Init(path)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbConn != nil {
			return dbConn.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "archive database path")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "project page to post as")
}

// project resolves the project handle from flag, environment, and config.
func project() (string, error) {
	p := creds.Project(projectFlag, cfg.Project)
	if p == "" {
		return "", chost.ErrNoProject
	}
	return p, nil
}

// newSession logs in with credentials from the environment.
func newSession(ctx context.Context) (*chost.Session, error) {
	c, err := creds.Resolve()
	if err != nil {
		return nil, err
	}

	client := chost.NewClient()
	if cfg.APIBase != "" {
		client = client.WithBaseURL(cfg.APIBase)
	}
	return client.Login(ctx, c.Email, c.Password)
}

// buildPost assembles a post, attaching files by path.
func buildPost(headline, markdown string, tags, cws []string, adult, draft bool, attachments []string) (*chost.Post, error) {
	post := &chost.Post{
		Headline:        headline,
		Markdown:        markdown,
		Tags:            tags,
		ContentWarnings: cws,
		AdultContent:    adult,
		Draft:           draft,
	}
	for _, path := range attachments {
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		att, err := chost.NewAttachmentFromFile(path, contentType)
		if err != nil {
			return nil, err
		}
		post.Attachments = append(post.Attachments, att)
	}
	return post, nil
}

// record mirrors a published post into the local archive.
func record(projectName string, id chost.PostID, post *chost.Post) error {
	state := 1
	if post.Draft {
		state = 0
	}
	return store.RecordPost(dbConn, &store.Post{
		ID:           uint64(id),
		Project:      projectName,
		Headline:     post.Headline,
		Markdown:     post.Markdown,
		State:        state,
		AdultContent: post.AdultContent,
		Tags:         post.Tags,
		CWs:          post.ContentWarnings,
	})
}
