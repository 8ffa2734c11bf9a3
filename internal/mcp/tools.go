// ABOUTME: MCP tool implementations
// ABOUTME: Posting operations exposed as MCP tools

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/store"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "create_post",
		Description: "Publish a new post to the project page",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"headline":{"type":"string"},"markdown":{"type":"string","description":"Post body, blank lines separate blocks"},"tags":{"type":"array","items":{"type":"string"}},"content_warnings":{"type":"array","items":{"type":"string"}},"adult_content":{"type":"boolean"},"draft":{"type":"boolean","description":"Save as draft instead of publishing"},"attachments":{"type":"array","items":{"type":"string"},"description":"File paths to attach"}}}`),
	}, s.handleCreatePost)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "edit_post",
		Description: "Replace the contents of an existing post",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"post_id":{"type":"string","description":"Post ID or unique prefix"},"headline":{"type":"string"},"markdown":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}},"content_warnings":{"type":"array","items":{"type":"string"}},"adult_content":{"type":"boolean"},"draft":{"type":"boolean"},"attachments":{"type":"array","items":{"type":"string"}}},"required":["post_id"]}`),
	}, s.handleEditPost)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "share_post",
		Description: "Share another post, optionally with commentary",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"share_of":{"type":"string","description":"ID of the post to share"},"markdown":{"type":"string","description":"Optional commentary"},"tags":{"type":"array","items":{"type":"string"}}},"required":["share_of"]}`),
	}, s.handleSharePost)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "delete_post",
		Description: "Delete a post from the project page",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"post_id":{"type":"string","description":"Post ID or unique prefix"}},"required":["post_id"]}`),
	}, s.handleDeletePost)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_posts",
		Description: "List posts recorded in the local archive",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"project":{"type":"string","description":"Project handle, defaults to the configured project"}}}`),
	}, s.handleListPosts)
}

// buildPost assembles a post from tool arguments, attaching files by path.
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
func (s *Server) record(id chost.PostID, post *chost.Post) {
	state := 1
	if post.Draft {
		state = 0
	}
	store.RecordPost(s.db, &store.Post{
		ID:           uint64(id),
		Project:      s.project,
		Headline:     post.Headline,
		Markdown:     post.Markdown,
		State:        state,
		AdultContent: post.AdultContent,
		Tags:         post.Tags,
		CWs:          post.ContentWarnings,
	})
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

type postArgs struct {
	PostID          string   `json:"post_id"`
	Headline        string   `json:"headline"`
	Markdown        string   `json:"markdown"`
	Tags            []string `json:"tags"`
	ContentWarnings []string `json:"content_warnings"`
	AdultContent    bool     `json:"adult_content"`
	Draft           bool     `json:"draft"`
	Attachments     []string `json:"attachments"`
}

func (s *Server) handleCreatePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args postArgs
	json.Unmarshal(req.Params.Arguments, &args)

	post, err := buildPost(args.Headline, args.Markdown, args.Tags, args.ContentWarnings, args.AdultContent, args.Draft, args.Attachments)
	if err != nil {
		return toolError(err), nil
	}

	id, err := s.session.CreatePost(ctx, s.project, post)
	if err != nil {
		return toolError(err), nil
	}

	s.record(id, post)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Created post %d on %s", id, s.project)}},
	}, nil
}

func (s *Server) handleEditPost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args postArgs
	json.Unmarshal(req.Params.Arguments, &args)

	id, err := store.ResolvePostID(s.db, s.project, args.PostID)
	if err != nil {
		return toolError(err), nil
	}

	post, err := buildPost(args.Headline, args.Markdown, args.Tags, args.ContentWarnings, args.AdultContent, args.Draft, args.Attachments)
	if err != nil {
		return toolError(err), nil
	}

	if _, err := s.session.EditPost(ctx, s.project, chost.PostID(id), post); err != nil {
		return toolError(err), nil
	}

	s.record(chost.PostID(id), post)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Updated post %d", id)}},
	}, nil
}

func (s *Server) handleSharePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ShareOf  string   `json:"share_of"`
		Markdown string   `json:"markdown"`
		Tags     []string `json:"tags"`
	}
	json.Unmarshal(req.Params.Arguments, &args)

	shareOf, err := chost.ParsePostID(args.ShareOf)
	if err != nil {
		return toolError(err), nil
	}

	post := &chost.Post{Markdown: args.Markdown, Tags: args.Tags}
	id, err := s.session.SharePost(ctx, s.project, shareOf, post)
	if err != nil {
		return toolError(err), nil
	}

	s.record(id, post)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Shared post %d as %d", shareOf, id)}},
	}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		PostID string `json:"post_id"`
	}
	json.Unmarshal(req.Params.Arguments, &args)

	id, err := store.ResolvePostID(s.db, s.project, args.PostID)
	if err != nil {
		return toolError(err), nil
	}

	if err := s.session.DeletePost(ctx, s.project, chost.PostID(id)); err != nil {
		return toolError(err), nil
	}

	store.DeletePost(s.db, s.project, id)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Deleted post %d", id)}},
	}, nil
}

func (s *Server) handleListPosts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Project string `json:"project"`
	}
	json.Unmarshal(req.Params.Arguments, &args)

	project := args.Project
	if project == "" {
		project = s.project
	}

	posts, err := store.ListPosts(s.db, project)
	if err != nil {
		return toolError(err), nil
	}

	result, _ := json.Marshal(posts)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(result)}},
	}, nil
}
