// ABOUTME: MCP resource implementations
// ABOUTME: Read-only archive access via MCP resources

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/chost/internal/store"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "chost://archive",
		Name:        "Post Archive",
		Description: "Posts recorded for the configured project",
		MIMEType:    "application/json",
	}, s.handleArchiveResource)

	s.mcp.AddResource(&mcp.Resource{
		URI:         "chost://drafts",
		Name:        "Queued Drafts",
		Description: "Drafts queued locally, not yet published",
		MIMEType:    "application/json",
	}, s.handleDraftsResource)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "chost://projects/{project}/posts",
		Name:        "Project Posts",
		Description: "Archived posts for a specific project",
		MIMEType:    "text/markdown",
	}, s.handleProjectPostsResource)
}

func (s *Server) handleArchiveResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	posts, err := store.ListPosts(s.db, s.project)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(posts, "", "  ")
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "chost://archive",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleDraftsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	drafts, err := store.ListDrafts(s.db, s.project)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(drafts, "", "  ")
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "chost://drafts",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleProjectPostsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	// Extract project from URI
	parts := strings.Split(req.Params.URI, "/")
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid URI")
	}
	project := parts[3]

	posts, err := store.ListPosts(s.db, project)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# @%s\n\n", project))

	for _, post := range posts {
		headline := post.Headline
		if headline == "" {
			headline = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("## %s · post %d\n\n", headline, post.ID))
		if len(post.CWs) > 0 {
			sb.WriteString(fmt.Sprintf("*CW: %s*\n\n", strings.Join(post.CWs, ", ")))
		}
		sb.WriteString(post.Markdown)
		sb.WriteString("\n\n")
		if len(post.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("#%s\n\n", strings.Join(post.Tags, " #")))
		}
		sb.WriteString("---\n\n")
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     sb.String(),
		}},
	}, nil
}
