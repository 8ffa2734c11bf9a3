// ABOUTME: MCP prompt templates
// ABOUTME: Guided workflows for common posting tasks

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "write-post",
		Description: "Write and publish a post on a topic",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "What the post should be about", Required: true},
			{Name: "headline", Description: "Optional headline for the post"},
		},
	}, s.handleWritePostPrompt)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "share-post",
		Description: "Share a post with commentary",
		Arguments: []*mcp.PromptArgument{
			{Name: "post_id", Description: "ID of the post to share", Required: true},
		},
	}, s.handleSharePostPrompt)
}

func (s *Server) handleWritePostPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	headline := req.Params.Arguments["headline"]

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Write a post about %s", topic),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: fmt.Sprintf(`Write a post for the @%s page.

Topic: %s
Headline: %s

Use the create_post tool. Separate paragraphs with blank lines; each
becomes its own block. Add relevant tags and content warnings where
appropriate.`, s.project, topic, headline),
				},
			},
		},
	}, nil
}

func (s *Server) handleSharePostPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	postID := req.Params.Arguments["post_id"]

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Share post %s", postID),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: fmt.Sprintf(`Share post %s from the @%s page.

Use the share_post tool. Commentary is optional; an empty share is
fine if the post speaks for itself. If you add commentary, keep it
short and in the page's voice.`, postID, s.project),
				},
			},
		},
	}, nil
}
