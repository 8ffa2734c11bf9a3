// ABOUTME: MCP server setup for cohost posting
// ABOUTME: Wires tools, resources, and prompts over a logged-in session

package mcp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/chost"
)

// Poster is the posting surface the tools need. *chost.Session satisfies it.
type Poster interface {
	CreatePost(ctx context.Context, project string, post *chost.Post) (chost.PostID, error)
	EditPost(ctx context.Context, project string, id chost.PostID, post *chost.Post) (chost.PostID, error)
	SharePost(ctx context.Context, project string, shareOf chost.PostID, post *chost.Post) (chost.PostID, error)
	DeletePost(ctx context.Context, project string, id chost.PostID) error
}

// Server exposes posting tools over the Model Context Protocol.
type Server struct {
	session Poster
	db      *sql.DB
	project string
	mcp     *mcp.Server
}

// NewServer creates an MCP server posting as project, recording published
// posts in the local archive db.
func NewServer(session Poster, db *sql.DB, project string) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if db == nil {
		return nil, fmt.Errorf("archive database is required")
	}
	if project == "" {
		return nil, chost.ErrNoProject
	}

	s := &Server{
		session: session,
		db:      db,
		project: project,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "chost",
			Version: "1.0.0",
		}, nil),
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s, nil
}

// Serve runs the server over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
