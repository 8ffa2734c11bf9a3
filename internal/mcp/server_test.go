// ABOUTME: Tests for MCP server initialization
// ABOUTME: Verifies server creation and argument validation

package mcp

import (
	"context"
	"testing"

	"github.com/harper/chost"
	"github.com/harper/chost/internal/store"
)

type fakePoster struct{}

func (fakePoster) CreatePost(ctx context.Context, project string, post *chost.Post) (chost.PostID, error) {
	return 1, nil
}

func (fakePoster) EditPost(ctx context.Context, project string, id chost.PostID, post *chost.Post) (chost.PostID, error) {
	return id, nil
}

func (fakePoster) SharePost(ctx context.Context, project string, shareOf chost.PostID, post *chost.Post) (chost.PostID, error) {
	return 2, nil
}

func (fakePoster) DeletePost(ctx context.Context, project string, id chost.PostID) error {
	return nil
}

func TestNewServerRequiresSession(t *testing.T) {
	db, err := store.Init(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := NewServer(nil, db, "egg"); err == nil {
		t.Error("NewServer should fail with nil session")
	}
}

func TestNewServerRequiresDB(t *testing.T) {
	if _, err := NewServer(fakePoster{}, nil, "egg"); err == nil {
		t.Error("NewServer should fail with nil database")
	}
}

func TestNewServerRequiresProject(t *testing.T) {
	db, err := store.Init(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := NewServer(fakePoster{}, db, ""); err == nil {
		t.Error("NewServer should fail with empty project")
	}
}

func TestNewServerSuccess(t *testing.T) {
	db, err := store.Init(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	server, err := NewServer(fakePoster{}, db, "egg")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server == nil {
		t.Error("NewServer returned nil server")
	}
}
