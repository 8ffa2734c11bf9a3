// ABOUTME: Tests for TUI components
// ABOUTME: Verifies model initialization and basic state

package tui

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/harper/chost/internal/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := store.Init(":memory:")
	if err != nil {
		t.Fatalf("Failed to init test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNewModel(t *testing.T) {
	conn := setupTestDB(t)

	model := NewModel(conn, "")
	if model.db == nil {
		t.Error("Model db should not be nil")
	}
}

func TestModelInit(t *testing.T) {
	conn := setupTestDB(t)

	model := NewModel(conn, "")
	cmd := model.Init()
	if cmd == nil {
		t.Error("Init should return a command to load projects")
	}
}

func TestProjectsLoaded(t *testing.T) {
	conn := setupTestDB(t)

	store.RecordPost(conn, &store.Post{ID: 1, Project: "egg", Markdown: "x", State: 1})
	store.RecordPost(conn, &store.Post{ID: 2, Project: "bug", Markdown: "y", State: 1})

	model := NewModel(conn, "")
	msg := model.projects.LoadProjects()()
	loaded, ok := msg.(ProjectsLoadedMsg)
	if !ok {
		t.Fatalf("expected ProjectsLoadedMsg, got %T", msg)
	}
	if len(loaded.Projects) != 2 {
		t.Errorf("expected 2 projects, got %d", len(loaded.Projects))
	}
}

func TestPostsNavigation(t *testing.T) {
	m := NewPostsModel(nil)
	m.SetPosts([]*store.Post{
		{ID: 1, Project: "egg", Headline: "a"},
		{ID: 2, Project: "egg", Headline: "b"},
	})

	if m.Selected().ID != 1 {
		t.Errorf("cursor should start at first post")
	}
	m.MoveDown()
	if m.Selected().ID != 2 {
		t.Errorf("MoveDown should advance cursor")
	}
	m.MoveDown()
	if m.Selected().ID != 2 {
		t.Errorf("cursor should stop at last post")
	}
	m.MoveUp()
	if m.Selected().ID != 1 {
		t.Errorf("MoveUp should retreat cursor")
	}
}

func TestDetailView(t *testing.T) {
	m := NewDetailModel()
	if m.View() == "" {
		t.Error("empty detail view should still render placeholder")
	}

	m.SetPost(&store.Post{ID: 4711, Project: "egg", Headline: "hi", Markdown: "body", Tags: []string{"x"}})
	view := m.View()
	for _, want := range []string{"hi", "body", "@egg", "#x"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}
