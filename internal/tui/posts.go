// ABOUTME: Posts pane component
// ABOUTME: Lists archived posts for the selected project

package tui

import (
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/chost/internal/store"
)

type PostsLoadedMsg struct {
	Posts []*store.Post
}

type PostsModel struct {
	db      *sql.DB
	posts   []*store.Post
	cursor  int
	project string
}

func NewPostsModel(database *sql.DB) PostsModel {
	return PostsModel{db: database, cursor: 0}
}

func (m *PostsModel) LoadPosts(project string) tea.Cmd {
	m.project = project
	return func() tea.Msg {
		posts, err := store.ListPosts(m.db, project)
		if err != nil {
			return err
		}
		return PostsLoadedMsg{Posts: posts}
	}
}

func (m *PostsModel) SetPosts(posts []*store.Post) {
	m.posts = posts
	m.cursor = 0
}

func (m *PostsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *PostsModel) MoveDown() {
	if m.cursor < len(m.posts)-1 {
		m.cursor++
	}
}

func (m *PostsModel) Selected() *store.Post {
	if m.cursor >= 0 && m.cursor < len(m.posts) {
		return m.posts[m.cursor]
	}
	return nil
}

func (m PostsModel) View() string {
	if len(m.posts) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No posts\n\nSelect a project")
	}

	var s string
	s += lipgloss.NewStyle().Bold(true).Render("Posts") + "\n\n"

	for i, post := range m.posts {
		cursor := "  "
		style := lipgloss.NewStyle()

		if i == m.cursor {
			cursor = "> "
			style = style.Foreground(lipgloss.Color("86"))
		}

		title := post.Headline
		if title == "" {
			title = firstLine(post.Markdown)
		}
		if title == "" {
			title = "(untitled)"
		}

		draft := ""
		if post.State == 0 {
			draft = " (draft)"
			style = style.Faint(true)
		}

		s += fmt.Sprintf("%s%s%s\n", cursor, style.Render(truncate(title, 40)), draft)
	}

	return s
}
