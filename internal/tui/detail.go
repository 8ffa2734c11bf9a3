// ABOUTME: Detail pane component
// ABOUTME: Renders the full content of the selected post

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/chost/internal/store"
)

type DetailModel struct {
	post   *store.Post
	scroll int
}

func NewDetailModel() DetailModel {
	return DetailModel{}
}

func (m *DetailModel) SetPost(post *store.Post) {
	m.post = post
	m.scroll = 0
}

func (m *DetailModel) ScrollUp() {
	if m.scroll > 0 {
		m.scroll--
	}
}

func (m *DetailModel) ScrollDown() {
	if m.post == nil {
		return
	}
	lines := strings.Count(m.post.Markdown, "\n")
	if m.scroll < lines {
		m.scroll++
	}
}

func (m DetailModel) View() string {
	if m.post == nil {
		return lipgloss.NewStyle().Faint(true).Render("No post\n\nSelect a post")
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	faintStyle := lipgloss.NewStyle().Faint(true)

	var s string
	if m.post.Headline != "" {
		s += lipgloss.NewStyle().Bold(true).Render(m.post.Headline) + "\n"
	}
	s += headerStyle.Render(fmt.Sprintf("@%s", m.post.Project))
	s += faintStyle.Render(fmt.Sprintf(" · post %d · %s\n", m.post.ID, m.post.RecordedAt.Format("Jan 02 15:04")))

	if len(m.post.CWs) > 0 {
		s += faintStyle.Render("CW: "+strings.Join(m.post.CWs, ", ")) + "\n"
	}
	if m.post.AdultContent {
		s += faintStyle.Render("18+") + "\n"
	}
	s += "\n"

	lines := strings.Split(m.post.Markdown, "\n")
	for i, line := range lines {
		if i < m.scroll {
			continue
		}
		s += line + "\n"
	}

	if len(m.post.Tags) > 0 {
		s += "\n" + faintStyle.Render("#"+strings.Join(m.post.Tags, " #")) + "\n"
	}

	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
