// ABOUTME: Projects pane component
// ABOUTME: Lists project pages present in the archive

package tui

import (
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/chost/internal/store"
)

type ProjectsLoadedMsg struct {
	Projects []string
}

type ProjectsModel struct {
	db       *sql.DB
	projects []string
	cursor   int
}

func NewProjectsModel(database *sql.DB) ProjectsModel {
	return ProjectsModel{db: database, cursor: 0}
}

func (m *ProjectsModel) LoadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := store.ListProjects(m.db)
		if err != nil {
			return err
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

func (m *ProjectsModel) SetProjects(projects []string) {
	m.projects = projects
	if m.cursor >= len(projects) {
		m.cursor = len(projects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ProjectsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *ProjectsModel) MoveDown() {
	if m.cursor < len(m.projects)-1 {
		m.cursor++
	}
}

func (m *ProjectsModel) Selected() string {
	if m.cursor >= 0 && m.cursor < len(m.projects) {
		return m.projects[m.cursor]
	}
	return ""
}

func (m ProjectsModel) View() string {
	if len(m.projects) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No projects")
	}

	var s string
	s += lipgloss.NewStyle().Bold(true).Render("Projects") + "\n\n"

	for i, project := range m.projects {
		cursor := "  "
		style := lipgloss.NewStyle()

		if i == m.cursor {
			cursor = "> "
			style = style.Foreground(lipgloss.Color("86"))
		}

		s += fmt.Sprintf("%s%s\n", cursor, style.Render("@"+project))
	}

	return s
}
