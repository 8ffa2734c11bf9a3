// ABOUTME: Main Bubble Tea application model
// ABOUTME: Coordinates three-pane archive browser and navigation

package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pane represents which pane is focused
type Pane int

const (
	ProjectsPane Pane = iota
	PostsPane
	DetailPane
)

// Model is the main application state
type Model struct {
	db         *sql.DB
	project    string
	activePane Pane
	width      int
	height     int
	projects   ProjectsModel
	posts      PostsModel
	detail     DetailModel
	err        error
}

// NewModel creates a new TUI model. If project is non-empty its posts load
// on startup.
func NewModel(db *sql.DB, project string) Model {
	return Model{
		db:         db,
		project:    project,
		activePane: ProjectsPane,
		projects:   NewProjectsModel(db),
		posts:      NewPostsModel(db),
		detail:     NewDetailModel(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.project != "" {
		return tea.Batch(m.projects.LoadProjects(), m.posts.LoadPosts(m.project))
	}
	return m.projects.LoadProjects()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateNavigation(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProjectsLoadedMsg:
		m.projects.SetProjects(msg.Projects)
		return m, nil

	case PostsLoadedMsg:
		m.posts.SetPosts(msg.Posts)
		return m, nil

	case error:
		m.err = msg
		return m, nil
	}

	return m, nil
}

func (m Model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.activePane = (m.activePane + 1) % 3
		return m, nil

	case "shift+tab":
		m.activePane = (m.activePane + 2) % 3
		return m, nil

	case "j", "down":
		switch m.activePane {
		case ProjectsPane:
			m.projects.MoveDown()
		case PostsPane:
			m.posts.MoveDown()
		case DetailPane:
			m.detail.ScrollDown()
		}
		return m, nil

	case "k", "up":
		switch m.activePane {
		case ProjectsPane:
			m.projects.MoveUp()
		case PostsPane:
			m.posts.MoveUp()
		case DetailPane:
			m.detail.ScrollUp()
		}
		return m, nil

	case "enter":
		switch m.activePane {
		case ProjectsPane:
			if project := m.projects.Selected(); project != "" {
				m.activePane = PostsPane
				return m, m.posts.LoadPosts(project)
			}
		case PostsPane:
			if post := m.posts.Selected(); post != nil {
				m.activePane = DetailPane
				m.detail.SetPost(post)
			}
		}
		return m, nil

	case "r":
		cmds := []tea.Cmd{m.projects.LoadProjects()}
		if project := m.projects.Selected(); project != "" {
			cmds = append(cmds, m.posts.LoadPosts(project))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Calculate pane widths
	projectsWidth := m.width / 5
	postsWidth := m.width / 3
	detailWidth := m.width - projectsWidth - postsWidth

	// Styles
	activeStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86"))

	inactiveStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	// Render panes
	projectsStyle := inactiveStyle
	postsStyle := inactiveStyle
	detailStyle := inactiveStyle

	switch m.activePane {
	case ProjectsPane:
		projectsStyle = activeStyle
	case PostsPane:
		postsStyle = activeStyle
	case DetailPane:
		detailStyle = activeStyle
	}

	projectsView := projectsStyle.Width(projectsWidth - 2).Height(m.height - 4).Render(m.projects.View())
	postsView := postsStyle.Width(postsWidth - 2).Height(m.height - 4).Render(m.posts.View())
	detailView := detailStyle.Width(detailWidth - 2).Height(m.height - 4).Render(m.detail.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top, projectsView, postsView, detailView)

	// Status bar
	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[tab] switch pane  [j/k] navigate  [enter] select  [r] refresh  [q] quit")

	return lipgloss.JoinVertical(lipgloss.Left, main, status)
}

// Run starts the TUI
func Run(db *sql.DB, project string) error {
	p := tea.NewProgram(NewModel(db, project), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
