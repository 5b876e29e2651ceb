// Package msgtui is the terminal shell for the crew messaging
// subsystem: a contact directory pane that drills into per-contact
// threads with an optimistic compose pipeline.
package msgtui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vesselworks/crewcomm/internal/config"
	"github.com/vesselworks/crewcomm/internal/models"
	"github.com/vesselworks/crewcomm/internal/msgtui/styles"
)

// ViewID names a screen in the view stack.
type ViewID string

const (
	ViewDirectory ViewID = "directory"
	ViewThread    ViewID = "thread"
)

// Config wires the TUI to its collaborators.
type Config struct {
	// Provider is the message service client.
	Provider Provider

	// Theme names the color theme (default, high-contrast).
	Theme string

	// ShowTimestamps shows per-message times in the thread view.
	ShowTimestamps bool

	// QuickTemplates are canned phrases offered by the compose bar.
	QuickTemplates []string

	// RoleFilter limits the directory to the given roles; nil means all.
	RoleFilter []models.Role

	// ContextStore persists the selection and compose draft across
	// runs. Optional; nil disables persistence.
	ContextStore *config.ContextStore
}

type viewModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// CapturesInput reports whether plain keystrokes belong to a text
	// field right now, which suppresses global single-letter keys.
	CapturesInput() bool
}

// Model is the root bubbletea model.
type Model struct {
	provider Provider
	theme    styles.Theme
	store    *config.ContextStore

	width  int
	height int

	viewStack []ViewID
	views     map[ViewID]viewModel

	directory *directoryView
	thread    *threadView
}

// NewModel builds the root model.
func NewModel(cfg Config) (*Model, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Theme == "" {
		cfg.Theme = styles.DefaultTheme.Name
	}
	if _, ok := styles.Themes[cfg.Theme]; !ok {
		return nil, fmt.Errorf("invalid theme %q", cfg.Theme)
	}
	theme := styles.ForName(cfg.Theme)

	var persisted *config.Context
	if cfg.ContextStore != nil {
		// Non-fatal: a missing or corrupt context file just means a
		// fresh session.
		persisted, _ = cfg.ContextStore.Load()
	}
	if persisted == nil {
		persisted = &config.Context{}
	}

	m := &Model{
		provider:  cfg.Provider,
		theme:     theme,
		store:     cfg.ContextStore,
		viewStack: []ViewID{ViewDirectory},
		views:     make(map[ViewID]viewModel),
	}

	m.directory = newDirectoryView(cfg.Provider, theme, cfg.RoleFilter, persisted.ContactID)
	m.thread = newThreadView(cfg.Provider, theme, cfg.ShowTimestamps, cfg.QuickTemplates)
	m.thread.seedDraft(persisted.ContactID, persisted.ComposeDraft)

	m.views[ViewDirectory] = m.directory
	m.views[ViewThread] = m.thread
	return m, nil
}

// Run starts the TUI and blocks until it exits.
func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	if view := m.activeView(); view != nil {
		return view.Init()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case openThreadMsg:
		m.pushView(ViewThread)
		cmd := m.thread.SetContact(typed.contact)
		m.persistContext()
		return m, cmd
	case popViewMsg:
		m.persistContext()
		m.popView()
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(typed); handled {
			return m, cmd
		}
	}

	if active := m.activeView(); active != nil {
		return m, active.Update(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	active := m.activeView()
	if active == nil {
		return "no active view"
	}
	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := active.View(m.width, contentHeight)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.persistContext()
		return tea.Quit, true
	case "q":
		if active := m.activeView(); active != nil && active.CapturesInput() {
			return nil, false
		}
		m.persistContext()
		return tea.Quit, true
	}
	return nil, false
}

// persistContext saves the active contact and unsent draft. Failures
// are swallowed: losing a draft on a read-only filesystem is not worth
// interrupting the operator for.
func (m *Model) persistContext() {
	if m.store == nil {
		return
	}
	ctx := &config.Context{}
	if contact := m.thread.Contact(); contact.ID != "" {
		ctx.SetContact(contact.ID, contact.DisplayName)
		ctx.SetDraft(m.thread.Draft())
	}
	_ = m.store.Save(ctx)
}

func (m *Model) activeView() viewModel {
	return m.views[m.activeViewID()]
}

func (m *Model) activeViewID() ViewID {
	if len(m.viewStack) == 0 {
		return ViewDirectory
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *Model) pushView(id ViewID) {
	if _, ok := m.views[id]; !ok {
		return
	}
	if m.activeViewID() == id {
		return
	}
	m.viewStack = append(m.viewStack, id)
}

func (m *Model) popView() {
	if len(m.viewStack) <= 1 {
		return
	}
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

func (m *Model) renderFooter() string {
	var hints string
	switch m.activeViewID() {
	case ViewDirectory:
		hints = "enter open · / search · r refresh · q quit"
	case ViewThread:
		hints = "enter send · ctrl+p templates · ctrl+e edit · ctrl+x delete · esc back"
	}
	return m.theme.MutedStyle().Render(hints)
}
