package msgtui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vesselworks/crewcomm/internal/models"
	"github.com/vesselworks/crewcomm/internal/msgtui/styles"
)

// directoryView lists reachable correspondents grouped by department,
// with incremental search over name, role and department labels.
type directoryView struct {
	provider   Provider
	theme      styles.Theme
	colors     *styles.ContactColorMapper
	roleFilter []models.Role

	contacts []models.Correspondent
	loading  bool
	loadErr  string

	searching bool
	query     string
	selected  int

	// restoreID is the contact to re-highlight after the first load.
	restoreID string
}

func newDirectoryView(provider Provider, theme styles.Theme, roleFilter []models.Role, restoreID string) *directoryView {
	return &directoryView{
		provider:   provider,
		theme:      theme,
		colors:     styles.NewContactColorMapperWithPalette(theme.ContactPalette),
		roleFilter: roleFilter,
		restoreID:  restoreID,
	}
}

func (v *directoryView) Init() tea.Cmd {
	v.loading = true
	v.loadErr = ""
	return loadDirectoryCmd(v.provider, v.roleFilter)
}

func (v *directoryView) CapturesInput() bool {
	return v.searching
}

func (v *directoryView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case directoryLoadedMsg:
		v.loading = false
		if typed.err != nil {
			// Recoverable: directory renders empty with the error
			// inline; refresh is the retry path.
			v.contacts = nil
			v.loadErr = typed.err.Error()
			return nil
		}
		v.loadErr = ""
		v.contacts = typed.contacts
		v.restoreSelection()
		v.clampSelection()
		return nil
	case tea.KeyMsg:
		return v.handleKey(typed)
	}
	return nil
}

func (v *directoryView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.searching {
		switch msg.Type {
		case tea.KeyEsc:
			v.searching = false
			v.query = ""
			v.clampSelection()
			return nil
		case tea.KeyEnter:
			v.searching = false
			return v.openSelected()
		case tea.KeyBackspace:
			if v.query != "" {
				r := []rune(v.query)
				v.query = string(r[:len(r)-1])
			}
			v.clampSelection()
			return nil
		case tea.KeyUp:
			v.moveSelection(-1)
			return nil
		case tea.KeyDown:
			v.moveSelection(1)
			return nil
		case tea.KeyRunes, tea.KeySpace:
			v.query += string(msg.Runes)
			if msg.Type == tea.KeySpace {
				v.query += " "
			}
			v.clampSelection()
			return nil
		}
		return nil
	}

	switch msg.String() {
	case "/":
		v.searching = true
		return nil
	case "r":
		return v.Init()
	case "up", "k":
		v.moveSelection(-1)
		return nil
	case "down", "j":
		v.moveSelection(1)
		return nil
	case "enter":
		return v.openSelected()
	case "esc", "backspace":
		if v.query != "" {
			v.query = ""
			v.clampSelection()
		}
		return nil
	}
	return nil
}

// visible returns the rendered order: filtered, then grouped so each
// department appears once. The underlying directory is never mutated.
func (v *directoryView) visible() []models.Correspondent {
	return groupContacts(filterContacts(v.contacts, v.query))
}

// groupContacts makes departments contiguous while keeping the incoming
// name order within each department.
func groupContacts(contacts []models.Correspondent) []models.Correspondent {
	out := make([]models.Correspondent, len(contacts))
	copy(out, contacts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DepartmentLabel < out[j].DepartmentLabel
	})
	return out
}

// filterContacts selects contacts matching the query by display name,
// role label or department label, case-insensitive substring.
func filterContacts(contacts []models.Correspondent, query string) []models.Correspondent {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return contacts
	}
	var out []models.Correspondent
	for _, contact := range contacts {
		if strings.Contains(strings.ToLower(contact.DisplayName), needle) ||
			strings.Contains(strings.ToLower(contact.RoleLabel), needle) ||
			strings.Contains(strings.ToLower(contact.DepartmentLabel), needle) {
			out = append(out, contact)
		}
	}
	return out
}

func (v *directoryView) moveSelection(delta int) {
	visible := v.visible()
	if len(visible) == 0 {
		v.selected = 0
		return
	}
	v.selected += delta
	v.clampSelection()
}

func (v *directoryView) clampSelection() {
	visible := v.visible()
	if len(visible) == 0 {
		v.selected = 0
		return
	}
	if v.selected < 0 {
		v.selected = 0
	}
	if v.selected >= len(visible) {
		v.selected = len(visible) - 1
	}
}

func (v *directoryView) restoreSelection() {
	if v.restoreID == "" {
		return
	}
	for i, contact := range v.visible() {
		if contact.ID == v.restoreID {
			v.selected = i
			break
		}
	}
	v.restoreID = ""
}

func (v *directoryView) openSelected() tea.Cmd {
	visible := v.visible()
	if v.selected < 0 || v.selected >= len(visible) {
		return nil
	}
	return openThreadCmd(visible[v.selected])
}

func (v *directoryView) View(width, height int) string {
	var b strings.Builder

	title := v.theme.AccentStyle().Render("Crew Directory")
	b.WriteString(title)
	b.WriteString("\n")

	if v.searching || v.query != "" {
		b.WriteString(v.theme.MutedStyle().Render("search: "))
		b.WriteString(v.query)
		if v.searching {
			b.WriteString("▌")
		}
		b.WriteString("\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.theme.MutedStyle().Render("loading directory..."))
		return b.String()
	case v.loadErr != "":
		b.WriteString(v.theme.ErrorStyle().Render("directory unavailable: " + v.loadErr))
		b.WriteString("\n")
		b.WriteString(v.theme.MutedStyle().Render("press r to retry"))
		return b.String()
	}

	visible := v.visible()
	if len(visible) == 0 {
		b.WriteString(v.theme.MutedStyle().Render("no contacts"))
		return b.String()
	}

	lastDepartment := ""
	for i, contact := range visible {
		if contact.DepartmentLabel != lastDepartment {
			lastDepartment = contact.DepartmentLabel
			b.WriteString(v.theme.MutedStyle().Render(lastDepartment))
			b.WriteString("\n")
		}
		b.WriteString(v.renderContact(contact, i == v.selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *directoryView) renderContact(contact models.Correspondent, selected bool) string {
	cursor := "  "
	if selected {
		cursor = v.theme.AccentStyle().Render("▸ ")
	}

	presence := v.theme.MutedStyle().Render("○")
	if contact.Online() {
		presence = lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Status.Online)).Render("●")
	}

	name := v.colors.Foreground(contact.ColorSeed()).Render(contact.DisplayName)
	role := v.theme.MutedStyle().Render(contact.RoleLabel)

	return cursor + presence + " " + name + " " + role
}
