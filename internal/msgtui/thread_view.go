package msgtui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vesselworks/crewcomm/internal/models"
	"github.com/vesselworks/crewcomm/internal/msgtui/styles"
)

// threadView renders one correspondent's conversation and owns the
// compose, edit and delete flows.
type threadView struct {
	provider Provider
	theme    styles.Theme
	colors   *styles.ContactColorMapper

	showTimestamps bool
	templates      []string

	contact  models.Correspondent
	messages []models.Message
	loading  bool
	loadErr  string

	// selected indexes into messages; -1 means the compose bar has
	// focus and nothing is selected.
	selected int

	compose composeState
	edit    editState

	// confirmDelete holds the id awaiting y/n confirmation.
	confirmDelete string
	// deleting guards against repeated delete requests per message.
	deleting map[string]bool

	actionErr string

	// seeded draft restored on the next SetContact for this contact.
	seedContactID string
	seededDraft   string
}

type composeState struct {
	input   string
	sending bool

	picker    bool
	pickerIdx int
}

type editState struct {
	active    bool
	messageID string
	draft     string
	saving    bool
}

func newThreadView(provider Provider, theme styles.Theme, showTimestamps bool, templates []string) *threadView {
	return &threadView{
		provider:       provider,
		theme:          theme,
		colors:         styles.NewContactColorMapperWithPalette(theme.ContactPalette),
		showTimestamps: showTimestamps,
		templates:      templates,
		selected:       -1,
		deleting:       make(map[string]bool),
	}
}

// seedDraft arms a compose draft to restore when the given contact is
// next opened. A draft never leaks into another contact's thread.
func (v *threadView) seedDraft(contactID, draft string) {
	if contactID == "" || draft == "" {
		return
	}
	v.seedContactID = contactID
	v.seededDraft = draft
}

// Contact returns the correspondent the view is showing.
func (v *threadView) Contact() models.Correspondent {
	return v.contact
}

// Draft returns the unsent compose text.
func (v *threadView) Draft() string {
	return v.compose.input
}

// SetContact points the view at a correspondent and starts the thread
// load. All per-thread state is reset.
func (v *threadView) SetContact(contact models.Correspondent) tea.Cmd {
	v.contact = contact
	v.messages = nil
	v.loading = true
	v.loadErr = ""
	v.selected = -1
	v.compose = composeState{}
	v.edit = editState{}
	v.confirmDelete = ""
	v.deleting = make(map[string]bool)
	v.actionErr = ""

	if v.seedContactID == contact.ID {
		v.compose.input = v.seededDraft
	}
	v.seedContactID = ""
	v.seededDraft = ""

	return loadThreadCmd(v.provider, contact.ID)
}

func (v *threadView) Init() tea.Cmd {
	if v.contact.ID == "" {
		return nil
	}
	return loadThreadCmd(v.provider, v.contact.ID)
}

func (v *threadView) CapturesInput() bool {
	return true
}

func (v *threadView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case threadLoadedMsg:
		return v.handleThreadLoaded(typed)
	case sendSettledMsg:
		return v.handleSendSettled(typed)
	case editSettledMsg:
		return v.handleEditSettled(typed)
	case deleteSettledMsg:
		return v.handleDeleteSettled(typed)
	case tea.KeyMsg:
		return v.handleKey(typed)
	}
	return nil
}

// handleThreadLoaded applies a reload. The loaded snapshot replaces the
// in-memory thread wholesale, so whichever reload lands last wins and
// provisional rows never outlive a successful refresh.
func (v *threadView) handleThreadLoaded(msg threadLoadedMsg) tea.Cmd {
	if msg.contactID != v.contact.ID {
		return nil
	}
	v.loading = false
	if msg.err != nil {
		v.messages = nil
		v.loadErr = msg.err.Error()
		return nil
	}
	v.loadErr = ""
	v.messages = msg.messages
	if v.selected >= len(v.messages) {
		v.selected = len(v.messages) - 1
	}
	return nil
}

func (v *threadView) handleSendSettled(msg sendSettledMsg) tea.Cmd {
	if msg.contactID != v.contact.ID {
		// A send that settled after switching contacts; its thread
		// will reconcile on next open.
		return nil
	}
	v.compose.sending = false
	if msg.err != nil {
		for i := range v.messages {
			if v.messages[i].ID == msg.provisionalID {
				v.messages[i].Status = models.StatusFailed
				break
			}
		}
		v.actionErr = "send failed: " + msg.err.Error()
		return nil
	}
	return loadThreadCmd(v.provider, v.contact.ID)
}

func (v *threadView) handleEditSettled(msg editSettledMsg) tea.Cmd {
	if !v.edit.active || v.edit.messageID != msg.messageID {
		return nil
	}
	v.edit.saving = false
	if msg.err != nil {
		// The editor stays open so the operator can retry or abandon.
		v.actionErr = "edit failed: " + msg.err.Error()
		return nil
	}
	v.edit = editState{}
	v.actionErr = ""
	return loadThreadCmd(v.provider, v.contact.ID)
}

func (v *threadView) handleDeleteSettled(msg deleteSettledMsg) tea.Cmd {
	if msg.contactID != v.contact.ID {
		// Settled after switching contacts; the old thread reconciles
		// on next open.
		return nil
	}
	delete(v.deleting, msg.messageID)
	if msg.err != nil {
		v.actionErr = "delete failed: " + msg.err.Error()
		return nil
	}
	v.actionErr = ""
	return loadThreadCmd(v.provider, v.contact.ID)
}

func (v *threadView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.confirmDelete != "" {
		return v.handleConfirmKey(msg)
	}
	if v.edit.active {
		return v.handleEditKey(msg)
	}
	if v.compose.picker {
		return v.handlePickerKey(msg)
	}
	return v.handleComposeKey(msg)
}

func (v *threadView) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return popViewCmd()
	case tea.KeyEnter:
		return v.submitCompose()
	case tea.KeyUp:
		v.moveSelection(-1)
		return nil
	case tea.KeyDown:
		v.moveSelection(1)
		return nil
	case tea.KeyBackspace:
		if v.compose.input != "" {
			r := []rune(v.compose.input)
			v.compose.input = string(r[:len(r)-1])
		}
		return nil
	case tea.KeyCtrlP:
		if len(v.templates) > 0 {
			v.compose.picker = true
			v.compose.pickerIdx = 0
		}
		return nil
	case tea.KeyCtrlE:
		return v.beginEdit()
	case tea.KeyCtrlX:
		v.beginDelete()
		return nil
	case tea.KeyCtrlR:
		v.loading = true
		v.loadErr = ""
		return loadThreadCmd(v.provider, v.contact.ID)
	case tea.KeySpace:
		v.compose.input += " "
		return nil
	case tea.KeyRunes:
		v.compose.input += string(msg.Runes)
		return nil
	}
	return nil
}

// submitCompose starts the optimistic send. The provisional message is
// appended and the input cleared before the network settles, so typing
// can continue immediately. The provisional row is reconciled either by
// the reload on success or flipped to failed in place on error.
func (v *threadView) submitCompose() tea.Cmd {
	content := strings.TrimSpace(v.compose.input)
	if content == "" || v.compose.sending || v.contact.ID == "" {
		return nil
	}

	operator := v.provider.Operator()
	provisional := models.Message{
		ID:          "local-" + uuid.New().String(),
		FromID:      operator.ID,
		ToID:        v.contact.ID,
		Content:     content,
		SentAt:      time.Now(),
		Status:      models.StatusSending,
		Priority:    models.PriorityNormal,
		IsMine:      true,
		Provisional: true,
	}

	v.compose.sending = true
	v.compose.input = ""
	v.actionErr = ""
	v.messages = append(v.messages, provisional)

	return sendMessageCmd(v.provider, v.contact, provisional.ID, content)
}

func (v *threadView) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlP:
		v.compose.picker = false
		return nil
	case tea.KeyUp:
		if v.compose.pickerIdx > 0 {
			v.compose.pickerIdx--
		}
		return nil
	case tea.KeyDown:
		if v.compose.pickerIdx < len(v.templates)-1 {
			v.compose.pickerIdx++
		}
		return nil
	case tea.KeyEnter:
		if v.compose.pickerIdx >= 0 && v.compose.pickerIdx < len(v.templates) {
			if v.compose.input != "" && !strings.HasSuffix(v.compose.input, " ") {
				v.compose.input += " "
			}
			v.compose.input += v.templates[v.compose.pickerIdx]
		}
		v.compose.picker = false
		return nil
	}
	return nil
}

func (v *threadView) beginEdit() tea.Cmd {
	target, ok := v.selectedMessage()
	if !ok || !target.Editable() {
		return nil
	}
	v.edit = editState{
		active:    true,
		messageID: target.ID,
		draft:     target.Content,
	}
	v.actionErr = ""
	return nil
}

func (v *threadView) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if v.edit.saving {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		v.edit = editState{}
		return nil
	case tea.KeyEnter:
		draft := strings.TrimSpace(v.edit.draft)
		if draft == "" {
			// An empty edit is rejected locally; nothing goes on the
			// wire.
			v.actionErr = "message cannot be empty"
			return nil
		}
		v.edit.saving = true
		return updateMessageCmd(v.provider, v.edit.messageID, draft)
	case tea.KeyBackspace:
		if v.edit.draft != "" {
			r := []rune(v.edit.draft)
			v.edit.draft = string(r[:len(r)-1])
		}
		return nil
	case tea.KeySpace:
		v.edit.draft += " "
		return nil
	case tea.KeyRunes:
		v.edit.draft += string(msg.Runes)
		return nil
	}
	return nil
}

func (v *threadView) beginDelete() {
	target, ok := v.selectedMessage()
	if !ok || !target.Deletable() || v.deleting[target.ID] {
		return
	}
	v.confirmDelete = target.ID
}

func (v *threadView) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.confirmDelete
		v.confirmDelete = ""
		if v.deleting[id] {
			return nil
		}
		v.deleting[id] = true
		v.actionErr = ""
		return deleteMessageCmd(v.provider, v.contact.ID, id)
	case "n", "N", "esc":
		v.confirmDelete = ""
		return nil
	}
	return nil
}

func (v *threadView) moveSelection(delta int) {
	if len(v.messages) == 0 {
		v.selected = -1
		return
	}
	if v.selected == -1 {
		// First move up lands on the newest message.
		if delta < 0 {
			v.selected = len(v.messages) - 1
		}
		return
	}
	v.selected += delta
	if v.selected < 0 {
		v.selected = 0
	}
	if v.selected >= len(v.messages) {
		// Moving past the newest message returns focus to compose.
		v.selected = -1
	}
}

func (v *threadView) selectedMessage() (models.Message, bool) {
	if v.selected < 0 || v.selected >= len(v.messages) {
		return models.Message{}, false
	}
	return v.messages[v.selected], true
}
