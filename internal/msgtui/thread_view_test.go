package msgtui

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vesselworks/crewcomm/internal/models"
	"github.com/vesselworks/crewcomm/internal/msgtui/styles"
)

func newTestThreadView(provider Provider) *threadView {
	return newThreadView(provider, styles.DefaultTheme, true, []string{"All clear.", "Need assistance."})
}

func openContact(t *testing.T, v *threadView, contact models.Correspondent) {
	t.Helper()
	cmd := v.SetContact(contact)
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
}

func typeInto(v *threadView, text string) {
	for _, r := range text {
		if r == ' ' {
			v.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var contactBo = models.Correspondent{
	ID:          "bo",
	CrewID:      "CR-7",
	DisplayName: "Bo Lindqvist",
	RoleLabel:   "Health Officer",
	Presence:    models.PresenceOnline,
}

func TestSendAppendsProvisionalAndClearsInput(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "m1", FromID: "bo", ToID: "op-1", Content: "hello", Status: models.StatusSent},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)
	require.Len(t, v.messages, 1)

	typeInto(v, "on my way")
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	require.Len(t, v.messages, 2)
	provisional := v.messages[1]
	require.True(t, provisional.Provisional)
	require.True(t, provisional.IsMine)
	require.Equal(t, models.StatusSending, provisional.Status)
	require.Equal(t, "on my way", provisional.Content)
	require.True(t, strings.HasPrefix(provisional.ID, "local-"))
	require.Empty(t, v.compose.input)
	require.True(t, v.compose.sending)
}

func TestSendSuccessReloadsAndReplacesProvisional(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	typeInto(v, "status report")
	sendCmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, v.messages, 1)

	// The server accepted the message; the reload returns the
	// authoritative thread.
	provider.threads["bo"] = []models.Message{
		{ID: "srv-1", FromID: "op-1", ToID: "bo", Content: "status report", Status: models.StatusSent, IsMine: true},
	}

	settled := sendCmd()
	reloadCmd := v.Update(settled)
	require.NotNil(t, reloadCmd)
	require.False(t, v.compose.sending)

	v.Update(reloadCmd())
	require.Len(t, v.messages, 1)
	require.Equal(t, "srv-1", v.messages[0].ID)
	require.False(t, v.messages[0].Provisional)
}

func TestSendFailureMarksProvisionalFailedInPlace(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "m1", FromID: "bo", ToID: "op-1", Content: "hello", Status: models.StatusSent},
	}
	provider.sendErr = errors.New("link down")

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	typeInto(v, "anyone there")
	sendCmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	reload := v.Update(sendCmd())
	require.Nil(t, reload)

	require.Len(t, v.messages, 2)
	require.Equal(t, models.StatusFailed, v.messages[1].Status)
	require.Equal(t, "anyone there", v.messages[1].Content)
	require.Contains(t, v.actionErr, "link down")
	require.False(t, v.compose.sending)
}

func TestFailedMessageClearedByNextSuccessfulReload(t *testing.T) {
	provider := newStubProvider()
	provider.sendErr = errors.New("link down")

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	typeInto(v, "lost words")
	sendCmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(sendCmd())
	require.Equal(t, models.StatusFailed, v.messages[0].Status)

	provider.threads["bo"] = []models.Message{
		{ID: "srv-9", FromID: "bo", ToID: "op-1", Content: "ping", Status: models.StatusSent},
	}
	refresh := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	v.Update(refresh())

	require.Len(t, v.messages, 1)
	require.Equal(t, "srv-9", v.messages[0].ID)
}

func TestEmptyComposeDoesNotSend(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	typeInto(v, "   ")
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Empty(t, v.messages)
	require.Empty(t, provider.sentRequests)
}

func TestComposeBackspaceRemovesWholeRune(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	typeInto(v, "café")
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	require.Equal(t, "caf", v.compose.input)
	require.True(t, utf8.ValidString(v.compose.input))

	// What remains after deleting over a multibyte rune must still be
	// sendable as valid content.
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, provider.sentRequests, 1)
	require.Equal(t, "caf", provider.sentRequests[0].Content)
}

func TestEditBackspaceRemovesWholeRune(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "naïve", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	require.Equal(t, "naï", v.edit.draft)
	require.True(t, utf8.ValidString(v.edit.draft))
}

func TestStaleSendResultForOtherContactIgnored(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	cmd := v.handleSendSettled(sendSettledMsg{contactID: "someone-else", provisionalID: "local-x", err: errors.New("boom")})
	require.Nil(t, cmd)
	require.Empty(t, v.actionErr)
}

func TestLastReloadWins(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	first := []models.Message{{ID: "a", Status: models.StatusSent}}
	second := []models.Message{{ID: "b", Status: models.StatusSent}, {ID: "c", Status: models.StatusSent}}

	v.Update(threadLoadedMsg{contactID: "bo", messages: first})
	v.Update(threadLoadedMsg{contactID: "bo", messages: second})

	require.Len(t, v.messages, 2)
	require.Equal(t, "b", v.messages[0].ID)
}

func TestThreadLoadErrorShowsEmptyThread(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{{ID: "m1", Status: models.StatusSent}}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)
	require.Len(t, v.messages, 1)

	v.Update(threadLoadedMsg{contactID: "bo", err: errors.New("timeout")})
	require.Empty(t, v.messages)
	require.Contains(t, v.loadErr, "timeout")
}

func TestEditOnlyOffersOwnSentMessages(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "theirs", FromID: "bo", Content: "hi", Status: models.StatusSent, IsMine: false},
		{ID: "delivered", FromID: "op-1", Content: "a", Status: models.StatusDelivered, IsMine: true},
		{ID: "mine", FromID: "op-1", Content: "orignal", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	// Newest message (index 2) is editable.
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 2, v.selected)
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.True(t, v.edit.active)
	require.Equal(t, "mine", v.edit.messageID)
	require.Equal(t, "orignal", v.edit.draft)
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, v.edit.active)

	// A delivered message is past its edit window.
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 1, v.selected)
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.False(t, v.edit.active)

	// Someone else's message is never editable.
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, v.selected)
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.False(t, v.edit.active)
}

func TestEditCommitSendsUpdateAndReloads(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "orignal", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeInto(v, "inal")
	require.Equal(t, "original", v.edit.draft)

	commit := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, commit)
	require.True(t, v.edit.saving)

	reload := v.Update(commit())
	require.NotNil(t, reload)
	require.False(t, v.edit.active)
	require.Equal(t, []string{"mine"}, provider.updatedIDs)
	require.Equal(t, []string{"original"}, provider.updatedContent)
}

func TestEmptyEditRejectedWithoutNetwork(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "x", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
	require.True(t, v.edit.active)
	require.Empty(t, provider.updatedIDs)
	require.Contains(t, v.actionErr, "empty")
}

func TestEditFailureKeepsEditorOpen(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "draft", Status: models.StatusSent, IsMine: true},
	}
	provider.updateErr = errors.New("conflict")

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	commit := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(commit())

	require.True(t, v.edit.active)
	require.False(t, v.edit.saving)
	require.Equal(t, "draft", v.edit.draft)
	require.Contains(t, v.actionErr, "conflict")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "oops", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.Equal(t, "mine", v.confirmDelete)

	// Declining leaves the message alone.
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.Empty(t, v.confirmDelete)
	require.Empty(t, provider.deletedIDs)

	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)
	require.True(t, v.deleting["mine"])

	reload := v.Update(cmd())
	require.NotNil(t, reload)
	require.False(t, v.deleting["mine"])
	require.Equal(t, []string{"mine"}, provider.deletedIDs)
}

func TestDeleteGuardBlocksRepeatedRequests(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "oops", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.deleting["mine"] = true
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.Empty(t, v.confirmDelete)
}

func TestDeleteFailureReleasesGuard(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "oops", Status: models.StatusSent, IsMine: true},
	}
	provider.deleteErr = errors.New("forbidden")

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	v.Update(cmd())

	require.False(t, v.deleting["mine"])
	require.Contains(t, v.actionErr, "forbidden")
}

func TestStaleDeleteResultForOtherContactIgnored(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "mine", FromID: "op-1", Content: "oops", Status: models.StatusSent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	deleteCmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	// The operator switches threads before the delete settles. The
	// stale settle must not reload or surface errors in the new thread.
	openContact(t, v, models.Correspondent{ID: "cleo", DisplayName: "Cleo"})

	reload := v.Update(deleteCmd())
	require.Nil(t, reload)
	require.Empty(t, v.actionErr)
	require.Equal(t, "cleo", v.contact.ID)
}

func TestDeleteNotOfferedForInboundMessages(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{
		{ID: "theirs", FromID: "bo", Content: "hi", Status: models.StatusSent, IsMine: false},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.Empty(t, v.confirmDelete)
}

func TestTemplatePickerInsertsIntoCompose(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	v.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.True(t, v.compose.picker)
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, v.compose.picker)
	require.Equal(t, "Need assistance.", v.compose.input)
}

func TestSeededDraftRestoredForMatchingContactOnly(t *testing.T) {
	provider := newStubProvider()
	v := newTestThreadView(provider)

	v.seedDraft("bo", "half typed")
	openContact(t, v, models.Correspondent{ID: "other", DisplayName: "Other"})
	require.Empty(t, v.compose.input)

	v2 := newTestThreadView(provider)
	v2.seedDraft("bo", "half typed")
	openContact(t, v2, contactBo)
	require.Equal(t, "half typed", v2.compose.input)
}

func TestSetContactResetsThreadState(t *testing.T) {
	provider := newStubProvider()
	provider.threads["bo"] = []models.Message{{ID: "m1", Status: models.StatusSent}}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)
	v.actionErr = "stale"
	v.confirmDelete = "m1"

	openContact(t, v, models.Correspondent{ID: "cleo", DisplayName: "Cleo"})
	require.Empty(t, v.messages)
	require.Empty(t, v.actionErr)
	require.Empty(t, v.confirmDelete)
	require.Equal(t, "cleo", v.contact.ID)
}

func TestRenderShowsStatusIndicators(t *testing.T) {
	provider := newStubProvider()
	now := time.Now()
	provider.threads["bo"] = []models.Message{
		{ID: "a", Content: "sending", SentAt: now, Status: models.StatusSending, IsMine: true},
		{ID: "b", Content: "failed", SentAt: now, Status: models.StatusFailed, IsMine: true},
		{ID: "c", Content: "urgent one", SentAt: now, Status: models.StatusSent, Priority: models.PriorityUrgent, IsMine: true},
	}

	v := newTestThreadView(provider)
	openContact(t, v, contactBo)

	out := v.View(80, 24)
	require.Contains(t, out, "sending")
	require.Contains(t, out, "failed")
	require.Contains(t, out, "URGENT")
}
