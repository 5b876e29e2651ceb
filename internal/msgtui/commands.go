package msgtui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/models"
)

// Messages produced by asynchronous operations. Every remote call is an
// independent tea.Cmd; nothing blocks the interface loop.

type directoryLoadedMsg struct {
	contacts []models.Correspondent
	err      error
}

type threadLoadedMsg struct {
	contactID string
	messages  []models.Message
	err       error
}

type sendSettledMsg struct {
	contactID     string
	provisionalID string
	err           error
}

type editSettledMsg struct {
	messageID string
	err       error
}

type deleteSettledMsg struct {
	contactID string
	messageID string
	err       error
}

// openThreadMsg asks the app to drill into a correspondent's thread.
type openThreadMsg struct {
	contact models.Correspondent
}

// popViewMsg asks the app to return to the previous view.
type popViewMsg struct{}

func openThreadCmd(contact models.Correspondent) tea.Cmd {
	return func() tea.Msg {
		return openThreadMsg{contact: contact}
	}
}

func popViewCmd() tea.Cmd {
	return func() tea.Msg {
		return popViewMsg{}
	}
}

func loadDirectoryCmd(provider Provider, roleFilter []models.Role) tea.Cmd {
	return func() tea.Msg {
		contacts, err := provider.LoadDirectory(context.Background(), roleFilter)
		return directoryLoadedMsg{contacts: contacts, err: err}
	}
}

func loadThreadCmd(provider Provider, contactID string) tea.Cmd {
	return func() tea.Msg {
		messages, err := provider.LoadThread(context.Background(), contactID)
		return threadLoadedMsg{contactID: contactID, messages: messages, err: err}
	}
}

func sendMessageCmd(provider Provider, contact models.Correspondent, provisionalID, content string) tea.Cmd {
	return func() tea.Msg {
		err := provider.SendMessage(context.Background(), api.SendRequest{
			ToID:    contact.ID,
			ToName:  contact.DisplayName,
			Content: content,
		})
		return sendSettledMsg{contactID: contact.ID, provisionalID: provisionalID, err: err}
	}
}

func updateMessageCmd(provider Provider, messageID, content string) tea.Cmd {
	return func() tea.Msg {
		return editSettledMsg{messageID: messageID, err: provider.UpdateMessage(context.Background(), messageID, content)}
	}
}

func deleteMessageCmd(provider Provider, contactID, messageID string) tea.Cmd {
	return func() tea.Msg {
		return deleteSettledMsg{contactID: contactID, messageID: messageID, err: provider.DeleteMessage(context.Background(), messageID)}
	}
}
