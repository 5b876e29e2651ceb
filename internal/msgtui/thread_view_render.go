package msgtui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vesselworks/crewcomm/internal/models"
)

func (v *threadView) View(width, height int) string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.theme.MutedStyle().Render("loading thread..."))
	case v.loadErr != "":
		b.WriteString(v.theme.ErrorStyle().Render("thread unavailable: " + v.loadErr))
		b.WriteString("\n")
		b.WriteString(v.theme.MutedStyle().Render("press ctrl+r to retry"))
	case len(v.messages) == 0:
		b.WriteString(v.theme.MutedStyle().Render("no messages yet"))
	default:
		for i, message := range v.messages {
			b.WriteString(v.renderMessage(message, i == v.selected))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.actionErr != "" {
		b.WriteString(v.theme.ErrorStyle().Render(v.actionErr))
		b.WriteString("\n")
	}

	switch {
	case v.confirmDelete != "":
		b.WriteString(v.theme.AccentStyle().Render("delete this message? (y/n)"))
	case v.edit.active:
		b.WriteString(v.renderEditor())
	case v.compose.picker:
		b.WriteString(v.renderPicker())
	default:
		b.WriteString(v.renderCompose())
	}

	return b.String()
}

func (v *threadView) renderHeader() string {
	if v.contact.ID == "" {
		return v.theme.MutedStyle().Render("no contact selected")
	}
	name := v.colors.Foreground(v.contact.ColorSeed()).Render(v.contact.DisplayName)
	presence := v.theme.MutedStyle().Render("offline")
	if v.contact.Online() {
		presence = lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Status.Online)).Render("online")
	}
	return name + " " + v.theme.MutedStyle().Render(v.contact.RoleLabel) + " · " + presence
}

func (v *threadView) renderMessage(message models.Message, selected bool) string {
	cursor := "  "
	if selected {
		cursor = v.theme.AccentStyle().Render("▸ ")
	}

	var author lipgloss.Style
	name := v.contact.DisplayName
	if message.IsMine {
		author = lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Message.Own)).Bold(true)
		name = "me"
	} else {
		author = v.colors.Foreground(v.contact.ColorSeed())
	}

	line := cursor + author.Render(name) + " " + v.renderStatus(message)
	if v.showTimestamps {
		line += " " + v.theme.MutedStyle().Render(message.DisplayTime())
	}
	if message.Priority == models.PriorityUrgent {
		line += " " + v.theme.ErrorStyle().Render("URGENT")
	}

	body := lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Message.Other)).Render(message.Content)
	if message.IsMine {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Base.Foreground)).Render(message.Content)
	}

	return line + "\n    " + body
}

// renderStatus shows delivery state for outbound messages only; inbound
// rows carry no indicator.
func (v *threadView) renderStatus(message models.Message) string {
	if !message.IsMine {
		return ""
	}
	switch message.Status {
	case models.StatusSending:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Status.Pending)).Render("⋯ sending")
	case models.StatusFailed:
		return v.theme.ErrorStyle().Render("✗ failed")
	case models.StatusDelivered:
		return v.theme.MutedStyle().Render("✓✓")
	case models.StatusRead:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Status.Online)).Render("✓✓")
	default:
		return v.theme.MutedStyle().Render("✓")
	}
}

func (v *threadView) renderCompose() string {
	prompt := v.theme.AccentStyle().Render("> ")
	input := v.compose.input + "▌"
	if v.compose.sending {
		return prompt + input + " " + v.theme.MutedStyle().Render("(sending)")
	}
	return prompt + input
}

func (v *threadView) renderEditor() string {
	label := v.theme.AccentStyle().Render("edit: ")
	if v.edit.saving {
		return label + v.edit.draft + " " + v.theme.MutedStyle().Render("(saving)")
	}
	return label + v.edit.draft + "▌"
}

func (v *threadView) renderPicker() string {
	var b strings.Builder
	b.WriteString(v.theme.AccentStyle().Render("quick templates"))
	b.WriteString("\n")
	for i, template := range v.templates {
		if i == v.compose.pickerIdx {
			b.WriteString(v.theme.AccentStyle().Render("▸ " + template))
		} else {
			b.WriteString("  " + template)
		}
		b.WriteString("\n")
	}
	return b.String()
}
