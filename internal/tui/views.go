package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateLoading {
		return m.theme.Subtitle.Render("Loading transactions...")
	}

	sections := []string{
		m.renderHeader(),
		m.theme.RoundedBox.Render(m.table.View()),
		cli.RenderTotals(m.totals),
	}
	if m.state == StateEditing {
		sections = append(sections, m.theme.Bold.Render(fmt.Sprintf("Description for #%d: ", m.editingID))+m.input.View())
	}
	if line := m.renderStatus(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	filter := m.Filter()
	var parts []string
	parts = append(parts, filter.Scope.String(), filter.Direction.String())
	if filter.After != nil {
		parts = append(parts, "from "+filter.After.Format(model.DateLayout))
	}
	if filter.Before != nil {
		parts = append(parts, "until "+filter.Before.Format(model.DateLayout))
	}
	return m.theme.Title.Render(cli.WalletIcon+" Budget") + "  " +
		m.theme.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return m.theme.StatusError.Render("Error: " + m.err.Error())
	case m.status != "":
		return m.theme.StatusSuccess.Render(m.status)
	case len(m.transactions) == 0:
		return m.theme.Subtitle.Render("No transactions match the current filter")
	}
	return ""
}
