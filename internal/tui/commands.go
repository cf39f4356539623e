package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// load fetches the accounts and the filtered listing.
func (m Model) load() tea.Cmd {
	filter := m.Filter()
	return func() tea.Msg {
		if m.ledger == nil {
			return dataLoadedMsg{err: fmt.Errorf("ledger not configured")}
		}

		ctx, cancel := context.WithTimeout(m.ctx, m.config.Timeout)
		defer cancel()

		accounts, err := m.ledger.Accounts(ctx)
		if err != nil {
			return dataLoadedMsg{err: fmt.Errorf("failed to load accounts: %w", err)}
		}
		summary, err := m.ledger.Summarize(ctx, filter)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		return dataLoadedMsg{accounts: accounts, summary: summary}
	}
}

// saveDescription stores a custom description for id.
func (m Model) saveDescription(id int64, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.config.Timeout)
		defer cancel()

		if err := m.editor.UpdateTransactionDescription(ctx, id, description); err != nil {
			return descriptionSavedMsg{id: id, err: fmt.Errorf("failed to update transaction %d: %w", id, err)}
		}
		return descriptionSavedMsg{id: id}
	}
}
