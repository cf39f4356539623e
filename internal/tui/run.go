package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the interactive transaction browser and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, l Ledger, editor DescriptionEditor, opts ...Option) error {
	if l == nil {
		return fmt.Errorf("ledger is required")
	}

	cfg := defaultConfig()
	cfg.Ledger = l
	cfg.Editor = editor
	for _, opt := range opts {
		opt(&cfg)
	}

	p := tea.NewProgram(newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
