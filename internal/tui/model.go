package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/ledger"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateLoading State = iota
	StateBrowsing
	StateEditing
)

// Model holds the browser state.
type Model struct {
	ctx          context.Context
	err          error
	ledger       Ledger
	editor       DescriptionEditor
	theme        themes.Theme
	config       Config
	keymap       KeyMap
	status       string
	accounts     []string
	transactions []model.Transaction
	help         help.Model
	input        textinput.Model
	table        table.Model
	totals       ledger.Totals
	editingID    int64
	accountIdx   int // -1 means all accounts
	direction    ledger.Direction
	width        int
	height       int
	state        State
	quitting     bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "custom description, empty to reset"
	input.CharLimit = 256

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	return Model{
		ctx:        ctx,
		ledger:     cfg.Ledger,
		editor:     cfg.Editor,
		theme:      cfg.Theme,
		config:     cfg,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		input:      input,
		table:      t,
		accountIdx: -1,
		width:      cfg.Width,
		height:     cfg.Height,
		state:      StateLoading,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Filter returns the filter currently applied to the listing.
func (m Model) Filter() ledger.Filter {
	scope := ledger.AllAccounts()
	if m.accountIdx >= 0 && m.accountIdx < len(m.accounts) {
		scope = ledger.OnlyAccount(m.accounts[m.accountIdx])
	}
	return ledger.Filter{
		After:     m.config.After,
		Before:    m.config.Before,
		Scope:     scope,
		Direction: m.direction,
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case dataLoadedMsg:
		return m.handleLoaded(msg), nil

	case descriptionSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Updated transaction %d", msg.id)
		return m, m.load()

	case tea.KeyMsg:
		if m.state == StateEditing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) handleLoaded(msg dataLoadedMsg) Model {
	m.state = StateBrowsing
	if msg.err != nil {
		m.err = msg.err
		return m
	}
	m.err = nil
	m.accounts = msg.accounts
	if m.accountIdx >= len(m.accounts) {
		m.accountIdx = -1
	}
	m.transactions = msg.summary.Transactions
	m.totals = msg.summary.Totals

	rows := make([]table.Row, len(m.transactions))
	for i, txn := range m.transactions {
		rows[i] = table.Row(cli.TransactionRow(txn))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	return m
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.NextAccount):
		m.accountIdx = cycle(m.accountIdx, len(m.accounts), 1)
		return m, m.load()

	case key.Matches(msg, m.keymap.PrevAccount):
		m.accountIdx = cycle(m.accountIdx, len(m.accounts), -1)
		return m, m.load()

	case key.Matches(msg, m.keymap.NextDirection):
		m.direction = m.direction.Next()
		return m, m.load()

	case key.Matches(msg, m.keymap.Refresh):
		m.status = ""
		return m, m.load()

	case key.Matches(msg, m.keymap.Describe):
		txn, ok := m.selected()
		if !ok || m.editor == nil {
			return m, nil
		}
		m.state = StateEditing
		m.editingID = txn.ID
		m.input.SetValue(txn.CustomDescription)
		m.input.CursorEnd()
		m.table.Blur()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Cancel):
		m.state = StateBrowsing
		m.input.Blur()
		m.table.Focus()
		return m, nil

	case key.Matches(msg, m.keymap.Save):
		m.state = StateBrowsing
		m.input.Blur()
		m.table.Focus()
		return m, m.saveDescription(m.editingID, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// selected returns the transaction under the cursor.
func (m Model) selected() (model.Transaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.transactions) {
		return model.Transaction{}, false
	}
	return m.transactions[i], true
}

// cycle steps through -1 (all) and the account indices, wrapping around.
func cycle(idx, n, step int) int {
	span := n + 1
	return ((idx+1+step)%span+span)%span - 1
}

func columns(width int) []table.Column {
	fixed := 6 + 10 + 14 + 12 + 12
	desc := max(width-fixed-14, 16)
	return []table.Column{
		{Title: cli.TransactionHeaders[0], Width: 6},
		{Title: cli.TransactionHeaders[1], Width: 10},
		{Title: cli.TransactionHeaders[2], Width: 14},
		{Title: cli.TransactionHeaders[3], Width: desc},
		{Title: cli.TransactionHeaders[4], Width: 12},
		{Title: cli.TransactionHeaders[5], Width: 12},
	}
}

func tableHeight(height int) int {
	return max(height-9, 3)
}
