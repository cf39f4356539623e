package tui

import (
	"context"
	"time"

	"github.com/Veraticus/budget-manager/internal/ledger"
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

// Ledger is what the browser reads.
type Ledger interface {
	Accounts(ctx context.Context) ([]string, error)
	Summarize(ctx context.Context, f ledger.Filter) (*ledger.Summary, error)
}

// DescriptionEditor saves custom descriptions.
type DescriptionEditor interface {
	UpdateTransactionDescription(ctx context.Context, id int64, description string) error
}

// Config holds TUI configuration.
type Config struct {
	Ledger  Ledger
	Editor  DescriptionEditor
	After   *time.Time
	Before  *time.Time
	Theme   themes.Theme
	Timeout time.Duration
	Width   int
	Height  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		Timeout: 30 * time.Second,
		Width:   100,
		Height:  24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithDateRange restricts the browser to a date range. Either bound may be
// nil.
func WithDateRange(after, before *time.Time) Option {
	return func(c *Config) {
		c.After = after
		c.Before = before
	}
}
