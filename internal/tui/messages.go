package tui

import "github.com/Veraticus/budget-manager/internal/ledger"

// Data loading messages.
type dataLoadedMsg struct {
	err      error
	summary  *ledger.Summary
	accounts []string
}

// descriptionSavedMsg reports the outcome of an edit.
type descriptionSavedMsg struct {
	err error
	id  int64
}
