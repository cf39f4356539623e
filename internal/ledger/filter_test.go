package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
)

func TestScope(t *testing.T) {
	all := AllAccounts()
	assert.True(t, all.IsAll())
	assert.True(t, all.Matches("Anything"))
	assert.True(t, all.Matches(""))
	assert.Equal(t, "all accounts", all.String())

	var zero Scope
	assert.True(t, zero.IsAll())

	// An account literally named like the display label is still an account.
	named := OnlyAccount("all accounts")
	assert.False(t, named.IsAll())
	assert.True(t, named.Matches("all accounts"))
	assert.False(t, named.Matches("Checking"))
	assert.Equal(t, "all accounts", named.Account())
}

func TestDirectionFromFlags(t *testing.T) {
	assert.Equal(t, Both, DirectionFromFlags(false, false))
	assert.Equal(t, CreditsOnly, DirectionFromFlags(true, false))
	assert.Equal(t, DebitsOnly, DirectionFromFlags(false, true))
	assert.Equal(t, CreditsOnly, DirectionFromFlags(true, true), "credits take precedence")
}

func TestDirection_Keep(t *testing.T) {
	credit := model.Transaction{Credit: model.Amount(10), Debit: model.Amount(0)}
	debit := model.Transaction{Debit: model.Amount(10)}
	mixed := model.Transaction{Credit: model.Amount(5), Debit: model.Amount(5)}
	empty := model.Transaction{}

	tests := []struct {
		name string
		dir  Direction
		want []bool // credit, debit, mixed, empty
	}{
		{name: "both", dir: Both, want: []bool{true, true, true, true}},
		{name: "credits", dir: CreditsOnly, want: []bool{true, false, false, false}},
		{name: "debits", dir: DebitsOnly, want: []bool{false, true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []bool{tt.dir.Keep(credit), tt.dir.Keep(debit), tt.dir.Keep(mixed), tt.dir.Keep(empty)}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirection_NextAndString(t *testing.T) {
	assert.Equal(t, CreditsOnly, Both.Next())
	assert.Equal(t, DebitsOnly, CreditsOnly.Next())
	assert.Equal(t, Both, DebitsOnly.Next())

	assert.Equal(t, "all", Both.String())
	assert.Equal(t, "credits", CreditsOnly.String())
	assert.Equal(t, "debits", DebitsOnly.String())
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"":        Both,
		"all":     Both,
		"Credits": CreditsOnly,
		" debit ": DebitsOnly,
	} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}
