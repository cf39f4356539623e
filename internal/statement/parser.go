// Package statement turns bank statement exports into unpersisted
// transactions.
package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/budget-manager/internal/model"
)

// UnknownAccount is returned by ParseAccountName when no line names the
// account.
const UnknownAccount = "Unknown Account"

const (
	// headerTokens is the number of leading metadata cells skipped before the
	// first transaction group.
	headerTokens = 4
	// groupSize is the width of one transaction: date, description, debit, credit.
	groupSize = 4

	dateLayout = "02/01/2006"
	// looseDateLayout accepts single-digit days and months.
	looseDateLayout = "2/1/2006"
)

var (
	accountNameRegex = regexp.MustCompile(`^(.*?)(carte|n°)`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	lineBreaks       = strings.NewReplacer("\r", "", "\n", "")
	lineSplit        = regexp.MustCompile(`\r\n|\r|\n`)
	descriptionClean = strings.NewReplacer("\r", "", "\n", "", `"`, "")
)

// ParseTransactions scans semicolon-delimited statement text. The whole text
// is split on ';' into one token stream; after the header tokens, tokens are
// consumed in groups of date, description, debit and credit. Empty tokens and
// tokens that are not dates are skipped one at a time so ragged rows
// re-synchronize, and a short trailing group is dropped. When account is
// empty the name is inferred with ParseAccountName.
func ParseTransactions(rawText, username, account string) []model.Transaction {
	if account == "" {
		account = ParseAccountName(rawText)
	}

	tokens := strings.Split(rawText, ";")
	var transactions []model.Transaction

	i := headerTokens
	for i < len(tokens) {
		if tokens[i] == "" {
			i++
			continue
		}
		if i+groupSize > len(tokens) {
			break
		}

		date, ok := parseDate(tokens[i])
		if !ok {
			i++
			continue
		}

		transactions = append(transactions, model.Transaction{
			Date:        date,
			Username:    username,
			Description: normalizeDescription(tokens[i+1]),
			Account:     account,
			Debit:       parseAmount(tokens[i+2]),
			Credit:      parseAmount(tokens[i+3]),
		})
		i += groupSize
	}

	return transactions
}

// ParseAccountName returns the text preceding "carte" or "n°" on the first
// line that contains either, trimmed. It falls back to UnknownAccount.
func ParseAccountName(rawText string) string {
	for _, line := range lineSplit.Split(rawText, -1) {
		if m := accountNameRegex.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return UnknownAccount
}

func parseDate(token string) (time.Time, bool) {
	token = lineBreaks.Replace(token)
	for _, layout := range []string{dateLayout, looseDateLayout} {
		if date, err := time.Parse(layout, token); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

func normalizeDescription(token string) string {
	cleaned := descriptionClean.Replace(token)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(cleaned, " "))
}

// parseAmount returns nil for empty or unparseable cells.
func parseAmount(token string) *float64 {
	cleaned := strings.ReplaceAll(lineBreaks.Replace(token), ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return nil
	}
	return &v
}
