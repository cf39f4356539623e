package statement

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/budget-manager/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing bracket of a bare tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseOFX reads an OFX/QFX statement and returns its bank and credit card
// transactions. Negative amounts become debits, positive amounts credits.
// When account is empty the statement's account ID is used.
func ParseOFX(r io.Reader, username, account string) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		name := accountOrDefault(account, string(stmt.BankAcctFrom.AcctID))
		for _, ofxTx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, convertOFX(ofxTx, username, name))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		name := accountOrDefault(account, string(stmt.CCAcctFrom.AcctID))
		for _, ofxTx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, convertOFX(ofxTx, username, name))
		}
	}

	slog.Debug("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func convertOFX(ofxTx ofxgo.Transaction, username, account string) model.Transaction {
	description := string(ofxTx.Name)
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = string(ofxTx.Payee.Name)
	}
	if ofxTx.Memo != "" && strings.TrimSpace(description) == "" {
		description = string(ofxTx.Memo)
	}

	txn := model.Transaction{
		Date:        model.Day(ofxTx.DtPosted.Time),
		Username:    username,
		Description: normalizeDescription(description),
		Account:     account,
	}

	amount, _ := ofxTx.TrnAmt.Float64()
	if amount < 0 {
		txn.Debit = model.Amount(-amount)
	} else {
		txn.Credit = model.Amount(amount)
	}
	return txn
}

func accountOrDefault(account, fallback string) string {
	if account != "" {
		return account
	}
	if fallback == "" {
		return UnknownAccount
	}
	return fallback
}
