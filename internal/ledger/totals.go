package ledger

import (
	"slices"
	"time"

	"github.com/Veraticus/budget-manager/internal/model"
)

// Totals summarizes a list of transactions.
type Totals struct {
	Credit      float64
	Debit       float64
	Fluctuation float64 // Credit - Debit
	Count       int
}

// Sum totals txns.
func Sum(txns []model.Transaction) Totals {
	var t Totals
	for _, txn := range txns {
		t.Credit += txn.CreditAmount()
		t.Debit += txn.DebitAmount()
	}
	t.Fluctuation = t.Credit - t.Debit
	t.Count = len(txns)
	return t
}

// Point is the net movement of one day.
type Point struct {
	Date   time.Time
	Amount float64
}

// Series is the daily movement of one account.
type Series struct {
	Account string
	Points  []Point
}

// DailySeries groups txns by day and returns the net movement of each day,
// oldest first.
func DailySeries(txns []model.Transaction) []Point {
	byDay := make(map[time.Time]float64)
	for _, txn := range txns {
		byDay[model.Day(txn.Date)] += txn.Net()
	}

	points := make([]Point, 0, len(byDay))
	for d, amount := range byDay {
		points = append(points, Point{Date: d, Amount: amount})
	}
	slices.SortFunc(points, func(a, b Point) int {
		return a.Date.Compare(b.Date)
	})
	return points
}

// Cumulative turns daily movements into a running balance.
func Cumulative(points []Point) []Point {
	out := make([]Point, len(points))
	var running float64
	for i, p := range points {
		running += p.Amount
		out[i] = Point{Date: p.Date, Amount: running}
	}
	return out
}
