package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeColumns are the columns that reveal the match result: the target
// label, the set scores and the bookmaker closing odds. They exist in the
// snapshot but must never reach the estimator, the same exclusion applied
// when the model was trained.
var OutcomeColumns = []string{
	"target", "date", "sets_p1", "sets_p2", "b365_p1", "b365_p2", "ps_p1", "ps_p2",
}

// MatchRecord is one historical match row. Identity is the unordered player
// pair plus the calendar date. Rows are immutable once loaded.
type MatchRecord struct {
	P1   string
	P2   string
	Date time.Time

	// Outcome-only data, excluded from the feature contract
	Target     int
	SetsP1     int
	SetsP2     int
	OddsB365P1 decimal.Decimal
	OddsB365P2 decimal.Decimal
	OddsPSP1   decimal.Decimal
	OddsPSP2   decimal.Decimal

	// Remaining predictor columns by name
	Features map[string]float64
}

// Projection returns the record from p1's perspective as the estimator sees
// it: the two player names plus the predictor columns, with every outcome-only
// column excluded by construction.
func (r *MatchRecord) Projection() map[string]interface{} {
	row := make(map[string]interface{}, len(r.Features)+2)
	row["p1"] = r.P1
	row["p2"] = r.P2
	for name, value := range r.Features {
		row[name] = value
	}
	return row
}
