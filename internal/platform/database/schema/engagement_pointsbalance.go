package schema

// PointsBalanceTable represents the 'engagement.pointsbalance' table
type PointsBalanceTable struct {
	Table     string
	UserID    string
	Total     string
	Lifetime  string
	UpdatedAt string
}

// PointsBalance is the schema definition for engagement.pointsbalance.
// A cache over SUM(delta) of the ledger; always recomputable.
var PointsBalance = PointsBalanceTable{
	Table:     "engagement.pointsbalance",
	UserID:    "userid",
	Total:     "total",
	Lifetime:  "lifetime",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t PointsBalanceTable) Columns() []string {
	return []string{t.UserID, t.Total, t.Lifetime, t.UpdatedAt}
}
