package schema

// PointsLedgerTable represents the 'engagement.pointsledger' table
type PointsLedgerTable struct {
	Table     string
	ID        string
	UserID    string
	Delta     string
	Reason    string
	CreatedAt string
}

// PointsLedger is the schema definition for engagement.pointsledger.
// Append-only: rows are never updated or deleted.
var PointsLedger = PointsLedgerTable{
	Table:     "engagement.pointsledger",
	ID:        "id",
	UserID:    "userid",
	Delta:     "delta",
	Reason:    "reason",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t PointsLedgerTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Delta, t.Reason, t.CreatedAt}
}
