package schema

// DailyStateTable represents the 'engagement.dailystate' table
type DailyStateTable struct {
	Table               string
	UserID              string
	LastResetDay        string
	HasRevealedToday    string
	RevealedItemID      string
	AffirmationShuffles string
	CreatedAt           string
	UpdatedAt           string
}

// DailyState is the schema definition for engagement.dailystate
var DailyState = DailyStateTable{
	Table:               "engagement.dailystate",
	UserID:              "userid",
	LastResetDay:        "lastresetday",
	HasRevealedToday:    "hasrevealedtoday",
	RevealedItemID:      "revealeditemid",
	AffirmationShuffles: "affirmationshuffles",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names
func (t DailyStateTable) Columns() []string {
	return []string{t.UserID, t.LastResetDay, t.HasRevealedToday, t.RevealedItemID, t.AffirmationShuffles, t.CreatedAt, t.UpdatedAt}
}
