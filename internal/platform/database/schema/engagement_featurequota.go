package schema

// FeatureQuotaTable represents the 'engagement.featurequota' table
type FeatureQuotaTable struct {
	Table    string
	UserID   string
	Feature  string
	Day      string
	FreeUsed string
}

// FeatureQuota is the schema definition for engagement.featurequota
var FeatureQuota = FeatureQuotaTable{
	Table:    "engagement.featurequota",
	UserID:   "userid",
	Feature:  "feature",
	Day:      "day",
	FreeUsed: "freeused",
}

// Columns returns all standard column names
func (t FeatureQuotaTable) Columns() []string {
	return []string{t.UserID, t.Feature, t.Day, t.FreeUsed}
}
