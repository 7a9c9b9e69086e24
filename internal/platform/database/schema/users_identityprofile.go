package schema

// IdentityProfileTable represents the 'users.identityprofile' table
type IdentityProfileTable struct {
	Table       string
	UserID      string
	BirthDate   string
	BirthTime   string
	BirthPlace  string
	DefaultSign string
	CreatedAt   string
	UpdatedAt   string
}

// IdentityProfile is the schema definition for users.identityprofile
var IdentityProfile = IdentityProfileTable{
	Table:       "users.identityprofile",
	UserID:      "userid",
	BirthDate:   "birthdate",
	BirthTime:   "birthtime",
	BirthPlace:  "birthplace",
	DefaultSign: "defaultsign",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t IdentityProfileTable) Columns() []string {
	return []string{t.UserID, t.BirthDate, t.BirthTime, t.BirthPlace, t.DefaultSign, t.CreatedAt, t.UpdatedAt}
}
