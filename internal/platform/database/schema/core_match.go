package schema

// CoreMatchTable represents the 'core.match' table
type CoreMatchTable struct {
	Table      string
	ID         string
	ExternalID string
	HomeTeam   string
	AwayTeam   string
	League     string
	KickoffAt  string
	HomeScore  string
	AwayScore  string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// CoreMatch is the schema definition for core.match
var CoreMatch = CoreMatchTable{
	Table:      "core.match",
	ID:         "id",
	ExternalID: "externalid",
	HomeTeam:   "hometeam",
	AwayTeam:   "awayteam",
	League:     "league",
	KickoffAt:  "kickoffat",
	HomeScore:  "homescore",
	AwayScore:  "awayscore",
	Status:     "status",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t CoreMatchTable) Columns() []string {
	return []string{
		t.ID, t.ExternalID, t.HomeTeam, t.AwayTeam, t.League, t.KickoffAt,
		t.HomeScore, t.AwayScore, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
