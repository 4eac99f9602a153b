package schema

// CorePredictionTable represents the 'core.prediction' table
type CorePredictionTable struct {
	Table      string
	ID         string
	AuthorID   string
	MatchID    string
	Title      string
	Content    string
	Pick       string
	Odds       string
	Confidence string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// CorePrediction is the schema definition for core.prediction
var CorePrediction = CorePredictionTable{
	Table:      "core.prediction",
	ID:         "id",
	AuthorID:   "authorid",
	MatchID:    "matchid",
	Title:      "title",
	Content:    "content",
	Pick:       "pick",
	Odds:       "odds",
	Confidence: "confidence",
	Status:     "status",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t CorePredictionTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.MatchID, t.Title, t.Content, t.Pick,
		t.Odds, t.Confidence, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
