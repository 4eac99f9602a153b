package schema

// CoreArticleTable represents the 'core.article' table
type CoreArticleTable struct {
	Table     string
	ID        string
	AuthorID  string
	Title     string
	Slug      string
	Content   string
	ImageURL  string
	CreatedAt string
	UpdatedAt string
}

// CoreArticle is the schema definition for core.article
var CoreArticle = CoreArticleTable{
	Table:     "core.article",
	ID:        "id",
	AuthorID:  "authorid",
	Title:     "title",
	Slug:      "slug",
	Content:   "content",
	ImageURL:  "imageurl",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t CoreArticleTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Title, t.Slug, t.Content, t.ImageURL, t.CreatedAt, t.UpdatedAt}
}
