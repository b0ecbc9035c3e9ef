package entity

// Lecture is a rendered course lecture page.
type Lecture struct {
	Number      int
	Lang        string
	Title       string
	Author      string
	Enabled     bool
	SourcePath  string
	PageContent string // Rendered HTML page
	PageHash    string // ETag
}
