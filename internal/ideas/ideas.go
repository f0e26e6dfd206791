package ideas

import "context"

// Idea is one content idea ready for scripting.
type Idea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Source fetches zero or more ideas. The locator is source-specific (a
// spreadsheet URL for the sheet source); an empty locator yields an empty
// list, not an error.
type Source interface {
	Fetch(ctx context.Context, locator string) ([]Idea, error)
}
