package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultSection ResultType = "section"
	ResultItem    ResultType = "item"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type      ResultType `json:"type"`
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Snippet   string     `json:"snippet"`
	SectionID string     `json:"sectionId"`
	ProjectID string     `json:"projectId"`
}

// Query describes a search request. Searches are always scoped to projects
// the caller belongs to.
type Query struct {
	Text            string
	FilterType      ResultType // empty = all types
	FilterProjectID string
	ProjectIDs      []string // caller's project memberships
	Limit           int
	Offset          int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// SectionRecord is the data we index for a section.
type SectionRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
}

// ItemRecord is the data we index for an item.
type ItemRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StoreName   string `json:"storeName"`
	Type        string `json:"itemType"`
	SectionID   string `json:"sectionId"`
	ProjectID   string `json:"projectId"`
}
