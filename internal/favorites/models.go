package favorites

import "time"

// CurrentVersion is the schema tag written with every document.
const CurrentVersion = 1

// TimeLayout is the addedAt format: ISO-8601 UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z"

type Favorite struct {
	ID          string   `json:"id"` // owner/name
	Name        string   `json:"name"`
	Owner       string   `json:"owner"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	AddedAt     string   `json:"addedAt"`
	Tags        []string `json:"tags"`
}

// AddedTime parses AddedAt. The zero time is returned when it cannot be parsed.
func (f Favorite) AddedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, f.AddedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Document is the single persisted aggregate.
type Document struct {
	Favorites []Favorite `json:"favorites"`
	Version   int        `json:"version"`
}

func DefaultDocument() *Document {
	return &Document{Favorites: []Favorite{}, Version: CurrentVersion}
}

// RepoSummary is what a caller knows about a repository before it is stored.
type RepoSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type ImportResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`

	// Err wraps ErrInvalidImportFormat when Success is false.
	Err error `json:"-"`
}
