package domain

// FallbackBio replaces the biography when a profile page has no tidbits text.
const FallbackBio = "Professional wrestler with extensive career background."

// DefaultRating is reported for candidates whose results row carries no rating.
const DefaultRating = "0"

// SearchCandidate is a wrestler link found on the search-results page.
// Birthplace, Rating and Votes come from the link's results-table row and
// keep their zero values (Rating "0") when the link sits outside one.
type SearchCandidate struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"name"`
	ProfileURL  string `json:"profile_url"`
	Birthplace  string `json:"birthplace"`
	Rating      string `json:"rating"`
	Votes       int    `json:"votes"`
}

// SearchFilter narrows a candidate list. Nil thresholds and an empty
// Birthplace are not applied.
type SearchFilter struct {
	MinVotes   *int
	MinRating  *float64
	Birthplace string
}

// TimelineEntry is part of the response shape but is never populated.
type TimelineEntry struct {
	Event string `json:"event"`
	Year  string `json:"year"`
}

// WrestlerProfile is the normalized record returned to API callers.
type WrestlerProfile struct {
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url"`
	Bio      string          `json:"bio"`
	Height   string          `json:"height"`
	Weight   string          `json:"weight"`
	Hometown string          `json:"hometown"`
	Timeline []TimelineEntry `json:"timeline"`
}

// NewWrestlerProfile returns a profile with the documented defaults applied.
func NewWrestlerProfile(name string) *WrestlerProfile {
	return &WrestlerProfile{
		Name:     name,
		Bio:      FallbackBio,
		Timeline: []TimelineEntry{},
	}
}
