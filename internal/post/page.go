package post

// Direction selects which side of the cursor a page request moves to.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Page is one window of the feed plus the state needed to move forward
// or backward from it.
type Page struct {
	Posts []Summary `json:"posts"`
	// NextCursor points at the last post of the page, PrevCursor at the
	// first; both are empty for an empty page.
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	// HasMore is true when the page came back exactly full.
	HasMore bool `json:"has_more"`
	// HasPrevious is true when the page's first post is not the
	// most-recent matching post system-wide.
	HasPrevious bool `json:"has_previous"`
	IsFirstPage bool `json:"is_first_page"`
}

// emptyPage is the shape every empty or reset window collapses to.
func emptyPage() Page {
	return Page{IsFirstPage: true}
}
