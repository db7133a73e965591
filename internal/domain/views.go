package domain

// TaskPage is one page of a task listing. More is a heuristic: true when
// the page came back full, so a following page probably exists.
type TaskPage struct {
	Items []Task
	More  bool
}

// IdeaPage is one page of an idea listing.
type IdeaPage struct {
	Items []Idea
	More  bool
}

// NotePage is one page of a note listing.
type NotePage struct {
	Items []Note
	More  bool
}

// SearchResult groups substring matches per kind.
type SearchResult struct {
	Tasks []Task
	Ideas []Idea
	Notes []Note
}
