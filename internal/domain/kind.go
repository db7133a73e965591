package domain

// Kind discriminates the three record kinds a capture can produce.
type Kind string

const (
	KindTask Kind = "task"
	KindIdea Kind = "idea"
	KindNote Kind = "note"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTask, KindIdea, KindNote:
		return true
	}
	return false
}
