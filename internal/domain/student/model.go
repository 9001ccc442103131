package student

// MaxNameLength is the longest name the section table accepts, in characters.
const MaxNameLength = 250

// Student is a persisted roster entry
type Student struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
