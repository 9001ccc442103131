package student

// StatusKind classifies the outcome of a Service call.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusInvalid
	StatusNoRows
	StatusStoreError
)

func (k StatusKind) String() string {
	switch k {
	case StatusOK:
		return "ok"
	case StatusInvalid:
		return "invalid"
	case StatusNoRows:
		return "no_rows"
	case StatusStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}

// Result carries a call's value together with its status. Message is the
// human-readable status line shown to the user verbatim.
type Result[T any] struct {
	Value   T
	Kind    StatusKind
	Message string
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Kind == StatusOK
}
