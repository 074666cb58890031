package action

const (
	// MsgNotAuthenticated is returned when no usable session is available.
	MsgNotAuthenticated = "Not authenticated"

	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination mirrors the remote API's pagination block.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// EmptyPagination is what failed list calls report so callers can render
// an empty state without nil checks.
func EmptyPagination() *Pagination {
	return &Pagination{Total: 0, Page: DefaultPage, Limit: DefaultLimit, Pages: 0}
}

// Result is the envelope every action returns. Success and Error are
// mutually exclusive; failures never surface as Go errors.
type Result[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Failed reports whether the call did not succeed.
func (r Result[T]) Failed() bool {
	return !r.Success
}

func failure[T any](msg string) Result[T] {
	return Result[T]{Success: false, Error: msg}
}

// listFailure fills the empty-list defaults.
func listFailure[T any](msg string) Result[[]T] {
	return Result[[]T]{
		Success:    false,
		Data:       []T{},
		Error:      msg,
		Pagination: EmptyPagination(),
	}
}
