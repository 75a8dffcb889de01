package tracker

// Code is the outcome of a repository operation.
type Code string

const (
	CreationSuccess Code = "CreationSuccess"
	CreationFailure Code = "CreationFailure"
	DeletionSuccess Code = "DeletionSuccess"
	DeletionFailure Code = "DeletionFailure"
	FetchSuccess    Code = "FetchSuccess"
	FetchFailure    Code = "FetchFailure"
	UpdateSuccess   Code = "UpdateSuccess"
	UpdateFailure   Code = "UpdateFailure"
)

// Result carries the outcome of a repository operation. Entity is only set
// on success; Message and Err are only set on failure. Err wraps one of the
// package sentinels so callers can branch with errors.Is.
type Result[T any] struct {
	Code    Code   `json:"code"`
	Entity  T      `json:"entity,omitempty"`
	Message string `json:"error_message,omitempty"`
	Err     error  `json:"-"`
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

type operation struct {
	verb    string
	success Code
	failure Code
}

var (
	opAdd    = operation{verb: "add", success: CreationSuccess, failure: CreationFailure}
	opDelete = operation{verb: "delete", success: DeletionSuccess, failure: DeletionFailure}
	opGet    = operation{verb: "get", success: FetchSuccess, failure: FetchFailure}
	opUpdate = operation{verb: "update", success: UpdateSuccess, failure: UpdateFailure}
)
