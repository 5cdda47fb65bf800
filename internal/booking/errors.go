package booking

import "errors"

// Kind is the machine-readable classification of a booking error. Handlers
// map each kind to a stable HTTP status code.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindAlreadyRated Kind = "already_rated"
)

// Error is a booking failure with a classification the client can branch on.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ErrKind extracts the Kind from err, or "" if err is not a booking error.
func ErrKind(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// Store-level sentinels, returned by store implementations and translated
// into classified errors by the engine.
var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSlot is returned when the storage unique constraint over
	// (doctor, date, time) rejects a write. The constraint is the
	// authoritative enforcement of slot uniqueness; the engine's pre-check
	// only exists to produce a friendlier error first.
	ErrDuplicateSlot = errors.New("duplicate appointment slot")
)
