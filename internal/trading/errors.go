package trading

import "metagate/internal/terminal"

// FailKind tags a routing failure. Callers pick a retry policy off the kind:
// connection failures are infrastructure and retryable, rejections carry a
// broker reason and are not, not-found and validation are client errors.
type FailKind int

const (
	FailConnection FailKind = iota
	FailRejected
	FailNotFound
	FailValidation
)

// Error is the failure variant every routing operation returns. When the
// terminal produced an explicit rejection, Result holds its payload.
type Error struct {
	Kind    FailKind
	Message string
	Result  *terminal.OrderSendResult
}

func (e *Error) Error() string {
	return e.Message
}

func connectionFailure() *Error {
	return &Error{Kind: FailConnection, Message: "Check connection to metatrader"}
}

// asRouteError normalizes errors bubbling out of nested close calls: typed
// routing errors pass through, anything else was a terminal-layer failure.
func asRouteError(err error) *Error {
	if te, ok := err.(*Error); ok {
		return te
	}
	return connectionFailure()
}
