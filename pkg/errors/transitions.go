package errors

import "fmt"

// InvalidTransition reports a disallowed order status change, naming both
// states so callers can surface the exact "cannot go from X to Y" message.
func InvalidTransition(from, to string) *Error {
	return New(CodeStateConflict, fmt.Sprintf("no se puede pasar de %s a %s", from, to)).
		WithDetails(map[string]string{"from": from, "to": to})
}
