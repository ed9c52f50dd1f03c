package session

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptySend signals a send with no text and no attachments. Callers treat
// it as a silent no-op, not a failure.
var ErrEmptySend = errors.New("nothing to send")

// ErrTurnActive signals a send while another turn is still in flight.
var ErrTurnActive = errors.New("a turn is already in flight")

// ErrorPrefix starts every assistant message produced by a failed turn.
const ErrorPrefix = "Sorry, I encountered an error: "

// NoResponseFallback replaces an empty assistant response.
const NoResponseFallback = "No response was generated."

// ShapeError reports a response value that matched none of the known
// provider shapes. It carries the raw value for diagnostics.
type ShapeError struct {
	Raw any
}

func (e *ShapeError) Error() string {
	raw, err := json.Marshal(e.Raw)
	if err != nil {
		return fmt.Sprintf("the AI returned a response in an unexpected format: %+v", e.Raw)
	}
	return fmt.Sprintf("the AI returned a response in an unexpected format: %s", raw)
}

// FormatTurnError renders a terminal turn error as assistant message
// content, fenced so the transcript keeps a readable audit trail.
func FormatTurnError(err error) string {
	return ErrorPrefix + "```\n" + err.Error() + "\n```"
}
