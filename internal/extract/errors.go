package extract

import "fmt"

// MalformedStyleError is returned when a style sheet cannot be read as a
// valid declaration block structure.
type MalformedStyleError struct {
	Sheet  int // index of the sheet within the artifact
	Offset int // byte offset within the sheet
	Line   int // 1-based line of Offset
	Reason string
}

// Error implements the error interface.
func (e *MalformedStyleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed style sheet %d at line %d: %s", e.Sheet, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed style sheet %d: %s", e.Sheet, e.Reason)
}
