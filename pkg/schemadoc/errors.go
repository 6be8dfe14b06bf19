package schemadoc

import "fmt"

// Error reports a problem at a location in a schema document.
type Error struct {
	// Pointer is the JSON pointer of the offending keyword.
	Pointer string
	Line    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	location := e.Pointer
	if location == "" {
		location = "/"
	}
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("schemadoc: %s (line %d): %s", location, e.Line, msg)
	}
	return fmt.Sprintf("schemadoc: %s: %s", location, msg)
}

func (e *Error) Unwrap() error { return e.Err }
