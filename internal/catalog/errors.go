package catalog

import (
	"errors"
	"fmt"
)

// Structural catalog errors. They make the whole document meaningless, so the
// pipeline aborts on them instead of degrading.
var (
	ErrMissingRoot      = errors.New("catalog: root message type is not declared")
	ErrRootHasBase      = errors.New("catalog: root message type must not have a base")
	ErrUnknownBase      = errors.New("catalog: base type is not declared")
	ErrMultipleRoots    = errors.New("catalog: message type has no base but is not the root")
	ErrInheritanceCycle = errors.New("catalog: inheritance cycle")
	ErrSelfReference    = errors.New("catalog: message type reaches itself through its fields")
	ErrDuplicateType    = errors.New("catalog: duplicate message type")
)

// Error ties a structural error to the offending type.
type Error struct {
	Kind   error
	Type   string
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Type != "" {
		msg += ": " + e.Type
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// DuplicateKeyError is returned when a UI hint repeats a control parameter key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("an item with the same key has already been added. Key: %s", e.Key)
}

// LoadError reports a catalog file that could not be read or did not match the
// catalog schema.
type LoadError struct {
	Location string
	Problems []string
	Cause    error
}

func (e *LoadError) Error() string {
	if len(e.Problems) > 0 {
		msg := fmt.Sprintf("catalog %s: %d problem(s)", e.Location, len(e.Problems))
		for _, p := range e.Problems {
			msg += "\n  - " + p
		}
		return msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("catalog %s: %v", e.Location, e.Cause)
	}
	return fmt.Sprintf("catalog %s: invalid", e.Location)
}

func (e *LoadError) Unwrap() error { return e.Cause }
