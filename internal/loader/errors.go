package loader

import "fmt"

// InvalidRecordError is a structural failure found during validation.
type InvalidRecordError struct {
	File string
	Line int
	Err  error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid data in %q at line %d: %v", e.File, e.Line, e.Err)
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

// RelationshipNotDefinedError means the data references a label pair the
// schema has no relationship for. It is a configuration error and aborts the
// run.
type RelationshipNotDefinedError struct {
	From   string
	To     string
	Column string
}

func (e *RelationshipNotDefinedError) Error() string {
	return fmt.Sprintf("relationship not found in schema: (:%s)->(:%s) referenced by column %q", e.From, e.To, e.Column)
}

type StoreError struct {
	Op    string
	Label string
	Cause error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "store operation failed"
	}
	return fmt.Sprintf("store operation failed (op=%s label=%s): %v", e.Op, e.Label, e.Cause)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
