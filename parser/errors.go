package parser

import "fmt"

// ParseError reports that an expected piece of page structure was absent or
// malformed. Field names the extraction that failed, so markup drift surfaces
// as a single broken field rather than a whole-page failure.
type ParseError struct {
	Field string
	Err   error
}

func (e ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: expected markup not found", e.Field)
	}
	return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}
