package errors

import "fmt"

// Error codes
const (
	CodeRecordMalformed       = "RECORD_MALFORMED"
	CodeDerivationFailure     = "DERIVATION_FAILURE"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeRosterInvalid         = "ROSTER_INVALID"
	CodeSource                = "SOURCE_ERROR"
)

type CatalogError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// RecordError marks a raw record that failed the minimal shape check.
type RecordError struct {
	*CatalogError
	Index int
	ID    string
	Field string
}

func NewRecordError(message string, index int, id, field string) *RecordError {
	return &RecordError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeRecordMalformed,
			Context: map[string]any{
				"index": index,
				"id":    id,
				"field": field,
			},
		},
		Index: index,
		ID:    id,
		Field: field,
	}
}

// DerivationError marks a record whose field resolution failed or panicked.
type DerivationError struct {
	*CatalogError
	Index int
	ID    string
}

func NewDerivationError(message string, index int, id string, cause error) *DerivationError {
	return &DerivationError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeDerivationFailure,
			Context: map[string]any{
				"index": index,
				"id":    id,
			},
			Cause: cause,
		},
		Index: index,
		ID:    id,
	}
}

type DependencyError struct {
	*CatalogError
	Dependency string
}

func NewDependencyError(message, dependency string, cause error) *DependencyError {
	return &DependencyError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeDependencyUnavailable,
			Context: map[string]any{
				"dependency": dependency,
			},
			Cause: cause,
		},
		Dependency: dependency,
	}
}

type RosterError struct {
	*CatalogError
	Source string
}

func NewRosterError(message, source string, cause error) *RosterError {
	return &RosterError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeRosterInvalid,
			Context: map[string]any{
				"source": source,
			},
			Cause: cause,
		},
		Source: source,
	}
}

type SourceError struct {
	*CatalogError
	Source    string
	Operation string
}

func NewSourceError(message, source, operation string, cause error) *SourceError {
	return &SourceError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeSource,
			Context: map[string]any{
				"source":    source,
				"operation": operation,
			},
			Cause: cause,
		},
		Source:    source,
		Operation: operation,
	}
}
