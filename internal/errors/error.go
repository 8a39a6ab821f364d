package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryLimit    Category = "limit"
	CategoryParse    Category = "parse"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
	CategoryStorage  Category = "storage"
	CategoryProtocol Category = "protocol"
)

// contextWidth is the number of bytes shown on each side of a position.
const contextWidth = 30

// Location points at a column of an abbreviation or a line of a file.
type Location struct {
	Source string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line > 0 {
		if l.Column > 0 {
			return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
		}
		return fmt.Sprintf("%s:%d", l.Source, l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Source, l.Column)
}

// EmmetError is a structured error with an optional input position and suggestions.
type EmmetError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the input position where the error occurred.
	Location *Location

	// Excerpt is the slice of input shown under the header.
	Excerpt string

	// ExcerptColumn is the 1-based column of Location inside Excerpt.
	ExcerptColumn int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is an abbreviation or snippet showing the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *EmmetError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *EmmetError) Unwrap() error {
	return e.Wrapped
}

// WithPosition points the error at the 1-based column of an abbreviation.
// Long inputs are cut down to a window around the column.
func (e *EmmetError) WithPosition(input string, column int) *EmmetError {
	if column < 1 {
		column = 1
	}
	e.Location = &Location{Source: "abbreviation", Column: column}

	start := column - 1 - contextWidth
	if start < 0 {
		start = 0
	}
	end := column - 1 + contextWidth
	if end > len(input) {
		end = len(input)
	}
	if start > end {
		start = end
	}
	e.Excerpt = input[start:end]
	e.ExcerptColumn = column - start
	return e
}

// WithFile points the error at a line of a file, e.g. a config file.
func (e *EmmetError) WithFile(path string, line int) *EmmetError {
	e.Location = &Location{Source: path, Line: line}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *EmmetError) WithSuggestion(s string) *EmmetError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *EmmetError) WithExample(ex string) *EmmetError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *EmmetError) WithDetail(d string) *EmmetError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *EmmetError) Wrap(err error) *EmmetError {
	e.Wrapped = err
	return e
}

// New creates an EmmetError from a registered error code.
func New(code string) *EmmetError {
	template, ok := registry[code]
	if !ok {
		return &EmmetError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &EmmetError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new EmmetError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *EmmetError {
	return &EmmetError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an EmmetError.
func FromError(err error, code string) *EmmetError {
	if err == nil {
		return nil
	}
	var ee *EmmetError
	if stderrors.As(err, &ee) {
		return ee
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, an EmmetError with the given code.
func HasCode(err error, code string) bool {
	var ee *EmmetError
	return stderrors.As(err, &ee) && ee.Code == code
}
