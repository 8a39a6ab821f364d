package emmet

import "errors"

// Sentinel errors wrapped by the coded errors Expander.Expand returns.
var (
	// ErrInputTooLong is returned when the abbreviation exceeds MaxInputLength.
	ErrInputTooLong = errors.New("emmet: abbreviation too long")

	// ErrTooDeep is returned when child and group nesting exceeds MaxDepth.
	ErrTooDeep = errors.New("emmet: nesting too deep")

	// ErrTooManyRepeats is returned when a multiplier exceeds MaxMultiplier.
	ErrTooManyRepeats = errors.New("emmet: multiplier too large")

	// ErrTooManyWords is returned when a lorem marker asks for more words
	// than MaxLoremWords.
	ErrTooManyWords = errors.New("emmet: placeholder text too long")

	// ErrUnrecognized is returned when expansion stops on an unexpected fault.
	ErrUnrecognized = errors.New("emmet: abbreviation not recognized")
)

// UnrecognizedHint is the text interactive callers show in place of markup
// when an expansion fails.
const UnrecognizedHint = "// Syntax not recognized.\n// Try: div.card*3>h2+p{lorem5}"
