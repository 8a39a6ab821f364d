// Package errors provides structured, actionable error messages for the
// emmet expander, its configuration layer and its command-line tools.
//
// Every error carries a code (e.g. "E001") registered with a category, a
// short message and a longer explanation. Errors raised while reading an
// abbreviation can point at the offending column:
//
//	err := errors.New("E001").
//	    WithPosition("div>p>span", 6).
//	    WithSuggestion("Split the abbreviation into smaller pieces")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Abbreviation too long
//	//
//	//   abbreviation:6
//	//
//	//   → div>p>span
//	//          ^
//	//
//	//   Hint: Split the abbreviation into smaller pieces
//
// # Error Categories
//
//   - limit: an expansion guard rejected the input
//   - parse: the abbreviation could not be expanded
//   - config: emmet.json / emmet.yaml problems
//   - cli: command-line usage errors
//   - storage: snippet store failures
//   - protocol: live playground connection problems
package errors
