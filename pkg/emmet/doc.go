// Package emmet expands Emmet-style abbreviations into indented HTML.
//
// An abbreviation describes a tree of elements in one line:
//
//	div.card*3>h2+p{lorem5}
//
// expands to three div elements with class "card", each holding an h2 and a
// paragraph of five placeholder words.
//
// # Grammar
//
// A node is a tag name followed by any number of modifiers:
//
//   - .name appends a class; #name sets the id (last one wins)
//   - [key=value other] adds attributes; values are quoted on output
//   - {text} sets the element text; lorem and loremN inside it become
//     placeholder words
//   - *N repeats the node N times
//
// Nodes are combined with operators:
//
//   - a>b makes b a child of a
//   - a+b makes b a sibling of a
//   - a>b^c stops a's children at the '^'; c is dropped
//   - a>{text} sets a's text instead of adding a child
//   - (a>b)*N repeats a whole group
//
// Each node and group replaces "$" in its own fields by its 1-based
// repetition index and "$$" by the index padded to two digits. A node
// without a multiplier resolves them to 1; text outside any node is left
// as written.
//
// A few shorthands are rewritten before parsing (see Preprocess), "!"
// yields an HTML document skeleton and a lone "lorem" or "loremN" yields
// placeholder text. Lorem markers elsewhere only expand inside {text};
// in node position they name an element.
//
// # Usage
//
//	html := emmet.Expand("ul>li.item$*3")
//
// For untrusted input use an Expander with explicit limits and inspect the
// error:
//
//	exp := emmet.New(emmet.WithMaxDepth(32), emmet.WithMaxInputLength(1024))
//	html, err := exp.Expand(abbr)
//	if err != nil {
//	    html = emmet.UnrecognizedHint
//	}
//
// Limits bound the input length, the nesting depth, the number of copies a
// node is emitted (the product of every enclosing multiplier) and the
// words a lorem marker may ask for.
//
// Malformed input degrades instead of failing: an unclosed group ends at
// the end of the input, an unclosed brace or bracket absorbs the rest of
// the input, and invalid multipliers count as 1.
package emmet
