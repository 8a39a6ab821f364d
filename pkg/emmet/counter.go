package emmet

import (
	"strconv"
	"strings"
)

// substitute resolves counter placeholders for repetition index i.
// "$$" becomes the zero-padded two digit index and is replaced before the
// single "$" pass so padded output is never rewritten again.
// total is the repetition count; it is accepted for symmetry with the
// callers and not used.
func substitute(s string, i, _ int) string {
	if s == "" || strings.IndexByte(s, '$') < 0 {
		return s
	}
	plain := strconv.Itoa(i)
	padded := plain
	if i < 10 {
		padded = "0" + plain
	}
	s = strings.ReplaceAll(s, "$$", padded)
	return strings.ReplaceAll(s, "$", plain)
}
