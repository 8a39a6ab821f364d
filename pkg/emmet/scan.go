package emmet

import (
	"strconv"
	"strings"
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isNameByte classifies bytes allowed in tag names and attribute keys.
func isNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}

// isClassByte classifies bytes allowed in class and id names.
// Counter placeholders are part of the name until substitution.
func isClassByte(c byte) bool {
	return isNameByte(c) || c == '$'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// scanRun returns the end of the longest run starting at i whose bytes satisfy ok.
func scanRun(s string, i int, ok func(byte) bool) int {
	for i < len(s) && ok(s[i]) {
		i++
	}
	return i
}

// scanTagInfo consumes the prefix of s that describes a single node:
// tag, classes, id, attributes, inline text and multiplier.
// It returns the node and the unconsumed remainder.
func scanTagInfo(s string) (*Node, string) {
	n := &Node{Multiplier: 1}

	i := scanRun(s, 0, isNameByte)
	n.Tag = s[:i]
	if n.Tag == "" {
		n.Tag = "div"
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			end := scanRun(s, i+1, isClassByte)
			if end > i+1 {
				n.Classes = append(n.Classes, s[i+1:end])
			}
			i = end

		case '#':
			end := scanRun(s, i+1, isClassByte)
			n.ID = s[i+1 : end]
			i = end

		case '[':
			end := strings.IndexByte(s[i+1:], ']')
			var raw string
			if end < 0 {
				raw = s[i+1:]
				i = len(s)
			} else {
				raw = s[i+1 : i+1+end]
				i = i + 1 + end + 1
			}
			if attrs := rewriteAttrs(raw); attrs != "" {
				if n.Attrs != "" {
					n.Attrs += " "
				}
				n.Attrs += attrs
			}

		case '{':
			text, end := scanBraced(s, i)
			n.Text = text
			i = end

		case '*':
			end := scanRun(s, i+1, isDigit)
			n.Multiplier = parseMultiplier(s[i+1 : end])
			i = end

		default:
			return n, s[i:]
		}
	}
	return n, ""
}

// scanBraced reads brace-nesting-aware text starting at the '{' at s[start].
// It returns the inner text and the index just past the matching '}'.
// An unterminated block absorbs the rest of s.
func scanBraced(s string, start int) (string, int) {
	depth := 1
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i], i + 1
			}
		}
	}
	return s[start+1:], len(s)
}

// parseMultiplier normalizes a repetition count. Missing, zero and
// unparsable counts become 1.
func parseMultiplier(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// rewriteAttrs converts the raw text of an attribute block into an
// attribute fragment: key=value becomes key="value", bare keys and values
// that are already quoted are kept as written.
func rewriteAttrs(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 8)

	i := 0
	for i < len(raw) {
		c := raw[i]
		if !isNameByte(c) || c == '-' {
			b.WriteByte(c)
			i++
			continue
		}

		keyEnd := scanRun(raw, i, isNameByte)
		b.WriteString(raw[i:keyEnd])
		i = keyEnd
		if i >= len(raw) || raw[i] != '=' {
			continue
		}
		b.WriteByte('=')
		i++

		if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
			quote := raw[i]
			end := strings.IndexByte(raw[i+1:], quote)
			if end < 0 {
				b.WriteString(raw[i:])
				break
			}
			b.WriteString(raw[i : i+1+end+1])
			i = i + 1 + end + 1
			continue
		}

		valEnd := i
		for valEnd < len(raw) && !isSpace(raw[valEnd]) {
			valEnd++
		}
		b.WriteByte('"')
		b.WriteString(raw[i:valEnd])
		b.WriteByte('"')
		i = valEnd
	}
	return strings.TrimSpace(b.String())
}
