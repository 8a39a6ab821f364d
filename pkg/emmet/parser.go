package emmet

import (
	"fmt"
	"strings"
)

// result is the outcome of one expression parse.
type result struct {
	markup string

	// rest is the unconsumed suffix of the parsed input.
	rest string
}

// parser expands one abbreviation. It is not safe for concurrent use;
// every expansion creates its own.
type parser struct {
	indent        string
	maxDepth      int
	maxMultiplier int
	maxLoremWords int

	// frames counts active child and group recursions.
	frames int

	// copies is the product of the multipliers enclosing the current
	// position, i.e. how many times a node parsed here will be emitted.
	copies int
}

// abort carries a limit violation out of the recursion. It is recovered by
// Expander.Expand.
type abort struct {
	err    error
	detail string
}

func (p *parser) fail(err error, format string, args ...any) {
	panic(abort{err: err, detail: fmt.Sprintf(format, args...)})
}

func (p *parser) enter(depth int) {
	p.frames++
	if p.maxDepth > 0 && p.frames > p.maxDepth {
		p.fail(ErrTooDeep, "nesting reached %d frames at depth %d, limit is %d", p.frames, depth, p.maxDepth)
	}
}

func (p *parser) leave() {
	p.frames--
}

// parseExpression sequences sibling, child, group and climb operators over s.
func (p *parser) parseExpression(s string, depth int) result {
	var parts []string
	rest := s

loop:
	for rest != "" {
		// Bare text fragment: {text} as a sibling.
		if rest[0] == '{' {
			if end := strings.IndexByte(rest, '}'); end >= 0 {
				parts = append(parts, rest[1:end])
				rest = rest[end+1:]
				if strings.HasPrefix(rest, "+") {
					rest = rest[1:]
				}
				continue
			}
		}

		if rest[0] == '(' {
			var frags []string
			frags, rest = p.parseGroup(rest, depth)
			parts = append(parts, frags...)
		} else {
			var markup string
			markup, rest = p.parseNode(rest, depth)
			parts = append(parts, markup)
		}

		if rest == "" {
			break
		}
		switch rest[0] {
		case '+':
			rest = rest[1:]
		case '^':
			// Control returns to the parent with the remainder.
			rest = rest[1:]
			break loop
		default:
			break loop
		}
	}

	return result{markup: strings.Join(parts, "\n"), rest: rest}
}

// parseGroup expands a parenthesized group starting at s[0] == '('.
// It returns one fragment per repetition.
func (p *parser) parseGroup(s string, depth int) ([]string, string) {
	var inner, after string
	if end := findCloseParen(s); end >= 0 {
		inner, after = s[1:end], s[end+1:]
	} else {
		// Unterminated groups close at the end of input.
		inner = s[1:]
	}

	mul := 1
	if strings.HasPrefix(after, "*") {
		end := scanRun(after, 1, isDigit)
		mul = parseMultiplier(after[1:end])
		after = after[end:]
	}
	outer := p.repeat(mul)
	defer func() { p.copies = outer }()

	frags := make([]string, 0, mul)
	for i := 1; i <= mul; i++ {
		p.enter(depth)
		r := p.parseExpression(substitute(inner, i, mul), depth)
		p.leave()
		frags = append(frags, r.markup)
	}
	return frags, after
}

// parseNode scans one node, resolves its child region and renders it.
func (p *parser) parseNode(s string, depth int) (string, string) {
	n, rest := scanTagInfo(s)
	outer := p.repeat(n.Multiplier)
	defer func() { p.copies = outer }()

	if strings.HasPrefix(rest, ">") {
		child := rest[1:]
		if text, after, ok := childText(child); ok {
			if n.Text == "" {
				n.Text = text
			}
			rest = after
		} else {
			p.enter(depth + 1)
			r := p.parseExpression(child, depth+1)
			p.leave()
			n.Children = r.markup
			rest = r.rest
		}
		// The climb was already taken by the child expression.
		rest = strings.TrimPrefix(rest, "^")
	}
	p.checkLorem(n.Text)

	return n.render(p.indent), rest
}

// repeat multiplies the running copy count by mul and returns the previous
// count so the caller can restore it.
func (p *parser) repeat(mul int) int {
	outer := p.copies
	if p.maxMultiplier <= 0 {
		return outer
	}
	if mul > p.maxMultiplier/outer {
		if outer == 1 {
			p.fail(ErrTooManyRepeats, "multiplier %d exceeds limit %d", mul, p.maxMultiplier)
		}
		p.fail(ErrTooManyRepeats, "multiplier %d nested in %d copies exceeds limit %d", mul, outer, p.maxMultiplier)
	}
	p.copies = outer * mul
	return outer
}

// checkLorem rejects text whose lorem markers ask for more words than
// maxLoremWords.
func (p *parser) checkLorem(text string) {
	if p.maxLoremWords <= 0 {
		return
	}
	if n := largestLoremCount(text); n > p.maxLoremWords {
		p.fail(ErrTooManyWords, "placeholder text of %d words exceeds limit %d", n, p.maxLoremWords)
	}
}

// childText matches a child region that opens with a {text} block.
func childText(s string) (text, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", s, false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return "", s, false
	}
	return s[1:end], s[end+1:], true
}

// findCloseParen returns the index of the ')' matching the '(' at s[0],
// or -1 when the group is never closed.
func findCloseParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
