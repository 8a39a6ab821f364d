package emmet

import "strings"

// Node describes one element produced by a single tag-info scan.
// Every string field may still hold counter placeholders; they are
// resolved independently for each repetition when the node is rendered.
type Node struct {
	// Tag is the element name, "div" when the abbreviation omits it.
	Tag string

	// Classes are kept in declaration order, duplicates included.
	Classes []string

	// ID is the last id declared for the node.
	ID string

	// Attrs is the pre-rendered attribute fragment, e.g. `type="email"`.
	Attrs string

	// Text is the inline text. It may contain lorem markers.
	Text string

	// Multiplier is the repetition count, always >= 1.
	Multiplier int

	// Children is the already expanded markup of the child region.
	Children string
}

// render produces the markup for every repetition of the node, joined by
// newlines in ascending index order. Counters are resolved for every
// repetition, so a node without a multiplier resolves them to 1.
func (n *Node) render(indent string) string {
	mul := n.Multiplier
	if mul < 1 {
		mul = 1
	}
	classes := strings.Join(n.Classes, " ")

	var b strings.Builder
	for i := 1; i <= mul; i++ {
		if i > 1 {
			b.WriteByte('\n')
		}
		n.renderOne(&b, indent, i, mul, classes)
	}
	return b.String()
}

func (n *Node) renderOne(b *strings.Builder, indent string, i, total int, classes string) {
	resolve := func(s string) string {
		return substitute(s, i, total)
	}
	id := resolve(n.ID)
	class := resolve(classes)
	attrs := resolve(n.Attrs)

	// Opening tag
	b.WriteByte('<')
	b.WriteString(n.Tag)
	if id != "" {
		b.WriteString(` id="`)
		b.WriteString(id)
		b.WriteByte('"')
	}
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(class)
		b.WriteByte('"')
	}
	if attrs != "" {
		b.WriteByte(' ')
		b.WriteString(attrs)
	}
	b.WriteByte('>')

	if isVoidElement(n.Tag) {
		return
	}

	if children := resolve(n.Children); children != "" {
		b.WriteByte('\n')
		b.WriteString(indentLines(children, indent))
		b.WriteByte('\n')
	} else if text := resolve(n.Text); text != "" {
		b.WriteString(expandLoremMarkers(text))
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// indentLines prefixes every line of s with one indent unit.
func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	return indent + strings.ReplaceAll(s, "\n", "\n"+indent)
}
