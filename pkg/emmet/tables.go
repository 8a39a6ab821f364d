package emmet

// loremWords is the placeholder corpus, cycled in order.
var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "ut", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
}

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// inputTypes are the subtypes accepted by the input:<type> shorthand.
var inputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
	"number":   true,
	"tel":      true,
	"url":      true,
	"search":   true,
	"date":     true,
	"time":     true,
	"datetime": true,
	"month":    true,
	"week":     true,
	"color":    true,
	"range":    true,
	"checkbox": true,
	"radio":    true,
	"file":     true,
	"submit":   true,
	"reset":    true,
	"button":   true,
	"hidden":   true,
	"image":    true,
}

// boilerplate is the document produced by the "!" abbreviation.
const boilerplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Document</title>
</head>
<body>
  
</body>
</html>`
