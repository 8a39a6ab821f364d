package emmet

import "regexp"

var (
	typedTagRe  = regexp.MustCompile(`\b(input|select|textarea|button):([\w-]+)`)
	linkCSSRe   = regexp.MustCompile(`\blink:css\b`)
	scriptSrcRe = regexp.MustCompile(`\bscript:src\b`)
	btnRe       = regexp.MustCompile(`\bbtn\b`)
)

// Preprocess rewrites shorthand forms into canonical node syntax:
//
//	input:email  -> input[type=email]
//	link:css     -> link[rel=stylesheet href=style.css]
//	script:src   -> script[src=]
//	btn          -> button
//
// Only input accepts a subtype rewrite; select:, textarea: and button:
// forms, and unknown input types, are left as written.
func Preprocess(abbr string) string {
	abbr = typedTagRe.ReplaceAllStringFunc(abbr, func(m string) string {
		sub := typedTagRe.FindStringSubmatch(m)
		if sub[1] == "input" && inputTypes[sub[2]] {
			return "input[type=" + sub[2] + "]"
		}
		return m
	})
	abbr = linkCSSRe.ReplaceAllLiteralString(abbr, "link[rel=stylesheet href=style.css]")
	abbr = scriptSrcRe.ReplaceAllLiteralString(abbr, "script[src=]")
	return btnRe.ReplaceAllLiteralString(abbr, "button")
}
