package parser

import "strings"

// Only the five predefined entities are decoded, in a single left-to-right
// pass, so "&amp;lt;" yields "&lt;" and not "<".
var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&apos;", "'",
)

var fieldEscaper = strings.NewReplacer(
	"\t", " ",
	"\n", " ",
	"\r", " ",
)

// UnescapeXML decodes the predefined XML entities in s.
func UnescapeXML(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityDecoder.Replace(s)
}

// EscapeField makes s safe as one tab-separated field by turning every tab,
// carriage return and line feed into a space.
func EscapeField(s string) string {
	return fieldEscaper.Replace(s)
}

// stripMarkup returns the character data of body with every tag removed.
func stripMarkup(body []byte) string {
	var sb strings.Builder
	sb.Grow(len(body))
	inTag := false
	for _, c := range body {
		switch {
		case c == '<':
			inTag = true
		case c == '>' && inTag:
			inTag = false
		case !inTag:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
