package utils

import "strings"

var (
	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", `\n`,
	)
	lineBreakEscaper = strings.NewReplacer(
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", `\n`,
	)
)

// Escape a TEXT value (RFC 5545 3.3.11): backslash, semicolon, comma and
// line breaks.
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// Escape only line breaks. For values whose ';' and ',' are structural
// (GEO, REQUEST-STATUS, RRULE, URIs), so they can't break out of their line.
func EscapeLineBreaks(value string) string {
	return lineBreakEscaper.Replace(value)
}
