package utils

import "unicode/utf8"

// Content lines must not be longer than this many octets, excluding the CRLF.
const MaxLineOctets = 75

// Transform a normal writer into a writer that takes one unterminated content
// line, folds it into chunks of at most 75 octets and terminates each chunk
// with CRLF. Continuation chunks start with a single space, which counts
// towards the limit. Multi-octet UTF-8 sequences are never split. Example:
//
//	var sb strings.Builder
//	writer := Split75wrapper(sb.WriteString)
//	writer("DESCRIPTION:" + strings.Repeat("a", 80))
//
// Output:
//
//	DESCRIPTION:aaa...a (75 octets)\r\n
//	 aaaaaaaaaaaaaaaaa\r\n
func Split75wrapper(writer func(string) (int, error)) func(string) (int, error) {
	return func(line string) (int, error) {
		total := 0
		for len(line) > MaxLineOctets {
			cut := MaxLineOctets
			for cut > 1 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			n, err := writer(line[:cut] + "\r\n")
			total += n
			if err != nil {
				return total, err
			}
			line = " " + line[cut:]
		}
		n, err := writer(line + "\r\n")
		total += n
		return total, err
	}
}
