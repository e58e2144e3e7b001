// Package lexer cleans deck lines and splits record text into tokens.
//
// Comment markers and record terminators are only recognised outside quoted
// spans. A quote that is never closed hides every terminator after it, so the
// rest of the line is kept verbatim.
package lexer

import "strings"

// TerminatorFunc reports whether a terminator starts at line[i].
type TerminatorFunc func(line string, i int) bool

// IsComment matches the two-character comment marker "--".
func IsComment(line string, i int) bool {
	return line[i] == '-' && i+1 < len(line) && line[i+1] == '-'
}

// IsSlash matches the record terminator "/".
func IsSlash(line string, i int) bool {
	return line[i] == '/'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

// FindTerminator returns the index of the first terminator outside quotes,
// or -1. Quoted spans are skipped in one step; an unbalanced quote ends the
// search with -1.
func FindTerminator(line string, term TerminatorFunc) int {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if isQuote(c) {
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				return -1
			}
			i += end + 1
			continue
		}
		if term(line, i) {
			return i
		}
	}
	return -1
}

// StripComments removes an unquoted "--" comment and everything after it.
func StripComments(line string) string {
	if pos := FindTerminator(line, IsComment); pos >= 0 {
		return line[:pos]
	}
	return line
}

// StripSlash drops everything after the first unquoted '/', keeping the slash.
func StripSlash(line string) string {
	if pos := FindTerminator(line, IsSlash); pos >= 0 {
		return line[:pos+1]
	}
	return line
}

// CleanLine strips comments and trailing text after a terminating slash and
// trims surrounding whitespace.
func CleanLine(line string) string {
	return strings.TrimSpace(StripSlash(StripComments(line)))
}

// SplitTerminated splits a cleaned line at its terminating slash. ok is false
// when the line holds no unquoted slash.
func SplitTerminated(line string) (body string, ok bool) {
	pos := FindTerminator(line, IsSlash)
	if pos < 0 {
		return line, false
	}
	return strings.TrimSpace(line[:pos]), true
}
