package lexer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rcliao/simdeck/internal/diag"
)

// Token is one whitespace-delimited item of record text. Raw keeps the quotes.
type Token struct {
	Raw    string
	Quoted bool
}

// Value returns the token text with quote marks removed.
func (t Token) Value() string {
	if !t.Quoted {
		return t.Raw
	}
	return Unquote(t.Raw)
}

// Unquote removes the delimiting quote marks of every quoted span in s.
func Unquote(s string) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isQuote(c) {
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			b.WriteString(s[i+1 : i+1+end])
			i += end + 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// Tokenize splits record text (without its terminating slash) into tokens.
// Quoted spans may contain whitespace and may follow a repeat count
// (2*'SHUT'). An unterminated quote is a structural error.
func Tokenize(text string) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(text) {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			break
		}
		start := i
		quoted := false
		for i < len(text) && !isSpace(text[i]) {
			c := text[i]
			if isQuote(c) {
				end := strings.IndexByte(text[i+1:], c)
				if end < 0 {
					return nil, diag.Format(diag.Structural, diag.CodeUnterminatedQuote,
						"unterminated quote in %q", text[start:])
				}
				quoted = true
				i += end + 2
				continue
			}
			i++
		}
		tokens = append(tokens, Token{Raw: text[start:i], Quoted: quoted})
	}
	return tokens, nil
}

// Repeat is the decoded form of a "N*", "N*value" or "*" token.
type Repeat struct {
	Count     int
	Value     Token
	Defaulted bool
}

// ParseRepeat decodes a repeat-count token. ok is false for plain tokens.
// A numeric but non-integer or non-positive count is a malformed multiplier.
func ParseRepeat(t Token) (r Repeat, ok bool, err error) {
	raw := t.Raw
	if raw == "*" {
		return Repeat{Count: 1, Defaulted: true}, true, nil
	}
	if raw == "" || isQuote(raw[0]) {
		return Repeat{}, false, nil
	}
	star := strings.IndexByte(raw, '*')
	if star <= 0 {
		return Repeat{}, false, nil
	}
	if q := strings.IndexAny(raw, `'"`); q >= 0 && q < star {
		return Repeat{}, false, nil
	}

	countText := raw[:star]
	count, convErr := strconv.Atoi(countText)
	if convErr != nil {
		if _, fErr := strconv.ParseFloat(countText, 64); fErr == nil {
			return Repeat{}, false, diag.Format(diag.Structural, diag.CodeBadMultiplier,
				"repeat count %q in %q is not an integer", countText, raw)
		}
		return Repeat{}, false, nil
	}
	if count <= 0 {
		return Repeat{}, false, diag.Format(diag.Structural, diag.CodeBadMultiplier,
			"repeat count in %q must be positive", raw)
	}

	rest := raw[star+1:]
	if rest == "" {
		return Repeat{Count: count, Defaulted: true}, true, nil
	}
	value := Token{Raw: rest, Quoted: strings.ContainsAny(rest, `'"`)}
	return Repeat{Count: count, Value: value}, true, nil
}

var keywordName = regexp.MustCompile(`^[A-Z][A-Z0-9_+-]{0,7}$`)

// MaxKeywordLength is the number of significant characters of a keyword name.
const MaxKeywordLength = 8

// IsValidKeywordName reports whether s has the shape of a keyword name.
func IsValidKeywordName(s string) bool {
	return keywordName.MatchString(s)
}

// KeywordCandidate extracts a keyword name from a cleaned line. Only the first
// field counts and it is truncated to MaxKeywordLength characters.
func KeywordCandidate(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	field := line
	if i := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' || r == '/' }); i >= 0 {
		field = line[:i]
	}
	if len(field) > MaxKeywordLength {
		field = field[:MaxKeywordLength]
	}
	if !IsValidKeywordName(field) {
		return "", false
	}
	return field, true
}

// IsSingleField reports whether a cleaned line holds exactly one field.
func IsSingleField(line string) bool {
	return line != "" && strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' }) < 0
}
