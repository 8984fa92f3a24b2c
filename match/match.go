// Package match implements the Matcher component: compiling a query into
// token matchers and testing candidate strings against them.
package match

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rofi-go/rofi/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TokenMatcher is one compiled predicate for a single whitespace-separated
// query token.
type TokenMatcher struct {
	invert bool
	field  string // optional field-prefix tag, e.g. "title:" — unused unless set
	test   func(candidate string) bool
}

// Invert reports whether this token was prefixed with the negate character.
func (t *TokenMatcher) Invert() bool { return t.invert }

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD: a candidate
// must be valid UTF-8, and invalid bytes are replaced rather than
// rejected.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// foldKey applies NFKC normalization and, unless case-sensitive, case
// folding — the preprocessing the Normal and Prefix methods require.
func foldKey(s string, caseSensitive bool) string {
	s = norm.NFKC.String(s)
	if !caseSensitive {
		s = cases.Fold().String(s)
	}
	return s
}

// Tokenize compiles a query into a list of token matchers.
func Tokenize(query string, cfg config.Config) []TokenMatcher {
	if !cfg.Tokenize {
		return []TokenMatcher{compileToken(query, cfg)}
	}
	fields := strings.Fields(query)
	tokens := make([]TokenMatcher, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, compileToken(f, cfg))
	}
	return tokens
}

func compileToken(raw string, cfg config.Config) TokenMatcher {
	negate := cfg.NegateChar
	if negate == 0 {
		negate = '-'
	}
	invert := false
	text := raw
	if r, size := utf8.DecodeRuneInString(text); size > 0 && r == negate {
		invert = true
		text = text[size:]
	}

	var test func(string) bool
	switch cfg.Matching {
	case config.MatchGlob:
		test = compileGlob(text, cfg.CaseSensitive)
	case config.MatchFuzzy:
		test = compileFuzzy(text, cfg.CaseSensitive)
	case config.MatchPrefix:
		test = compilePrefix(text, cfg.CaseSensitive)
	case config.MatchRegex:
		test = compileRegex(text, cfg.CaseSensitive)
	default:
		test = compileNormal(text, cfg.CaseSensitive)
	}

	return TokenMatcher{invert: invert, test: test}
}

func compileNormal(text string, caseSensitive bool) func(string) bool {
	key := foldKey(text, caseSensitive)
	return func(candidate string) bool {
		return strings.Contains(foldKey(sanitizeUTF8(candidate), caseSensitive), key)
	}
}

func compilePrefix(text string, caseSensitive bool) func(string) bool {
	key := foldKey(text, caseSensitive)
	return func(candidate string) bool {
		return strings.HasPrefix(foldKey(sanitizeUTF8(candidate), caseSensitive), key)
	}
}

func compileGlob(text string, caseSensitive bool) func(string) bool {
	pattern := globToRegex(text)
	re, err := compilePattern(pattern, caseSensitive)
	if err != nil {
		// Degrade to an escaped substring search.
		return compileNormal(text, caseSensitive)
	}
	return func(candidate string) bool {
		return re.MatchString(sanitizeUTF8(candidate))
	}
}

func globToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func compileFuzzy(text string, caseSensitive bool) func(string) bool {
	runes := []rune(text)
	parts := make([]string, 0, len(runes))
	for _, r := range runes {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	pattern := strings.Join(parts, ".*")
	re, err := compilePattern(pattern, caseSensitive)
	if err != nil {
		return compileNormal(text, caseSensitive)
	}
	return func(candidate string) bool {
		return re.MatchString(sanitizeUTF8(candidate))
	}
}

func compileRegex(text string, caseSensitive bool) func(string) bool {
	re, err := compilePattern(text, caseSensitive)
	if err != nil {
		// Fall back to an escaped substring test.
		return compileNormal(text, caseSensitive)
	}
	return func(candidate string) bool {
		return re.MatchString(sanitizeUTF8(candidate))
	}
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// Matches reports whether the candidate satisfies every token: matches iff
// for every token, invert XOR test(candidate).
// An empty token list matches everything.
func Matches(tokens []TokenMatcher, candidate string) bool {
	candidate = sanitizeUTF8(candidate)
	for _, t := range tokens {
		if t.invert == t.test(candidate) {
			return false
		}
	}
	return true
}
