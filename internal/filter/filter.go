package filter

import (
	"regexp"
	"strings"
	"unicode"

	"file-search/internal/logging"
)

// Spec is a compiled search specification. The zero value matches
// everything; use Compile to build one from raw user input.
type Spec struct {
	usePattern bool

	// Literal mode: lowercased tokens.
	names []string
	exts  []string
	paths []string

	// Pattern mode: compiled case-insensitive expressions.
	namePatterns []*regexp.Regexp
	extPatterns  []*regexp.Regexp
	pathPatterns []*regexp.Regexp
}

// Compile builds a Spec from raw criteria strings. Alternatives within each
// string may be separated by commas, semicolons, or whitespace; empty tokens
// are discarded. Malformed patterns never cause an error: they are matched
// as literal text instead.
func Compile(nameSpec, extSpec, pathSpec string, usePattern bool) *Spec {
	s := &Spec{usePattern: usePattern}

	if usePattern {
		for _, tok := range splitSpec(nameSpec) {
			s.namePatterns = append(s.namePatterns, compilePattern(tok))
		}
		for _, tok := range splitSpec(extSpec) {
			s.extPatterns = append(s.extPatterns, compileExtPattern(tok))
		}
		for _, tok := range splitSpec(pathSpec) {
			s.pathPatterns = append(s.pathPatterns, compilePattern(tok))
		}
		return s
	}

	for _, tok := range splitSpec(nameSpec) {
		s.names = append(s.names, strings.ToLower(tok))
	}
	for _, tok := range splitSpec(extSpec) {
		tok = strings.ToLower(tok)
		if !strings.HasPrefix(tok, ".") {
			tok = "." + tok
		}
		s.exts = append(s.exts, tok)
	}
	for _, tok := range splitSpec(pathSpec) {
		s.paths = append(s.paths, strings.ToLower(tok))
	}
	return s
}

// splitSpec splits a raw criteria string on commas, semicolons, and
// whitespace, trimming empty tokens.
func splitSpec(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

// compilePattern compiles tok as a case-insensitive regular expression,
// falling back to a quoted literal match when tok is not a valid pattern.
func compilePattern(tok string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + tok)
	if err != nil {
		logging.Debug("Invalid pattern %q, matching literally: %v", tok, err)
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(tok))
	}
	return re
}

// compileExtPattern compiles an extension alternative. Patterns that do not
// already start with a dot or an escape get an implicit `\.` prefix, and all
// are anchored to the end so they match only the tail of the extension.
func compileExtPattern(tok string) *regexp.Regexp {
	pat := tok
	if !strings.HasPrefix(pat, ".") && !strings.HasPrefix(pat, `\`) {
		pat = `\.` + pat
	}
	re, err := regexp.Compile("(?i)" + pat + "$")
	if err != nil {
		logging.Debug("Invalid extension pattern %q, matching literally: %v", tok, err)
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta("."+strings.TrimPrefix(tok, ".")) + "$")
	}
	return re
}

// Empty reports whether the spec imposes no constraints at all.
func (s *Spec) Empty() bool {
	if s.usePattern {
		return len(s.namePatterns) == 0 && len(s.extPatterns) == 0 && len(s.pathPatterns) == 0
	}
	return len(s.names) == 0 && len(s.exts) == 0 && len(s.paths) == 0
}

// UsePattern reports whether the spec was compiled in pattern mode.
// Literal-mode specs allow a coarse storage-layer pre-filter; pattern-mode
// specs require a full scan.
func (s *Spec) UsePattern() bool {
	return s.usePattern
}

// NameTokens returns the lowercased literal name alternatives. Empty in
// pattern mode.
func (s *Spec) NameTokens() []string { return s.names }

// ExtTokens returns the normalized literal extension alternatives (leading
// dot included). Empty in pattern mode.
func (s *Spec) ExtTokens() []string { return s.exts }

// PathTokens returns the lowercased literal path alternatives. Empty in
// pattern mode.
func (s *Spec) PathTokens() []string { return s.paths }

// Matches reports whether a record with the given name, extension, and path
// satisfies every non-empty criteria group.
func (s *Spec) Matches(name, extension, path string) bool {
	if s.usePattern {
		return matchAnyPattern(s.namePatterns, name) &&
			matchAnyPattern(s.extPatterns, extension) &&
			matchAnyPattern(s.pathPatterns, path)
	}

	if len(s.names) > 0 {
		if !containsAny(strings.ToLower(name), s.names) {
			return false
		}
	}
	if len(s.exts) > 0 {
		if !equalsAny(strings.ToLower(extension), s.exts) {
			return false
		}
	}
	if len(s.paths) > 0 {
		if !containsAny(strings.ToLower(path), s.paths) {
			return false
		}
	}
	return true
}

func matchAnyPattern(patterns []*regexp.Regexp, value string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, re := range patterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

func containsAny(value string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(value, tok) {
			return true
		}
	}
	return false
}

func equalsAny(value string, tokens []string) bool {
	for _, tok := range tokens {
		if value == tok {
			return true
		}
	}
	return false
}
