// Package kebab converts free-form identifiers into the hyphen-lowercase
// token form expected by the company API ("information-technology").
package kebab

import (
	"strings"
	"unicode"
)

// Normalize returns the kebab-case form of s.
//
// Tokens start at an uppercase acronym (two or more capitals followed by a
// capitalized word or a word boundary), at an optionally capitalized lowercase
// run with trailing digits, at a lone capital, or at a digit run. Everything
// else is kept as is. Whitespace, underscores and hyphens separate tokens.
func Normalize(s string) string {
	rs := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(rs); {
		n := matchToken(rs, i)
		if n == 0 {
			b.WriteRune(rs[i])
			i++
			continue
		}
		b.WriteByte(' ')
		for _, r := range rs[i : i+n] {
			b.WriteRune(unicode.ToLower(r))
		}
		i += n
	}

	return strings.Join(strings.FieldsFunc(b.String(), isSeparator), "-")
}

// matchToken returns the length of the token starting at rs[i], or 0.
func matchToken(rs []rune, i int) int {
	if n := matchAcronym(rs, i); n > 0 {
		return n
	}
	if n := matchWord(rs, i); n > 0 {
		return n
	}
	if isUpper(rs[i]) {
		return 1
	}
	return countWhile(rs, i, isDigit)
}

// matchAcronym matches the longest run of at least two capitals that is
// followed by a capitalized word or a word boundary.
func matchAcronym(rs []rune, i int) int {
	run := countWhile(rs, i, isUpper)
	for end := i + run; end-i >= 2; end-- {
		if startsCapitalized(rs, end) || wordBoundary(rs, end) {
			return end - i
		}
	}
	return 0
}

// matchWord matches an optional capital, a lowercase run and trailing digits.
func matchWord(rs []rune, i int) int {
	j := i
	if isUpper(rs[j]) && j+1 < len(rs) && isLower(rs[j+1]) {
		j++
	}
	lower := countWhile(rs, j, isLower)
	if lower == 0 {
		return 0
	}
	j += lower
	j += countWhile(rs, j, isDigit)
	return j - i
}

func startsCapitalized(rs []rune, i int) bool {
	return i+1 < len(rs) && isUpper(rs[i]) && isLower(rs[i+1])
}

func wordBoundary(rs []rune, i int) bool {
	before := i > 0 && isWordRune(rs[i-1])
	after := i < len(rs) && isWordRune(rs[i])
	return before != after
}

func countWhile(rs []rune, i int, pred func(rune) bool) int {
	n := 0
	for i+n < len(rs) && pred(rs[i+n]) {
		n++
	}
	return n
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
