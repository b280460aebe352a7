package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DeriveUsername builds the login name handed out on registration: the
// initial of every first name followed by a dot and a short form of the
// surname.  A single surname contributes its first four letters, two or
// more surnames contribute three letters of the first plus the initial of
// the second.  Accents are stripped and anything that is not a letter is
// dropped before lowercasing.
//
// "Ana" + "Diaz" -> "a.diaz", "Jose Luis" + "Garcia Perez" -> "jl.garp".
func DeriveUsername(firstName, lastName string) string {
	initials := ""
	for _, part := range strings.Fields(firstName) {
		r := []rune(part)
		if len(r) > 0 {
			initials += string(r[0])
		}
	}

	surnames := strings.Fields(lastName)
	tail := ""
	switch {
	case len(surnames) == 1:
		tail = firstLetters(surnames[0], 4)
	case len(surnames) >= 2:
		tail = firstLetters(surnames[0], 3) + firstLetters(surnames[1], 1)
	}

	return sanitize(initials) + "." + sanitize(tail)
}

// firstLetters returns up to n leading runes of s.
func firstLetters(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// sanitize strips accents, drops non-letters and lowercases.  NFD splits
// letters from combining marks so the marks can be filtered out.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
