package redact

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// unmapped stands in for runes the transliteration table has no entry for
const unmapped = '?'

// Normalize reduces a word to lowercase ASCII for hashing.
// Accented letters lose their accents, other scripts are transliterated
// phonetically, and anything left without an ASCII form becomes '?'.
// Only ASCII case rules are applied.
func Normalize(word string) string {
	var b strings.Builder
	b.Grow(len(word))

	for _, r := range norm.NFC.String(word) {
		switch {
		case r < utf8.RuneSelf:
			b.WriteByte(asciiLower(byte(r)))
		case unicode.Is(unicode.Mn, r):
			// a combining mark that did not compose carries no letter of its own
		default:
			ascii := unidecode.Unidecode(string(r))
			if ascii == "" {
				b.WriteByte(unmapped)
				continue
			}
			for i := 0; i < len(ascii); i++ {
				c := ascii[i]
				if c >= utf8.RuneSelf {
					c = unmapped
				}
				b.WriteByte(asciiLower(c))
			}
		}
	}

	return b.String()
}

func asciiLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
