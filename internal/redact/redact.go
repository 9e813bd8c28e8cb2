// Package redact turns article markup into a word-guessing board.
// Every content word is replaced by a placeholder that reveals its length
// and a word-class identifier, while tags and entity references pass
// through untouched.
//
// Usage:
//
//	r := redact.NewRedactor(nil)
//	html := r.Page(page.Title, page.Extract)
package redact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordPattern matches a run of letters, digits and apostrophes, optionally
// wrapped as an entity reference (&name;). Group 1 is the content.
var wordPattern = regexp.MustCompile(`&?([\p{L}0-9']+);?`)

// placeholderFormat renders one redacted word. The length is repeated in the
// title (tooltip) and in the --len custom property used for box width.
const placeholderFormat = `<span title="%d" style="--len: %d" class="redacted word word--%s">%s</span>`

// Redactor rewrites text, replacing content words with placeholders.
// It holds no mutable state and is safe for concurrent use.
type Redactor struct {
	classify ClassifyFunc
}

// NewRedactor returns a Redactor deriving identifiers with classify,
// or with Classify when classify is nil.
func NewRedactor(classify ClassifyFunc) *Redactor {
	if classify == nil {
		classify = Classify
	}
	return &Redactor{classify: classify}
}

// Redact strips annotation blocks and replaces every content word outside a tag
// with a placeholder. Entity references such as &amp; are copied verbatim.
func (r *Redactor) Redact(text string) string {
	text = StripAnnotations(text)
	inTag := tagOffsets(text)

	var b strings.Builder
	b.Grow(len(text) * 4)

	last := 0
	for _, m := range wordPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		contentStart, contentEnd := m[2], m[3]

		// Inside tag attributes; left for the verbatim copy.
		if inTag[contentStart] {
			continue
		}

		b.WriteString(text[last:start])
		last = end

		if end-start == contentEnd-contentStart+2 {
			b.WriteString(text[start:end])
			continue
		}

		// A lone '&' or ';' is not an entity wrapper: it stays as plain text
		// beside the placeholder rather than being consumed with the word, so
		// "end; then" keeps its semicolon.
		b.WriteString(text[start:contentStart])
		r.writePlaceholder(&b, text[contentStart:contentEnd])
		b.WriteString(text[contentEnd:end])
	}
	b.WriteString(text[last:])

	return b.String()
}

// Page redacts an article's title and extract separately and assembles them
// under the heading the client inspects to detect a win.
func (r *Redactor) Page(title, extract string) string {
	return `<h1 id="the-title">` + r.Redact(title) + `</h1>` + r.Redact(extract)
}

func (r *Redactor) writePlaceholder(b *strings.Builder, word string) {
	n := utf8.RuneCountInString(word)
	fmt.Fprintf(b, placeholderFormat, n, n, r.classify(word), word)
}

// tagOffsets reports, for every byte offset of text, whether a '>' follows
// before any '<', i.e. whether the offset sits inside an open tag.
func tagOffsets(text string) []bool {
	inTag := make([]bool, len(text)+1)
	open := false
	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case '>':
			open = true
		case '<':
			open = false
		}
		inTag[i] = open
	}
	return inTag
}
