package redact

import "regexp"

// annotationPattern is greedy: with several annotation blocks on one line,
// everything from the first opener to the last closer goes.
var annotationPattern = regexp.MustCompile(`<annotation.+/annotation>`)

// StripAnnotations removes embedded annotation blocks (math markup and the like)
// so their contents are never redacted or displayed.
func StripAnnotations(text string) string {
	return annotationPattern.ReplaceAllString(text, "")
}
