package redact

// ClassifyFunc maps a word to its word-class identifier.
type ClassifyFunc func(word string) string

// Classify derives the word-class identifier shared by every inflection of word.
// It is deterministic across processes: the same word always yields the same id.
func Classify(word string) string {
	return Encode([]byte(Stem(Normalize(word))))
}
