package port

type Tokenizer interface {
	Tokenize(text string) []string

	CountTokens(text string) int
}

// Stemmer maps a word to its linguistic root.
type Stemmer interface {
	Stem(word string) string
}
