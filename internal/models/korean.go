package models

// KoreanWord is one record of the Korean vocabulary file. Only Word is
// guaranteed; every other field may be absent.
type KoreanWord struct {
	Word              string   `json:"word"`
	Meaning           *string  `json:"meaning,omitempty"`
	Phrase            *string  `json:"phrase,omitempty"`
	KoreanPhrase      *string  `json:"korean_phrase,omitempty"`
	Expressions       []string `json:"expressions,omitempty"`
	KoreanExpressions []string `json:"korean_expressions,omitempty"`
}

// MeaningOr returns the meaning, or fallback when absent.
func (w KoreanWord) MeaningOr(fallback string) string {
	if w.Meaning == nil {
		return fallback
	}
	return *w.Meaning
}

// EnglishPhrase returns the English example phrase if present.
func (w KoreanWord) EnglishPhrase() (string, bool) {
	if w.Phrase == nil {
		return "", false
	}
	return *w.Phrase, true
}

// KoreanPhraseText returns the Korean example phrase if present.
func (w KoreanWord) KoreanPhraseText() (string, bool) {
	if w.KoreanPhrase == nil {
		return "", false
	}
	return *w.KoreanPhrase, true
}

// HasExpressions reports whether English expressions are present.
func (w KoreanWord) HasExpressions() bool {
	return len(w.Expressions) > 0
}

// HasKoreanExpressions reports whether Korean expressions are present.
func (w KoreanWord) HasKoreanExpressions() bool {
	return len(w.KoreanExpressions) > 0
}

// Entry converts the word into a vocabulary entry filed under category, so
// the Korean track can share the quiz engine.
func (w KoreanWord) Entry(category string) Entry {
	phrase, _ := w.EnglishPhrase()
	return Entry{
		Word:     w.Word,
		Meaning:  w.MeaningOr(""),
		Phrase:   phrase,
		Category: category,
	}
}
