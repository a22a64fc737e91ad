// Package vocabfile encodes and decodes the pipe-delimited vocabulary file.
//
// Each non-blank line holds one entry as "word | meaning | phrase | category",
// optionally followed by " | media" with a media file reference. Blank and
// malformed lines are kept verbatim in a Document so a rewrite
// never loses unrelated data.
package vocabfile

import (
	"bytes"
	"strings"

	"github.com/starford/vocabuild/internal/models"
)

// Separator is the literal field separator.
const Separator = " | "

// Ext is the file extension of vocabulary files.
const Ext = ".txt"

const (
	minFields  = 4
	mediaField = 4
)

// Line is one physical line of the file, without its line terminator.
type Line struct {
	Raw    string
	fields []string
}

// Valid reports whether the line decodes to an entry.
func (l Line) Valid() bool {
	return len(l.fields) >= minFields
}

// Blank reports whether the line is empty or whitespace only.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Raw) == ""
}

// Entry returns the decoded entry. ok is false for blank or malformed lines.
func (l Line) Entry() (models.Entry, bool) {
	if !l.Valid() {
		return models.Entry{}, false
	}
	e := models.Entry{
		Word:     l.fields[0],
		Meaning:  l.fields[1],
		Phrase:   l.fields[2],
		Category: l.fields[3],
	}
	if len(l.fields) > mediaField {
		if ref := strings.TrimSpace(l.fields[mediaField]); ref != "" {
			e.Media = &ref
		}
	}
	return e, true
}

// Word returns the first field of a valid line.
func (l Line) Word() string {
	if !l.Valid() {
		return ""
	}
	return l.fields[0]
}

// WithPhrase returns a copy of the line with the phrase field replaced. Any
// fields beyond the fourth are carried over.
func (l Line) WithPhrase(phrase string) Line {
	if !l.Valid() {
		return l
	}
	fields := append([]string(nil), l.fields...)
	fields[2] = phrase
	return Line{Raw: strings.Join(fields, Separator), fields: fields}
}

// ParseLine decodes a single line. The line is trimmed before splitting.
func ParseLine(raw string) Line {
	l := Line{Raw: raw}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return l
	}
	if parts := strings.Split(trimmed, Separator); len(parts) >= minFields {
		l.fields = parts
	}
	return l
}

// FormatEntry renders e in canonical form, without a line terminator. The
// media field is written only when e has a reference.
func FormatEntry(e models.Entry) string {
	fields := []string{e.Word, e.Meaning, e.Phrase, e.Category}
	if ref, ok := e.MediaPath(); ok {
		fields = append(fields, ref)
	}
	return strings.Join(fields, Separator)
}

// Clean reports whether s can be stored as a single field: it must not
// contain the separator or a line break.
func Clean(s string) bool {
	return !strings.Contains(s, Separator) && !strings.ContainsAny(s, "\r\n")
}

// Document is the full content of a vocabulary file, line by line.
type Document struct {
	Lines []Line
	// trailingNewline records whether the source ended with a newline.
	trailingNewline bool
}

// Parse splits data into lines. A "\r" before the newline stays part of Raw,
// so untouched CRLF lines are rewritten unchanged.
func Parse(data []byte) *Document {
	doc := &Document{}
	if len(data) == 0 {
		return doc
	}
	doc.trailingNewline = bytes.HasSuffix(data, []byte("\n"))
	text := string(data)
	if doc.trailingNewline {
		text = strings.TrimSuffix(text, "\n")
	}
	for _, raw := range strings.Split(text, "\n") {
		doc.Lines = append(doc.Lines, ParseLine(raw))
	}
	return doc
}

// Entries returns the decoded entries in file order, skipping blank and
// malformed lines.
func (d *Document) Entries() []models.Entry {
	out := make([]models.Entry, 0, len(d.Lines))
	for _, l := range d.Lines {
		if e, ok := l.Entry(); ok {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the index of the first valid line whose word equals word
// case-insensitively, or -1.
func (d *Document) Find(word string) int {
	for i, l := range d.Lines {
		if l.Valid() && strings.EqualFold(l.Word(), word) {
			return i
		}
	}
	return -1
}

// Append adds e as a new canonical line.
func (d *Document) Append(e models.Entry) {
	d.Lines = append(d.Lines, ParseLine(FormatEntry(e)))
	d.trailingNewline = true
}

// Bytes renders the document. Every line gets a trailing newline, except the
// last one when the source had none and nothing was appended since.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for i, l := range d.Lines {
		buf.WriteString(l.Raw)
		if i < len(d.Lines)-1 || d.trailingNewline {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Encode renders entries as a fresh file, one canonical line per entry.
func Encode(entries []models.Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(FormatEntry(e))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
