// internal/vocab/record.go
//
// Vocabulary records as published in the source sheet.
//
// Each sheet row is one Record. Columns are positional (the sheet has no
// header row we rely on); Columns lists them in order and also gives the JSON
// field names used by the API.
//
// Normalisation rules:
//   • level is compared upper-cased and trimmed ("a1 " == "A1").
//   • topic is compared trimmed, case-sensitive.
//   • every other field is passed through untouched.

package vocab

import "strings"

// Columns is the fixed, ordered schema of the sheet.
var Columns = [...]string{
	"level", "topic", "word", "wordType", "phonetic", "mean",
	"definition_vi", "definition_us", "example", "synonym", "antonym",
}

// Record is one vocabulary row.
type Record struct {
	Level        string `json:"level"`
	Topic        string `json:"topic"`
	Word         string `json:"word"`
	WordType     string `json:"wordType"`
	Phonetic     string `json:"phonetic"`
	Mean         string `json:"mean"`
	DefinitionVI string `json:"definition_vi"`
	DefinitionUS string `json:"definition_us"`
	Example      string `json:"example"`
	Synonym      string `json:"synonym"`
	Antonym      string `json:"antonym"`
}

// fromRow maps row[i] onto the i-th column. Missing trailing cells stay empty,
// extra cells are ignored.
func fromRow(row []string) Record {
	var cells [len(Columns)]string
	copy(cells[:], row)
	return Record{
		Level:        cells[0],
		Topic:        cells[1],
		Word:         cells[2],
		WordType:     cells[3],
		Phonetic:     cells[4],
		Mean:         cells[5],
		DefinitionVI: cells[6],
		DefinitionUS: cells[7],
		Example:      cells[8],
		Synonym:      cells[9],
		Antonym:      cells[10],
	}
}

// Valid reports whether the record has both a word and a level.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Word) != "" && strings.TrimSpace(r.Level) != ""
}

// LevelKey is the comparison form of the record's level.
func (r Record) LevelKey() string { return NormalizeLevel(r.Level) }

// TopicKey is the comparison form of the record's topic.
func (r Record) TopicKey() string { return NormalizeTopic(r.Topic) }

// NormalizeLevel trims and upper-cases a level code.
func NormalizeLevel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeTopic trims a topic name.
func NormalizeTopic(s string) string {
	return strings.TrimSpace(s)
}

// Filter keeps only valid records, preserving order.
func Filter(in []Record) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
