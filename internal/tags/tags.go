// Package tags splits audio script text into plain text and [tag] tokens.
package tags

import (
	"iter"
	"regexp"
)

// Kind distinguishes plain sentence text from bracket tags.
type Kind int

const (
	Text Kind = iota
	Tag
)

func (k Kind) String() string {
	if k == Tag {
		return "tag"
	}
	return "text"
}

// Token is one piece of an audio script. Value keeps the original characters,
// brackets included for tags.
type Token struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Any bracketed run on a single line is a tag; the vocabulary is not checked.
var tagPattern = regexp.MustCompile(`\[.*?\]`)

// Split yields the tokens of text in order. Empty text between adjacent tags is
// skipped, so concatenating every Value reproduces text exactly. The sequence can
// be ranged over any number of times.
func Split(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
			if loc[0] > pos {
				if !yield(Token{Kind: Text, Value: text[pos:loc[0]]}) {
					return
				}
			}
			if !yield(Token{Kind: Tag, Value: text[loc[0]:loc[1]]}) {
				return
			}
			pos = loc[1]
		}
		if pos < len(text) {
			yield(Token{Kind: Text, Value: text[pos:]})
		}
	}
}

// Collect materializes Split into a slice.
func Collect(text string) []Token {
	var out []Token
	for tok := range Split(text) {
		out = append(out, tok)
	}
	return out
}
