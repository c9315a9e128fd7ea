package lexicon

import (
	"context"
	"errors"
	"strings"

	"github.com/siherrmann/metonym/model"
	"github.com/surgebase/porter2"
)

var ErrWordNotFound = errors.New("word not found")

// Lexicon resolves surface words to candidate senses and senses to their definitions
type Lexicon interface {
	Senses(ctx context.Context, word string) ([]*model.Sense, error)
	Definition(ctx context.Context, key model.SenseKey) (string, error)
}

// Normalize lowercases a word and joins its parts the way WordNet lemmas are written ("ice cream" -> "ice_cream")
func Normalize(word string) string {
	return strings.Join(strings.Fields(strings.ToLower(word)), "_")
}

// Stem stems every part of a normalized word
func Stem(word string) string {
	parts := strings.Split(Normalize(word), "_")
	for i, p := range parts {
		parts[i] = porter2.Stem(p)
	}
	return strings.Join(parts, "_")
}
