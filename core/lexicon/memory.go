package lexicon

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/siherrmann/metonym/model"
)

const defaultSuggestions = 3

// Memory is an immutable in-memory lexicon. Senses of a word keep the order they were added in.
type Memory struct {
	synsets map[string]*model.Synset
	byWord  map[string][]*model.Sense
	byStem  map[string][]*model.Sense
	words   []string
	count   int
}

var _ Lexicon = (*Memory)(nil)

// NewMemory indexes the given senses by word and stem.
// A key given twice fails with model.ErrAmbiguousSense.
func NewMemory(senses []*model.Sense) (*Memory, error) {
	m := &Memory{
		synsets: make(map[string]*model.Synset),
		byWord:  make(map[string][]*model.Sense),
		byStem:  make(map[string][]*model.Sense),
	}

	grouped := make(map[string][]*model.Sense)
	for _, s := range senses {
		if s == nil {
			continue
		}
		if err := s.Key.Validate(); err != nil {
			return nil, err
		}
		grouped[s.Key.Synset] = append(grouped[s.Key.Synset], s)
		m.count++

		word := Normalize(s.Key.Lemma)
		if _, ok := m.byWord[word]; !ok {
			m.words = append(m.words, word)
		}
		m.byWord[word] = append(m.byWord[word], s)

		stem := Stem(word)
		m.byStem[stem] = append(m.byStem[stem], s)
	}
	sort.Strings(m.words)

	for name, members := range grouped {
		synset, err := model.NewSynset(name, members...)
		if err != nil {
			return nil, err
		}
		m.synsets[name] = synset
	}

	return m, nil
}

// NewMemoryFromKeys builds a lexicon without definitions, e.g. from the vertices of a loaded taxonomy
func NewMemoryFromKeys(keys []model.SenseKey) (*Memory, error) {
	senses := make([]*model.Sense, len(keys))
	for i, k := range keys {
		senses[i] = model.NewSense(k, "")
	}
	return NewMemory(senses)
}

// Senses returns all senses of word. Inflected forms fall back to the stem index.
func (m *Memory) Senses(ctx context.Context, word string) ([]*model.Sense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := Normalize(word)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty word", ErrWordNotFound)
	}
	if senses, ok := m.byWord[normalized]; ok {
		return append([]*model.Sense(nil), senses...), nil
	}
	if senses, ok := m.byStem[Stem(normalized)]; ok {
		return append([]*model.Sense(nil), senses...), nil
	}

	suggestions := m.Suggest(normalized, defaultSuggestions)
	if len(suggestions) > 0 {
		return nil, fmt.Errorf("%w: %q (did you mean %s?)", ErrWordNotFound, word, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
}

// Definition returns the definition of a sense, empty if it has none
func (m *Memory) Definition(ctx context.Context, key model.SenseKey) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	synset, ok := m.synsets[key.Synset]
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrSenseNotFound, key)
	}
	s, err := synset.Resolve(key.Lemma)
	if err != nil {
		return "", err
	}
	return s.Definition, nil
}

// Sense returns the sense stored under key
func (m *Memory) Sense(key model.SenseKey) (*model.Sense, bool) {
	synset, ok := m.synsets[key.Synset]
	if !ok {
		return nil, false
	}
	s, err := synset.Resolve(key.Lemma)
	return s, err == nil
}

// Synset returns the synset with the given name
func (m *Memory) Synset(name string) (*model.Synset, bool) {
	synset, ok := m.synsets[name]
	return synset, ok
}

// Len returns the number of senses
func (m *Memory) Len() int {
	return m.count
}

// Words returns all known words sorted alphabetically
func (m *Memory) Words() []string {
	return append([]string(nil), m.words...)
}

// Suggest returns up to n known words closest to word by Levenshtein similarity
func (m *Memory) Suggest(word string, n int) []string {
	if n <= 0 {
		return nil
	}

	type candidate struct {
		word  string
		score float32
	}

	normalized := Normalize(word)
	var candidates []candidate
	for _, w := range m.words {
		score, err := edlib.StringsSimilarity(normalized, w, edlib.Levenshtein)
		if err != nil || score <= 0 {
			continue
		}
		candidates = append(candidates, candidate{word: w, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.word
	}
	return suggestions
}
