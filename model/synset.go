package model

import (
	"fmt"
	"sort"
)

// Synset is a taxonomy node: one concept grouping synonymous senses
type Synset struct {
	Name   string   `json:"name"`
	Senses []*Sense `json:"senses"`
}

// NewSynset creates a synset and enforces that every lemma occurs only once
func NewSynset(name string, senses ...*Sense) (*Synset, error) {
	seen := make(map[string]bool, len(senses))
	for _, s := range senses {
		if s.Key.Synset != name {
			return nil, fmt.Errorf("%w: sense %s does not belong to synset %s", ErrMalformedKey, s.Key, name)
		}
		if seen[s.Key.Lemma] {
			return nil, fmt.Errorf("%w: synset %s has lemma %q more than once", ErrAmbiguousSense, name, s.Key.Lemma)
		}
		seen[s.Key.Lemma] = true
	}

	return &Synset{
		Name:   name,
		Senses: senses,
	}, nil
}

// Resolve returns the sense with the given lemma.
// More than one match is a data integrity fault and reported as ErrAmbiguousSense.
func (s *Synset) Resolve(lemma string) (*Sense, error) {
	var found *Sense
	for _, sense := range s.Senses {
		if sense.Key.Lemma != lemma {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s%s%s", ErrAmbiguousSense, s.Name, SenseSeparator, lemma)
		}
		found = sense
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %s%s%s", ErrSenseNotFound, s.Name, SenseSeparator, lemma)
	}

	return found, nil
}

// SynsetsFromKeys groups encoded sense keys by synset.
// Malformed keys are skipped and returned separately.
func SynsetsFromKeys(keys []string) ([]*Synset, []string, error) {
	bySynset := make(map[string][]*Sense)
	var malformed []string

	for _, raw := range keys {
		k, err := ParseSenseKey(raw)
		if err != nil {
			malformed = append(malformed, raw)
			continue
		}
		bySynset[k.Synset] = append(bySynset[k.Synset], NewSense(k, ""))
	}

	names := make([]string, 0, len(bySynset))
	for name := range bySynset {
		names = append(names, name)
	}
	sort.Strings(names)

	synsets := make([]*Synset, 0, len(names))
	for _, name := range names {
		synset, err := NewSynset(name, bySynset[name]...)
		if err != nil {
			return nil, malformed, err
		}
		synsets = append(synsets, synset)
	}

	return synsets, malformed, nil
}
