package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SenseSeparator joins the synset name and the lemma in an encoded SenseKey
const SenseSeparator = "//"

var (
	ErrMalformedKey   = errors.New("malformed sense key")
	ErrSenseNotFound  = errors.New("sense not found")
	ErrAmbiguousSense = errors.New("ambiguous sense")
)

// SenseKey identifies one sense (lemma) within one taxonomy node (synset).
// Its canonical encoding is "synset//lemma", e.g. "dog.n.01//dog".
type SenseKey struct {
	Synset string `json:"synset"`
	Lemma  string `json:"lemma"`
}

// NewSenseKey validates both components and returns the key.
// It fails with ErrMalformedKey if the pair could not be decoded back unambiguously.
func NewSenseKey(synset, lemma string) (SenseKey, error) {
	k := SenseKey{Synset: synset, Lemma: lemma}
	if err := k.Validate(); err != nil {
		return SenseKey{}, err
	}
	return k, nil
}

// ParseSenseKey decodes "synset//lemma" into a SenseKey
func ParseSenseKey(s string) (SenseKey, error) {
	if strings.Count(s, SenseSeparator) != 1 {
		return SenseKey{}, fmt.Errorf("%w: %q must contain %q exactly once", ErrMalformedKey, s, SenseSeparator)
	}

	synset, lemma, _ := strings.Cut(s, SenseSeparator)
	return NewSenseKey(synset, lemma)
}

// MustParseSenseKey is like ParseSenseKey but panics on malformed input
func MustParseSenseKey(s string) SenseKey {
	k, err := ParseSenseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Validate checks that String and ParseSenseKey are inverse for this key
func (k SenseKey) Validate() error {
	switch {
	case k.Synset == "" || k.Lemma == "":
		return fmt.Errorf("%w: synset and lemma must not be empty (%q, %q)", ErrMalformedKey, k.Synset, k.Lemma)
	case strings.Contains(k.Synset, SenseSeparator) || strings.Contains(k.Lemma, SenseSeparator):
		return fmt.Errorf("%w: %q and %q must not contain %q", ErrMalformedKey, k.Synset, k.Lemma, SenseSeparator)
	case strings.HasSuffix(k.Synset, "/") || strings.HasPrefix(k.Lemma, "/"):
		return fmt.Errorf("%w: %q and %q would join ambiguously", ErrMalformedKey, k.Synset, k.Lemma)
	}
	return nil
}

// String returns the canonical encoding
func (k SenseKey) String() string {
	return k.Synset + SenseSeparator + k.Lemma
}

// IsZero reports whether the key is unset
func (k SenseKey) IsZero() bool {
	return k.Synset == "" && k.Lemma == ""
}

// POS returns the part of speech of WordNet style synset names ("dog.n.01" -> "n").
// It returns an empty string for names without that structure.
func (k SenseKey) POS() string {
	parts := strings.Split(k.Synset, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}

// Sense is one meaning of a word
type Sense struct {
	ID         int       `json:"id,omitempty"`
	RID        uuid.UUID `json:"rid,omitempty"`
	Key        SenseKey  `json:"key"`
	Word       string    `json:"word"`
	POS        string    `json:"pos,omitempty"`
	Definition string    `json:"definition,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// NewSense creates a sense whose word and part of speech are taken from the key.
// Underscores in the lemma become spaces in the word ("hot_dog" -> "hot dog").
func NewSense(key SenseKey, definition string) *Sense {
	return &Sense{
		Key:        key,
		Word:       strings.ReplaceAll(key.Lemma, "_", " "),
		POS:        key.POS(),
		Definition: definition,
	}
}
