package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/siherrmann/metonym/core/lexicon"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
	loadSql "github.com/siherrmann/metonym/sql"
)

// SensesDBHandlerFunctions defines the interface for Senses database operations.
type SensesDBHandlerFunctions interface {
	InsertSense(sense *model.Sense) error
	SelectSense(key model.SenseKey) (*model.Sense, error)
	SelectSensesByWord(word string) ([]*model.Sense, error)
	SelectSensesByStem(stem string) ([]*model.Sense, error)
	SelectAllSenses() ([]*model.Sense, error)
	SearchWords(word string, limit int) ([]string, error)
	UpdateSenseDefinition(key model.SenseKey, definition string) (*model.Sense, error)
	DeleteSense(key model.SenseKey) error
}

// SensesDBHandler handles sense-related database operations.
// It is also a lexicon.Lexicon backed by the senses table.
type SensesDBHandler struct {
	db *helper.Database
}

var _ lexicon.Lexicon = (*SensesDBHandler)(nil)

// NewSensesDBHandler creates a new senses database handler.
// It loads the sense-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSensesDBHandler(db *helper.Database, force bool) (*SensesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	sensesDbHandler := &SensesDBHandler{
		db: db,
	}

	err := loadSql.LoadSensesSql(sensesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load senses sql", err)
	}

	err = sensesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SensesDBHandler")

	return sensesDbHandler, nil
}

// CreateTable creates the 'senses' table and its indexes if they do not exist.
// With WithTableDrop set on the database the table is dropped first, which also
// drops the foreign keys of the edges table.
func (h *SensesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_senses($1);`, h.db.WithTableDrop)
	if err != nil {
		log.Panicf("error initializing senses table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table senses")

	return nil
}

// InsertSense inserts a sense, or replaces definition and metadata of an existing one with the same key.
// Word and POS are derived from the key when empty.
func (h *SensesDBHandler) InsertSense(sense *model.Sense) error {
	if err := sense.Key.Validate(); err != nil {
		return helper.NewError("validate key", err)
	}
	if sense.Word == "" {
		sense.Word = strings.ReplaceAll(sense.Key.Lemma, "_", " ")
	}
	if sense.POS == "" {
		sense.POS = sense.Key.POS()
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_sense($1, $2, $3, $4, $5, $6, $7)`,
		sense.Key.Synset,
		sense.Key.Lemma,
		sense.Word,
		lexicon.Stem(sense.Key.Lemma),
		sense.POS,
		sense.Definition,
		sense.Metadata,
	)

	err := scanSenseInto(row, sense)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSense retrieves a sense by its key
func (h *SensesDBHandler) SelectSense(key model.SenseKey) (*model.Sense, error) {
	return h.selectSense(context.Background(), key)
}

func (h *SensesDBHandler) selectSense(ctx context.Context, key model.SenseKey) (*model.Sense, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_sense($1)`,
		key.String(),
	)

	sense := &model.Sense{}
	err := scanSenseInto(row, sense)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("scan", fmt.Errorf("%w: %s", model.ErrSenseNotFound, key))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return sense, nil
}

// SelectSensesByWord retrieves all senses whose lemma equals word, ignoring case
func (h *SensesDBHandler) SelectSensesByWord(word string) ([]*model.Sense, error) {
	return h.selectSenses(context.Background(), `SELECT * FROM select_senses_by_word($1)`, lexicon.Normalize(word))
}

// SelectSensesByStem retrieves all senses whose lemma has the given porter2 stem
func (h *SensesDBHandler) SelectSensesByStem(stem string) ([]*model.Sense, error) {
	return h.selectSenses(context.Background(), `SELECT * FROM select_senses_by_stem($1)`, stem)
}

// SelectAllSenses retrieves all senses in insertion order
func (h *SensesDBHandler) SelectAllSenses() ([]*model.Sense, error) {
	return h.selectSenses(context.Background(), `SELECT * FROM select_all_senses()`)
}

func (h *SensesDBHandler) selectSenses(ctx context.Context, query string, args ...interface{}) ([]*model.Sense, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var senses []*model.Sense
	for rows.Next() {
		sense := &model.Sense{}
		err := scanSenseInto(rows, sense)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		senses = append(senses, sense)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return senses, nil
}

// SearchWords returns up to limit known lemmas ordered by trigram similarity to word
func (h *SensesDBHandler) SearchWords(word string, limit int) ([]string, error) {
	return h.searchWords(context.Background(), word, limit)
}

func (h *SensesDBHandler) searchWords(ctx context.Context, word string, limit int) ([]string, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT output_lemma FROM search_sense_words($1, $2)`,
		lexicon.Normalize(word),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, helper.NewError("scan", err)
		}
		words = append(words, w)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return words, nil
}

// UpdateSenseDefinition replaces the definition of a sense and returns the updated sense
func (h *SensesDBHandler) UpdateSenseDefinition(key model.SenseKey, definition string) (*model.Sense, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_sense_definition($1, $2)`,
		key.String(),
		definition,
	)

	sense := &model.Sense{}
	err := scanSenseInto(row, sense)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("scan", fmt.Errorf("%w: %s", model.ErrSenseNotFound, key))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return sense, nil
}

// DeleteSense deletes a sense and, through the foreign keys, all of its edges
func (h *SensesDBHandler) DeleteSense(key model.SenseKey) error {
	var deleted int
	err := h.db.Instance.QueryRow(
		`SELECT delete_sense($1)`,
		key.String(),
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("exec", err)
	}
	if deleted == 0 {
		return helper.NewError("delete", fmt.Errorf("%w: %s", model.ErrSenseNotFound, key))
	}
	return nil
}

// Senses resolves a word to its senses. Inflected forms fall back to the stem column,
// unknown words fail with lexicon.ErrWordNotFound and trigram suggestions.
func (h *SensesDBHandler) Senses(ctx context.Context, word string) ([]*model.Sense, error) {
	normalized := lexicon.Normalize(word)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty word", lexicon.ErrWordNotFound)
	}

	senses, err := h.selectSenses(ctx, `SELECT * FROM select_senses_by_word($1)`, normalized)
	if err != nil {
		return nil, err
	}
	if len(senses) > 0 {
		return senses, nil
	}

	senses, err = h.selectSenses(ctx, `SELECT * FROM select_senses_by_stem($1)`, lexicon.Stem(normalized))
	if err != nil {
		return nil, err
	}
	if len(senses) > 0 {
		return senses, nil
	}

	suggestions, err := h.searchWords(ctx, normalized, 3)
	if err != nil {
		return nil, err
	}
	if len(suggestions) > 0 {
		return nil, fmt.Errorf("%w: %q (did you mean %s?)", lexicon.ErrWordNotFound, word, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("%w: %q", lexicon.ErrWordNotFound, word)
}

// Definition returns the stored definition of a sense
func (h *SensesDBHandler) Definition(ctx context.Context, key model.SenseKey) (string, error) {
	sense, err := h.selectSense(ctx, key)
	if err != nil {
		return "", err
	}
	return sense.Definition, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSenseInto(row rowScanner, sense *model.Sense) error {
	var synset, lemma string
	err := row.Scan(
		&sense.ID,
		&sense.RID,
		&synset,
		&lemma,
		&sense.Word,
		&sense.POS,
		&sense.Definition,
		&sense.Metadata,
		&sense.CreatedAt,
	)
	if err != nil {
		return err
	}

	sense.Key = model.SenseKey{Synset: synset, Lemma: lemma}
	return nil
}
