package metonym

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/siherrmann/metonym/core/graphfile"
	"github.com/siherrmann/metonym/core/lexicon"
	"github.com/siherrmann/metonym/core/taxonomy"
	"github.com/siherrmann/metonym/database"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
	loadSql "github.com/siherrmann/metonym/sql"
	"golang.org/x/sync/errgroup"
)

// Metonym compares words by the taxonomy distance of their senses
type Metonym struct {
	Engine  *taxonomy.Engine
	Lexicon lexicon.Lexicon
	// Database handlers, nil unless created with NewFromDatabase
	DB     *helper.Database
	Senses *database.SensesDBHandler
	Edges  *database.EdgesDBHandler
	// Concurrency bounds the sense pairs compared at once, GOMAXPROCS if not positive
	Concurrency int
	// Logging
	log *slog.Logger
}

// New combines an engine with a lexicon resolving words to the engine's senses
func New(engine *taxonomy.Engine, lex lexicon.Lexicon, logger *slog.Logger) (*Metonym, error) {
	if engine == nil {
		return nil, helper.NewError("validate engine", fmt.Errorf("engine is nil"))
	}
	if lex == nil {
		return nil, helper.NewError("validate lexicon", fmt.Errorf("lexicon is nil"))
	}
	if logger == nil {
		logger = defaultLogger()
	}

	return &Metonym{
		Engine:  engine,
		Lexicon: lex,
		log:     logger,
	}, nil
}

// NewFromFile loads a graph file and resolves words against the lemmas of its vertices.
// A nil logger logs info and above to stdout.
func NewFromFile(filePath string, config *model.EngineConfig, logger *slog.Logger) (*Metonym, error) {
	if logger == nil {
		logger = defaultLogger()
	}

	engine, err := taxonomy.Load(filePath, config, logger)
	if err != nil {
		return nil, helper.NewError("load taxonomy", err)
	}

	lex, err := lexicon.NewMemoryFromKeys(engine.Keys())
	if err != nil {
		return nil, helper.NewError("build lexicon", err)
	}

	return New(engine, lex, logger)
}

// NewFromDatabase builds the engine from the senses and edges stored in Postgres.
// The senses table doubles as the lexicon, so stored definitions are available.
func NewFromDatabase(dbConfig *helper.DatabaseConfiguration, engineConfig *model.EngineConfig, logger *slog.Logger) (*Metonym, error) {
	if logger == nil {
		logger = defaultLogger()
	}

	db, senses, edges, err := openDatabase(dbConfig, logger)
	if err != nil {
		return nil, err
	}

	t, err := database.LoadTaxonomy(context.Background(), senses, edges)
	if err != nil {
		db.Close()
		return nil, helper.NewError("load taxonomy", err)
	}

	engine, err := taxonomy.NewEngine(t, engineConfig, logger)
	if err != nil {
		db.Close()
		return nil, helper.NewError("create engine", err)
	}

	m, err := New(engine, senses, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	m.DB = db
	m.Senses = senses
	m.Edges = edges

	return m, nil
}

// Close closes the database connection if there is one
func (m *Metonym) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// CompareWords scores every sense of first against every sense of second.
// Results are ordered by the senses of first, then by the senses of second,
// as returned by the lexicon. Senses missing from the taxonomy are skipped.
func (m *Metonym) CompareWords(ctx context.Context, first, second string, measure taxonomy.Measure) ([]*model.SenseComparison, error) {
	if measure == nil {
		measure = taxonomy.LCH
	}

	firstSenses, err := m.senses(ctx, first)
	if err != nil {
		return nil, err
	}
	secondSenses, err := m.senses(ctx, second)
	if err != nil {
		return nil, err
	}

	results := make([]*model.SenseComparison, len(firstSenses)*len(secondSenses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency())
	for i, a := range firstSenses {
		for j, b := range secondSenses {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				comparison, err := m.Engine.Compare(measure, a, b)
				if err != nil {
					return helper.NewError(fmt.Sprintf("compare %s and %s", a.Key, b.Key), err)
				}
				results[i*len(secondSenses)+j] = comparison
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.log.Debug(
		"Compared words",
		slog.String("first", first),
		slog.String("second", second),
		slog.String("measure", measure.Name()),
		slog.Int("comparisons", len(results)),
	)

	return results, nil
}

// BestMatch returns the highest scoring sense pair of two words. Ties keep the earlier pair.
func (m *Metonym) BestMatch(ctx context.Context, first, second string, measure taxonomy.Measure) (*model.SenseComparison, error) {
	comparisons, err := m.CompareWords(ctx, first, second, measure)
	if err != nil {
		return nil, err
	}

	var best *model.SenseComparison
	for _, c := range comparisons {
		if best == nil || c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}

// senses resolves a word and drops senses that are not vertices of the taxonomy
func (m *Metonym) senses(ctx context.Context, word string) ([]*model.Sense, error) {
	candidates, err := m.Lexicon.Senses(ctx, word)
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("resolve %q", word), err)
	}

	senses := make([]*model.Sense, 0, len(candidates))
	for _, s := range candidates {
		if !m.Engine.Contains(s.Key) {
			m.log.Warn("Skipping sense missing from the taxonomy", slog.String("sense", s.Key.String()))
			continue
		}
		senses = append(senses, s)
	}

	if len(senses) == 0 {
		return nil, helper.NewError(fmt.Sprintf("resolve %q", word), fmt.Errorf("%w: no sense of %q", taxonomy.ErrNodeNotFound, word))
	}
	return senses, nil
}

func (m *Metonym) concurrency() int {
	if m.Concurrency > 0 {
		return m.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Import reads a graph file and stores its vertices and edges in the database
func Import(ctx context.Context, dbConfig *helper.DatabaseConfiguration, filePath string, logger *slog.Logger) error {
	if logger == nil {
		logger = defaultLogger()
	}

	t, err := graphfile.Read(filePath)
	if err != nil {
		return helper.NewError("read graph file", err)
	}

	db, senses, edges, err := openDatabase(dbConfig, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.StoreTaxonomy(ctx, senses, edges, t, nil)
}

// Export writes the taxonomy stored in the database to a GML or JSON graph file
func Export(ctx context.Context, dbConfig *helper.DatabaseConfiguration, filePath string, logger *slog.Logger) error {
	if logger == nil {
		logger = defaultLogger()
	}

	db, senses, edges, err := openDatabase(dbConfig, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := database.LoadTaxonomy(ctx, senses, edges)
	if err != nil {
		return helper.NewError("load taxonomy", err)
	}

	err = graphfile.Write(filePath, t)
	if err != nil {
		return helper.NewError("write graph file", err)
	}

	logger.Info("Exported taxonomy", slog.String("path", filePath), slog.Int("senses", len(t.Nodes)), slog.Int("edges", len(t.Edges)))

	return nil
}

func openDatabase(dbConfig *helper.DatabaseConfiguration, logger *slog.Logger) (*helper.Database, *database.SensesDBHandler, *database.EdgesDBHandler, error) {
	db := helper.NewDatabase("metonym", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("initialize database extensions", err)
	}

	// Senses first, edges reference them
	senses, err := database.NewSensesDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("create senses handler", err)
	}

	edges, err := database.NewEdgesDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("create edges handler", err)
	}

	return db, senses, edges, nil
}

func defaultLogger() *slog.Logger {
	return helper.NewLogger(os.Stdout, slog.LevelInfo)
}
