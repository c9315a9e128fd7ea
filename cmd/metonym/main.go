package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/siherrmann/metonym"
	"github.com/siherrmann/metonym/core/taxonomy"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "metonym",
		Usage:     "Compare word senses by their distance in a hypernymy taxonomy",
		Writer:    out,
		ErrWriter: errOut,
		// Exit codes are handled by main
		ExitErrHandler: func(*cli.Context, error) {},
		Before: func(c *cli.Context) error {
			// Variables already set win over .env
			_ = godotenv.Load()
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "graph",
				Aliases: []string{"g"},
				Usage:   "Graph file (.gml, .dot, .json); the database is used if empty",
				EnvVars: []string{"METONYM_GRAPH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"METONYM_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Sense key of the taxonomy root",
				Value: model.DefaultRootKey,
			},
			&cli.Float64Flag{
				Name:  "max-length",
				Usage: "Distance assumed for unconnected senses by the path measure",
				Value: model.DefaultMaxLength,
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "Number of cached pairwise distances (0 disables the cache)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "compare",
				Aliases:   []string{"c"},
				Usage:     "Score every sense of one word against every sense of another",
				ArgsUsage: "WORD1 WORD2",
				Flags: []cli.Flag{
					measureFlag(),
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: compareCommand,
			},
			{
				Name:      "similarity",
				Aliases:   []string{"s"},
				Usage:     "Score two senses",
				ArgsUsage: "KEY1 KEY2",
				Flags:     []cli.Flag{measureFlag()},
				Action:    similarityCommand,
			},
			{
				Name:      "distance",
				Aliases:   []string{"d"},
				Usage:     "Print the shortest-path distance between two senses",
				ArgsUsage: "KEY1 KEY2",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "path",
						Usage: "Also print the senses along the path",
					},
				},
				Action: distanceCommand,
			},
			{
				Name:      "senses",
				Usage:     "List the senses of a word, or all synsets of the taxonomy",
				ArgsUsage: "[WORD]",
				Action:    sensesCommand,
			},
			{
				Name:      "related",
				Usage:     "List the hypernyms and hyponyms of a sense",
				ArgsUsage: "KEY",
				Action:    relatedCommand,
			},
			{
				Name:   "depth",
				Usage:  "Print the taxonomy depth",
				Action: depthCommand,
			},
			{
				Name:      "import",
				Usage:     "Store a graph file in the database",
				ArgsUsage: "FILE",
				Action:    importCommand,
			},
			{
				Name:  "export",
				Usage: "Write the taxonomy stored in the database to a graph file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output file (.gml or .json)",
						Required: true,
					},
				},
				Action: exportCommand,
			},
		},
	}
}

func measureFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "measure",
		Aliases: []string{"m"},
		Usage:   "Similarity measure (lch or path)",
		Value:   model.MeasureLCH,
	}
}

func logger(c *cli.Context) *slog.Logger {
	return helper.NewLogger(c.App.ErrWriter, helper.ParseLevel(c.String("log-level")))
}

func engineConfig(c *cli.Context) *model.EngineConfig {
	return &model.EngineConfig{
		RootKey:   c.String("root"),
		MaxLength: c.Float64("max-length"),
		CacheSize: c.Int("cache-size"),
	}
}

// open loads the taxonomy from --graph or, without it, from the database
func open(c *cli.Context) (*metonym.Metonym, error) {
	if graph := c.String("graph"); graph != "" {
		return metonym.NewFromFile(graph, engineConfig(c), logger(c))
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("no --graph given and %v", err), 2)
	}
	return metonym.NewFromDatabase(dbConfig, engineConfig(c), logger(c))
}

func twoArgs(c *cli.Context) (string, string, error) {
	if c.NArg() != 2 {
		return "", "", cli.Exit(fmt.Sprintf("%s expects %s", c.Command.Name, c.Command.ArgsUsage), 2)
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}

func twoKeys(c *cli.Context) (model.SenseKey, model.SenseKey, error) {
	first, second, err := twoArgs(c)
	if err != nil {
		return model.SenseKey{}, model.SenseKey{}, err
	}

	a, err := model.ParseSenseKey(first)
	if err != nil {
		return model.SenseKey{}, model.SenseKey{}, cli.Exit(err.Error(), 2)
	}
	b, err := model.ParseSenseKey(second)
	if err != nil {
		return model.SenseKey{}, model.SenseKey{}, cli.Exit(err.Error(), 2)
	}
	return a, b, nil
}

func compareCommand(c *cli.Context) error {
	first, second, err := twoArgs(c)
	if err != nil {
		return err
	}
	measure, err := taxonomy.MeasureByName(c.String("measure"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	comparisons, err := m.CompareWords(c.Context, first, second, measure)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(comparisons)
	}

	printDefinitions(c.App.Writer, first, comparisons, func(sc *model.SenseComparison) *model.Sense { return sc.First })
	printDefinitions(c.App.Writer, second, comparisons, func(sc *model.SenseComparison) *model.Sense { return sc.Second })

	heading := color.New(color.Bold)
	heading.Fprintf(c.App.Writer, "%s similarity\n", measure.Name())
	for _, sc := range comparisons {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%.4f\n", sc.First.Key, sc.Second.Key, sc.Score)
	}

	return nil
}

// printDefinitions lists the distinct senses of one side of the comparisons
func printDefinitions(w io.Writer, word string, comparisons []*model.SenseComparison, side func(*model.SenseComparison) *model.Sense) {
	color.New(color.Bold).Fprintf(w, "%s\n", word)

	seen := make(map[model.SenseKey]bool)
	for _, sc := range comparisons {
		s := side(sc)
		if seen[s.Key] {
			continue
		}
		seen[s.Key] = true

		if s.Definition == "" {
			fmt.Fprintf(w, "  %s\n", s.Key)
		} else {
			fmt.Fprintf(w, "  %s: %s\n", s.Key, s.Definition)
		}
	}
	fmt.Fprintln(w)
}

func similarityCommand(c *cli.Context) error {
	a, b, err := twoKeys(c)
	if err != nil {
		return err
	}
	measure, err := taxonomy.MeasureByName(c.String("measure"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	score, err := m.Engine.Similarity(measure, a, b)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%.4f\n", score)
	return nil
}

func distanceCommand(c *cli.Context) error {
	a, b, err := twoKeys(c)
	if err != nil {
		return err
	}

	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if c.Bool("path") {
		path, weight, connected, err := m.Engine.ShortestPath(a, b)
		if err != nil {
			return err
		}
		if !connected {
			fmt.Fprintln(c.App.Writer, "no path")
			return nil
		}
		fmt.Fprintf(c.App.Writer, "%g\n", weight)
		for _, name := range path {
			fmt.Fprintf(c.App.Writer, "  %s\n", name)
		}
		return nil
	}

	distance, connected, err := m.Engine.Distance(a, b)
	if err != nil {
		return err
	}
	if !connected {
		fmt.Fprintln(c.App.Writer, "no path")
		return nil
	}

	fmt.Fprintf(c.App.Writer, "%g\n", distance)
	return nil
}

func sensesCommand(c *cli.Context) error {
	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if c.NArg() > 0 {
		senses, err := m.Lexicon.Senses(c.Context, c.Args().First())
		if err != nil {
			return err
		}
		for _, s := range senses {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", s.Key, s.Definition)
		}
		return nil
	}

	keys := m.Engine.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	synsets, _, err := model.SynsetsFromKeys(names)
	if err != nil {
		return err
	}

	for _, synset := range synsets {
		lemmas := make([]string, len(synset.Senses))
		for i, s := range synset.Senses {
			lemmas[i] = s.Key.Lemma
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", synset.Name, strings.Join(lemmas, ", "))
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("related expects KEY", 2)
	}
	key, err := model.ParseSenseKey(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	hypernyms, err := m.Engine.Hypernyms(key)
	if err != nil {
		return err
	}
	hyponyms, err := m.Engine.Hyponyms(key)
	if err != nil {
		return err
	}

	for _, name := range hypernyms {
		fmt.Fprintf(c.App.Writer, "hypernym\t%s\n", name)
	}
	for _, name := range hyponyms {
		fmt.Fprintf(c.App.Writer, "hyponym\t%s\n", name)
	}
	return nil
}

func depthCommand(c *cli.Context) error {
	m, err := open(c)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Fprintf(c.App.Writer, "%g\n", m.Engine.Depth())
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("import expects FILE", 2)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	return metonym.Import(c.Context, dbConfig, c.Args().First(), logger(c))
}

func exportCommand(c *cli.Context) error {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	return metonym.Export(c.Context, dbConfig, c.String("out"), logger(c))
}
