package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/siherrmann/metonym"
	"github.com/siherrmann/metonym/core/lexicon"
	"github.com/siherrmann/metonym/core/taxonomy"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

// A small slice of WordNet around the two senses of "bank"
var hypernyms = [][2]string{
	{"entity.n.01//entity", "physical_entity.n.01//physical_entity"},
	{"entity.n.01//entity", "abstraction.n.06//abstraction"},
	{"physical_entity.n.01//physical_entity", "land.n.04//land"},
	{"land.n.04//land", "bank.n.01//bank"},
	{"land.n.04//land", "shore.n.01//shore"},
	{"shore.n.01//shore", "riverbank.n.01//riverbank"},
	{"abstraction.n.06//abstraction", "institution.n.01//institution"},
	{"institution.n.01//institution", "bank.n.02//bank"},
	{"institution.n.01//institution", "lender.n.01//lender"},
	{"institution.n.01//institution", "school.n.01//school"},
}

var definitions = map[string]string{
	"bank.n.01//bank":           "sloping land beside a body of water",
	"bank.n.02//bank":           "a financial institution that accepts deposits",
	"riverbank.n.01//riverbank": "the bank of a river",
	"lender.n.01//lender":       "someone who lends money",
	"school.n.01//school":       "an educational institution",
}

func main() {
	logger := helper.NewLogger(os.Stderr, slog.LevelWarn)

	t := &model.Taxonomy{Directed: true}
	for _, edge := range hypernyms {
		t.AddEdge(edge[0], edge[1], model.DefaultEdgeWeight)
	}

	config := model.DefaultEngineConfig()
	engine, err := taxonomy.NewEngine(t, &config, logger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	senses := make([]*model.Sense, 0, len(engine.Keys()))
	for _, key := range engine.Keys() {
		senses = append(senses, model.NewSense(key, definitions[key.String()]))
	}
	lex, err := lexicon.NewMemory(senses)
	if err != nil {
		log.Fatalf("Failed to create lexicon: %v", err)
	}

	m, err := metonym.New(engine, lex, logger)
	if err != nil {
		log.Fatalf("Failed to create metonym: %v", err)
	}

	fmt.Printf("Taxonomy with %d senses and depth %g\n", engine.NodeCount(), engine.Depth())

	ctx := context.Background()
	for _, other := range []string{"riverbank", "lender", "school"} {
		comparisons, err := m.CompareWords(ctx, "bank", other, taxonomy.LCH)
		if err != nil {
			log.Fatalf("Failed to compare words: %v", err)
		}

		fmt.Printf("\n--- bank / %s ---\n", other)
		for _, c := range comparisons {
			fmt.Printf("%-20s %-28s %.4f (%s)\n", c.First.Key, c.Second.Key, c.Score, c.First.Definition)
		}

		best, err := m.BestMatch(ctx, "bank", other, taxonomy.Path)
		if err != nil {
			log.Fatalf("Failed to find best match: %v", err)
		}
		fmt.Printf("Closest sense of bank: %s\n", best.First.Key)
	}

	fmt.Println("\nBasic example completed successfully!")
}
