package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/siherrmann/metonym"
	"github.com/siherrmann/metonym/core/taxonomy"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)
	ctx := context.Background()

	// Import the graph file shipped with the tests
	graphFile := "core/graphfile/testdata/taxonomy.gml"
	if len(os.Args) > 1 {
		graphFile = os.Args[1]
	}
	if err := metonym.Import(ctx, dbConfig, graphFile, logger); err != nil {
		log.Fatalf("Failed to import %s: %v", graphFile, err)
	}

	config := model.DefaultEngineConfig()
	config.CacheSize = 1024
	m, err := metonym.NewFromDatabase(dbConfig, &config, logger)
	if err != nil {
		log.Fatalf("Failed to create metonym: %v", err)
	}
	defer m.Close()

	// Definitions live in the senses table
	for key, definition := range map[string]string{
		"car.n.01//car":       "a motor vehicle with four wheels",
		"bus.n.01//bus":       "a vehicle carrying many passengers",
		"banana.n.02//banana": "elongated crescent-shaped yellow fruit",
	} {
		if _, err := m.Senses.UpdateSenseDefinition(model.MustParseSenseKey(key), definition); err != nil {
			log.Fatalf("Failed to update definition: %v", err)
		}
	}

	// Words are matched by lemma, then by stem
	for _, pair := range [][2]string{{"cars", "bus"}, {"car", "bananas"}, {"auto", "orphan"}} {
		comparisons, err := m.CompareWords(ctx, pair[0], pair[1], taxonomy.LCH)
		if err != nil {
			log.Fatalf("Failed to compare %s and %s: %v", pair[0], pair[1], err)
		}

		fmt.Printf("\n--- %s / %s ---\n", pair[0], pair[1])
		for _, c := range comparisons {
			if !c.Connected {
				fmt.Printf("%s and %s are not connected, score %.4f\n", c.First.Key, c.Second.Key, c.Score)
				continue
			}
			fmt.Printf("%s (%s)\n%s (%s)\ndistance %g, score %.4f\n",
				c.First.Key, c.First.Definition, c.Second.Key, c.Second.Definition, c.Distance, c.Score)
		}
	}

	// Misspelled words get suggestions from the trigram index
	if _, err := m.CompareWords(ctx, "bananna", "car", nil); err != nil {
		fmt.Printf("\nExpected error: %v\n", err)
	}

	path, weight, _, err := m.Engine.ShortestPath(model.MustParseSenseKey("car.n.01//car"), model.MustParseSenseKey("banana.n.02//banana"))
	if err != nil {
		log.Fatalf("Failed to find path: %v", err)
	}
	fmt.Printf("\nShortest path (weight %g): %v\n", weight, path)

	hyponyms, err := m.Engine.BFS(ctx, model.MustParseSenseKey("vehicle.n.01//vehicle"), 2, false)
	if err != nil {
		log.Fatalf("Failed to traverse: %v", err)
	}
	for _, r := range hyponyms {
		fmt.Printf("%d hop(s): %s\n", r.Distance, r.Name)
	}

	stats := m.Engine.CacheStats()
	fmt.Printf("\nDistance cache: %d hits, %d misses\n", stats.Hits, stats.Misses)

	if err := metonym.Export(ctx, dbConfig, "taxonomy_export.json", logger); err != nil {
		log.Fatalf("Failed to export: %v", err)
	}

	fmt.Println("\nAdvanced example completed successfully!")
}
