// Copyright 2025 Fossouo Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	chatbot "github.com/fossouo/creche-pilou-chatbot"
	"github.com/fossouo/creche-pilou-chatbot/ai"
	"github.com/fossouo/creche-pilou-chatbot/chunker"
	"github.com/fossouo/creche-pilou-chatbot/extract/pdf"
	"github.com/fossouo/creche-pilou-chatbot/ingestion"
	"github.com/fossouo/creche-pilou-chatbot/reembed"
)

func main() {
	app := &cli.App{
		Name:  "pilou",
		Usage: "Knowledge base build and semantic retrieval for daycare documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Process PDF sources and merge them into the served knowledge base",
				Action: buildCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:     "sources",
						Aliases:  []string{"s"},
						Usage:    "Directory containing PDF source documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Words per chunk",
						Value: chunker.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Words shared between consecutive chunks",
						Value: chunker.DefaultOverlap,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent source workers (0 = auto)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Query the served knowledge base",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   3,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Mark results below this similarity as weak matches",
						Value: 0.6,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored units with a new embedding model",
				Action: reembedCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "sources",
				Usage:  "Show which sources were last processed and when",
				Action: sourcesCommand,
				Flags:  storageFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "kb",
			Usage: "Path to the served knowledge base JSON file",
			Value: "knowledge_base.json",
		},
	}
}

func openChatbot(c *cli.Context) (*chatbot.Chatbot, error) {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}

	aiConfig := ai.NewConfig(opts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	bot, err := chatbot.New(c.String("db"), c.String("kb"), chatbot.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return bot, nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	if err := pdf.CheckAvailable(); err != nil {
		fmt.Fprintln(os.Stderr, pdf.InstallInstructions())
		return err
	}

	bot, err := openChatbot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	wordChunker, err := chunker.New(
		chunker.WithChunkSize(c.Int("chunk-size")),
		chunker.WithOverlap(c.Int("overlap")),
	)
	if err != nil {
		return fmt.Errorf("invalid chunking configuration: %w", err)
	}

	opts := []ingestion.Option{ingestion.WithChunker(wordChunker)}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(workers))
	}

	builder, err := bot.NewBuilder(pdf.New(), opts...)
	if err != nil {
		return err
	}
	defer builder.Release()

	stats, err := builder.BuildDirectory(ctx, c.String("sources"))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Build complete: %d embedded, %d reused, %d skipped\n",
		stats.Embedded, stats.Reused, stats.Skipped)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	bot, err := openChatbot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	searcher, err := bot.NewSearcher(ctx)
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, query, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	threshold := float32(c.Float64("threshold"))
	for i, result := range results {
		marker := ""
		if result.Score < threshold {
			marker = " (weak match)"
		}
		fmt.Printf("%d. [%.3f]%s %s#%d\n%s\n\n",
			i+1, result.Score, marker, result.Chunk.Source, result.Chunk.ChunkID, result.Chunk.Text)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	bot, err := openChatbot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := bot.NewReembedder(config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func sourcesCommand(c *cli.Context) error {
	ctx := context.Background()

	bot, err := openChatbot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	record, err := bot.SourceLog().LastProcessed(ctx)
	if err != nil {
		return fmt.Errorf("no build has run yet: %w", err)
	}

	fmt.Printf("Last updated: %s\n", record.LastUpdated.Format(time.RFC3339))
	for _, source := range record.Sources {
		fmt.Println(source)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
