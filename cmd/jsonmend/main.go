// Copyright 2025 Poiesic Systems
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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/jsonmend"
	"github.com/poiesic/jsonmend/ai"
	"github.com/poiesic/jsonmend/batch"
	"github.com/poiesic/jsonmend/core"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "jsonmend",
		Usage: "Repair broken JSON from language model completions",
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
				Name:   "repair",
				Usage:  "Repair a single document from a file or stdin",
				Action: repairCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Input file (reads stdin if omitted)",
					},
					&cli.StringFlag{
						Name:  "hint",
						Usage: "Expected shape, e.g. \"title:string,questions:array\"",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Path to BadgerDB journal directory (journaling off if omitted)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Indent the output JSON",
					},
					&cli.BoolFlag{
						Name:  "attempts",
						Usage: "Print the stage-by-stage audit trail to stderr",
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Repair every file in a directory concurrently",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory of documents to repair",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "glob",
						Usage: "File pattern to repair within the directory",
						Value: "*.json",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Path to BadgerDB journal directory (journaling off if omitted)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
				},
			},
			{
				Name:   "generate",
				Usage:  "Request JSON from a model and repair the completion",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Completion service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Completion model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "system",
						Usage:    "System prompt",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Usage:    "User prompt",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "hint",
						Usage: "Expected shape, e.g. \"title:string,questions:array\"",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Path to BadgerDB journal directory (journaling off if omitted)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Indent the output JSON",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func repairCommand(c *cli.Context) error {
	ctx := context.Background()

	text, err := readInput(c.String("input"))
	if err != nil {
		return err
	}

	hint, err := parseShapeHint(c.String("hint"))
	if err != nil {
		return err
	}

	mender, err := newMender(c.String("journal"))
	if err != nil {
		return err
	}
	defer mender.Close()

	result, attempts := mender.MendWithAttempts(ctx, text, hint)

	if c.Bool("attempts") {
		for _, attempt := range attempts {
			fmt.Fprintf(os.Stderr, "%-22s parsed=%-5v %s\n",
				attempt.Stage, attempt.Parsed, excerpt(attempt.Candidate, 60))
		}
	}
	if result.Fallback {
		fmt.Fprintf(os.Stderr, "fallback: %s\n", result.Reason)
	}

	return writeValue(os.Stdout, result.Value, c.Bool("pretty"))
}

func batchCommand(c *cli.Context) error {
	ctx := context.Background()

	pattern := filepath.Join(c.String("dir"), c.String("glob"))
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %s", pattern)
	}

	if c.Int("workers") <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	mender, err := newMender(c.String("journal"))
	if err != nil {
		return err
	}
	defer mender.Close()

	inputs := make([]core.RepairInput, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, core.RepairInput{Text: string(data)})
	}

	tracker := batch.NewProgressTracker(os.Stderr, len(inputs), c.Int("report-interval"))
	pipeline, err := mender.NewBatchPipeline(
		batch.WithPoolSize(c.Int("workers")),
		batch.WithProgress(tracker),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Repairing %d documents\n", len(inputs))
	results := pipeline.Process(ctx, inputs)

	fallbacks := 0
	for i, result := range results {
		out := paths[i] + ".repaired.json"
		data, err := json.Marshal(result.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal result for %s: %w", paths[i], err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if result.Fallback {
			fallbacks++
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d repaired, %d fell back\n", len(results)-fallbacks, fallbacks)
	return nil
}

func generateCommand(c *cli.Context) error {
	ctx := context.Background()

	hint, err := parseShapeHint(c.String("hint"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithModel(c.String("model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []jsonmend.MenderOption{jsonmend.WithAIConfig(aiConfig)}
	if c.String("journal") != "" {
		opts = append(opts, jsonmend.WithJournalPath(c.String("journal")))
	}

	mender, err := jsonmend.NewMender(opts...)
	if err != nil {
		return err
	}
	defer mender.Close()

	result, err := mender.Generate(ctx, c.String("system"), c.String("user"), hint)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if result.Fallback {
		fmt.Fprintf(os.Stderr, "fallback: %s\n", result.Reason)
	}

	return writeValue(os.Stdout, result.Value, c.Bool("pretty"))
}

// newMender builds a mender with an optional on-disk journal.
func newMender(journalPath string) (*jsonmend.Mender, error) {
	var opts []jsonmend.MenderOption
	if journalPath != "" {
		opts = append(opts, jsonmend.WithJournalPath(journalPath))
	}
	return jsonmend.NewMender(opts...)
}

// readInput reads the document to repair from a file, or stdin when no
// path is given.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// parseShapeHint parses "name:kind" pairs separated by commas.
// Kinds: string, number, array, object, bool.
func parseShapeHint(spec string) (core.ShapeHint, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	hint := core.ShapeHint{}
	for _, pair := range strings.Split(spec, ",") {
		name, kind, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid hint entry %q: want name:kind", pair)
		}
		switch strings.TrimSpace(kind) {
		case "string":
			hint[name] = core.FieldString
		case "number":
			hint[name] = core.FieldNumber
		case "array":
			hint[name] = core.FieldArray
		case "object":
			hint[name] = core.FieldObject
		case "bool":
			hint[name] = core.FieldBool
		default:
			return nil, fmt.Errorf("invalid hint kind %q: must be one of string, number, array, object, bool", kind)
		}
	}
	return hint, nil
}

// writeValue prints a JSON value to w followed by a newline.
func writeValue(w io.Writer, value any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(value)
}

// excerpt shortens s for log lines.
func excerpt(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
