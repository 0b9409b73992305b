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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	actionbias "github.com/exhibit-org/actionbias-sub003"
	"github.com/exhibit-org/actionbias-sub003/ai"
)

// env carries the process streams and, in tests, a provider that replaces
// the configured AI services.
type env struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	provider ai.AIProvider
}

func main() {
	app := newApp(&env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:      "actionbias",
		Usage:     "Place and find work items in an action hierarchy",
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "actionbias.db",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Write results as JSON",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "OpenAI-compatible service host URL for embeddings and classification",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (defaults to --host)",
			},
			&cli.StringFlag{
				Name:  "classifier-host",
				Usage: "Classifier service host URL (defaults to --host)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: ai.DefaultConfig().EmbeddingModel,
			},
			&cli.StringFlag{
				Name:  "classifier-model",
				Usage: "Classifier model name",
				Value: ai.DefaultConfig().ClassifierModel,
			},
			&cli.StringFlag{
				Name:  "api-token",
				Usage: "Bearer token for the AI services",
			},
			&cli.BoolFlag{
				Name:  "no-embeddings",
				Usage: "Run without an embedding service; vector matching is skipped",
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum attempts for failed embedding requests",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: 1 * time.Second,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			importCommand(e),
			embedCommand(e),
			suggestCommand(e),
			searchCommand(e),
			analyzeCommand(e),
			compareCommand(e),
		},
	}
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

	errWriter := c.App.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// aiConfig builds the AI configuration from the global flags.
func aiConfig(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
		ai.WithAPIToken(c.String("api-token")),
		ai.WithEmbeddingsEnabled(!c.Bool("no-embeddings")),
		ai.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if host := c.String("embedding-host"); host != "" {
		config.EmbeddingHost = host
	}
	if host := c.String("classifier-host"); host != "" {
		config.ClassifierHost = host
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

// openEngine opens the database named by --db with the configured services.
func (e *env) openEngine(c *cli.Context) (*actionbias.Engine, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	opts := []actionbias.EngineOption{actionbias.WithLogger(slog.Default())}
	if e.provider != nil {
		opts = append(opts, actionbias.WithProvider(e.provider))
	} else {
		config, err := aiConfig(c)
		if err != nil {
			return nil, err
		}
		opts = append(opts, actionbias.WithAIConfig(config))
	}

	engine, err := actionbias.NewEngine(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

// embeddingsEnabled reports whether embedding calls can be made.
func (e *env) embeddingsEnabled(c *cli.Context) bool {
	return e.provider != nil || !c.Bool("no-embeddings")
}
