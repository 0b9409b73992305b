package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/exhibit-org/actionbias-sub003/analysis"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/placement"
	"github.com/exhibit-org/actionbias-sub003/search"
)

func contentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    "Item title",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Item description",
		},
		&cli.StringFlag{
			Name:  "vision",
			Usage: "Desired outcome of the item",
		},
	}
}

func suggestCommand(e *env) *cli.Command {
	defaults := placement.DefaultSuggestOptions()
	return &cli.Command{
		Name:  "suggest",
		Usage: "Suggest parents for a new or existing work item",
		Flags: append(contentFlags(),
			&cli.StringFlag{
				Name:  "id",
				Usage: "ID of the item, excluded from its own suggestions",
			},
			&cli.StringFlag{
				Name:  "parent",
				Usage: "Current parent of the item, if any",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of suggestions",
				Value: defaults.Limit,
			},
			&cli.IntFlag{
				Name:  "min-confidence",
				Usage: "Minimum confidence (0-100) for a suggestion",
				Value: defaults.ConfidenceThreshold,
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Vector similarity threshold",
				Value: defaults.VectorThreshold,
			},
			&cli.BoolFlag{
				Name:  "no-oracle",
				Usage: "Skip the classification model",
			},
		),
		Action: e.suggestAction,
	}
}

func (e *env) suggestAction(c *cli.Context) error {
	item := core.WorkItem{
		ID:          c.String("id"),
		Title:       c.String("title"),
		Description: c.String("description"),
		Vision:      c.String("vision"),
		ParentID:    c.String("parent"),
	}
	if err := core.ValidateWorkItem(&item); err != nil {
		return err
	}

	engine, err := e.openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := placement.SuggestOptions{
		Limit:               c.Int("limit"),
		ConfidenceThreshold: c.Int("min-confidence"),
		VectorThreshold:     c.Float64("threshold"),
		UseOracle:           !c.Bool("no-oracle"),
	}
	suggestions := engine.SuggestParents(context.Background(), item, opts)

	if c.Bool("json") {
		return writeJSON(e.stdout, suggestions)
	}
	return writeSuggestions(e.stdout, suggestions)
}

func searchCommand(e *env) *cli.Command {
	defaults := search.DefaultOptions()
	return &cli.Command{
		Name:      "search",
		Usage:     "Search work items by meaning, keywords or ID",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: defaults.Limit,
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Vector similarity threshold",
				Value: defaults.Threshold,
			},
			&cli.BoolFlag{
				Name:  "include-done",
				Usage: "Include completed items in keyword matches",
			},
			&cli.BoolFlag{
				Name:  "no-vector",
				Usage: "Skip vector search",
			},
			&cli.BoolFlag{
				Name:  "no-keyword",
				Usage: "Skip keyword search",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Log each search stage at debug level",
			},
		},
		Action: e.searchAction,
	}
}

func (e *env) searchAction(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("search needs a query")
	}

	engine, err := e.openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := search.Options{
		Limit:         c.Int("limit"),
		Threshold:     c.Float64("threshold"),
		IncludeDone:   c.Bool("include-done"),
		VectorSearch:  !c.Bool("no-vector") && e.embeddingsEnabled(c),
		KeywordSearch: !c.Bool("no-keyword"),
	}

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = search.NewLoggingMonitor(slog.Default())
	}
	results := engine.SearchActionsWithMonitor(context.Background(), query, opts, monitor)

	if c.Bool("json") {
		return writeJSON(e.stdout, results)
	}
	return writeResults(e.stdout, results)
}

func analyzeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Extract keywords and score the content quality of an item",
		Flags: append(contentFlags(),
			&cli.StringFlag{
				Name:  "method",
				Usage: "Term scoring method (frequency, tfidf, weighted)",
				Value: string(analysis.MethodWeighted),
			},
		),
		Action: e.analyzeAction,
	}
}

func newAnalyzer(method string) (*analysis.Analyzer, error) {
	opts := analysis.DefaultOptions()
	m, err := analysis.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("invalid method %q: must be one of frequency, tfidf, weighted", method)
	}
	opts.Method = m
	return analysis.NewAnalyzer(analysis.WithOptions(opts), analysis.WithLogger(slog.Default()))
}

func (e *env) analyzeAction(c *cli.Context) error {
	analyzer, err := newAnalyzer(c.String("method"))
	if err != nil {
		return err
	}
	defer analyzer.Release()

	result := analyzer.Analyze(analysis.Content{
		Title:       c.String("title"),
		Description: c.String("description"),
		Vision:      c.String("vision"),
	})

	if c.Bool("json") {
		return writeJSON(e.stdout, result)
	}
	return writeAnalysis(e.stdout, result)
}

func compareCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Score the content similarity of two items",
		ArgsUsage: "<title-a> <title-b>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "a-description",
				Usage: "Description of the first item",
			},
			&cli.StringFlag{
				Name:  "b-description",
				Usage: "Description of the second item",
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: "Term scoring method (frequency, tfidf, weighted)",
				Value: string(analysis.MethodWeighted),
			},
		},
		Action: e.compareAction,
	}
}

func (e *env) compareAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("compare takes exactly two titles")
	}

	analyzer, err := newAnalyzer(c.String("method"))
	if err != nil {
		return err
	}
	defer analyzer.Release()

	cmp := analyzer.Compare(
		analysis.Content{Title: c.Args().Get(0), Description: c.String("a-description")},
		analysis.Content{Title: c.Args().Get(1), Description: c.String("b-description")},
	)

	if c.Bool("json") {
		return writeJSON(e.stdout, cmp)
	}
	return writeComparison(e.stdout, cmp)
}
