package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	actionbias "github.com/exhibit-org/actionbias-sub003"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/reembed"
)

func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of items to process in each batch",
			Value: reembed.DefaultBatchSize,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N items",
			Value: 100,
		},
	}
}

func importCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import work items from a JSON array and embed them",
		ArgsUsage: "<file|->",
		Flags: append(batchFlags(),
			&cli.BoolFlag{
				Name:  "skip-embed",
				Usage: "Store items without generating embeddings",
			},
		),
		Action: e.importAction,
	}
}

func embedCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "embed",
		Usage: "Generate embeddings for stored items that lack one",
		Flags: append(batchFlags(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-embed every item, including those with a vector",
			},
		),
		Action: e.embedAction,
	}
}

// importSummary is the result of an import.
type importSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Embedded int      `json:"embedded"`
	IDs      []string `json:"ids"`
}

func (e *env) importAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("import takes exactly one file argument (use - for stdin)")
	}
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	items, err := e.readItems(c.Args().First())
	if err != nil {
		return err
	}

	engine, err := e.openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	existing, err := engine.Repository().Items(ctx)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	fresh, skipped := dedupe(existing, items)
	summary := importSummary{Skipped: skipped, IDs: make([]string, 0, len(fresh))}

	tracker := reembed.NewProgressTracker(e.stderr, len(fresh), c.Int("report-interval"))
	tracker.SetLabel("Importing")
	tracker.Start()
	err = reembed.ForEachBatch(ctx, fresh, c.Int("batch-size"), func(batch []*core.WorkItem) error {
		if err := engine.Repository().PutItems(ctx, batch...); err != nil {
			return fmt.Errorf("failed to store items: %w", err)
		}
		for _, item := range batch {
			summary.IDs = append(summary.IDs, item.ID)
		}
		summary.Imported += len(batch)
		tracker.Update(summary.Imported)
		return nil
	})
	if err != nil {
		return err
	}
	tracker.Finish()

	if !c.Bool("skip-embed") && e.embeddingsEnabled(c) {
		summary.Embedded, err = e.backfill(c, engine, false)
		if err != nil {
			return err
		}
	}

	if c.Bool("json") {
		return writeJSON(e.stdout, summary)
	}
	fmt.Fprintf(e.stdout, "Imported %d items (%d duplicates skipped, %d embedded)\n",
		summary.Imported, summary.Skipped, summary.Embedded)
	return nil
}

func (e *env) embedAction(c *cli.Context) error {
	if !e.embeddingsEnabled(c) {
		return errors.New("embeddings are disabled (--no-embeddings)")
	}

	engine, err := e.openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	n, err := e.backfill(c, engine, c.Bool("force"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(e.stdout, map[string]int{"embedded": n})
	}
	fmt.Fprintf(e.stdout, "Embedded %d items\n", n)
	return nil
}

func (e *env) backfill(c *cli.Context, engine *actionbias.Engine, force bool) (int, error) {
	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		Force:          force,
	}
	if config.BatchSize <= 0 {
		return 0, fmt.Errorf("batch-size must be greater than 0")
	}

	r, err := engine.NewReembedder(config, e.stderr)
	if err != nil {
		return 0, err
	}
	n, err := r.Run(context.Background())
	if err != nil {
		return n, fmt.Errorf("embedding failed: %w", err)
	}
	return n, nil
}

// readItems decodes a JSON array of work items from path, or stdin for "-".
// Items without an ID get a new UUID.
func (e *env) readItems(path string) ([]*core.WorkItem, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	var items []*core.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}

	for i, item := range items {
		if err := core.ValidateWorkItem(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
	}
	return items, nil
}

// dedupe drops items whose content and parent match an item seen earlier,
// either already stored or earlier in the input. Items sharing an ID with a
// stored item replace it and are never dropped.
func dedupe(existing, items []*core.WorkItem) ([]*core.WorkItem, int) {
	seen := make(map[uint64]struct{}, len(existing)+len(items))
	ids := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[contentKey(item)] = struct{}{}
		ids[item.ID] = struct{}{}
	}

	fresh := make([]*core.WorkItem, 0, len(items))
	skipped := 0
	for _, item := range items {
		key := contentKey(item)
		if _, replace := ids[item.ID]; !replace {
			if _, dup := seen[key]; dup {
				skipped++
				continue
			}
		}
		seen[key] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh, skipped
}

func contentKey(item *core.WorkItem) uint64 {
	return core.Fingerprint(item.ParentID + "\x00" + item.Text())
}
