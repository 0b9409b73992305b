package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/ai/mock"
	"github.com/exhibit-org/actionbias-sub003/analysis"
	"github.com/exhibit-org/actionbias-sub003/core"
)

const loginID = "550e8400-e29b-41d4-a716-446655440000"

type harness struct {
	env      *env
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	provider *mock.MockProvider
	db       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		provider: mock.NewMockProvider(),
		db:       filepath.Join(t.TempDir(), "db"),
	}
	h.env = &env{stdin: &bytes.Buffer{}, stdout: h.stdout, stderr: h.stderr, provider: h.provider}
	return h
}

func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	full := append([]string{"actionbias", "--log-level", "error", "--db", h.db}, args...)
	return newApp(h.env).Run(full)
}

func writeItems(t *testing.T, items any) string {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func importFixture(t *testing.T, h *harness) {
	t.Helper()
	path := writeItems(t, []core.WorkItem{
		{ID: loginID, Title: "Login page"},
		{Title: "Login page"},
		{ID: "billing", Title: "Billing export", ParentID: loginID},
	})
	require.NoError(t, h.run("import", path))
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"DEBUG", false},
		{"WaRn", false},
		{"verbose", true},
		{"", true},
	}
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			app := &cli.App{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}

			err := app.Run([]string{"test", "--log-level", tt.level})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestImport(t *testing.T) {
	h := newHarness(t)
	importFixture(t, h)

	assert.Equal(t, "Imported 2 items (1 duplicates skipped, 2 embedded)\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Importing: 2/2")

	t.Run("reimport replaces by id", func(t *testing.T) {
		path := writeItems(t, []core.WorkItem{{ID: "billing", Title: "Billing export", ParentID: loginID}})
		require.NoError(t, h.run("--json", "import", "--skip-embed", path))

		var summary importSummary
		require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &summary))
		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, []string{"billing"}, summary.IDs)
		assert.Zero(t, summary.Embedded)
	})

	t.Run("rejects items without a title", func(t *testing.T) {
		path := writeItems(t, []core.WorkItem{{ID: "x"}})
		err := h.run("import", path)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrEmptyTitle)
	})

	t.Run("requires a file argument", func(t *testing.T) {
		assert.Error(t, h.run("import"))
	})

	t.Run("reads stdin", func(t *testing.T) {
		h.env.stdin = bytes.NewBufferString(`[{"title": "Invoice reminders"}]`)
		require.NoError(t, h.run("import", "--skip-embed", "-"))
		assert.Contains(t, h.stdout.String(), "Imported 1 items")
	})
}

func TestEmbed(t *testing.T) {
	h := newHarness(t)
	path := writeItems(t, []core.WorkItem{{ID: "a", Title: "Write docs"}})
	require.NoError(t, h.run("import", "--skip-embed", path))

	require.NoError(t, h.run("embed"))
	assert.Equal(t, "Embedded 1 items\n", h.stdout.String())

	require.NoError(t, h.run("embed"))
	assert.Equal(t, "Embedded 0 items\n", h.stdout.String())

	require.NoError(t, h.run("--json", "embed", "--force"))
	assert.JSONEq(t, `{"embedded": 1}`, h.stdout.String())

	t.Run("disabled embeddings", func(t *testing.T) {
		h.env.provider = nil
		err := h.run("--no-embeddings", "embed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embeddings are disabled")
	})
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	importFixture(t, h)

	require.NoError(t, h.run("--json", "search", "login"))
	var results []core.SearchResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, loginID, results[0].ID)
	assert.Equal(t, core.MatchHybrid, results[0].MatchType)

	t.Run("identifier skips embedding", func(t *testing.T) {
		before := h.provider.GetMockEmbedder().CallCount()
		require.NoError(t, h.run("--json", "search", loginID))
		assert.Equal(t, before, h.provider.GetMockEmbedder().CallCount())

		var related []core.SearchResult
		require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &related))
		require.Len(t, related, 2)
		assert.Equal(t, []string{"self"}, related[0].KeywordMatches)
		assert.Equal(t, "billing", related[1].ID)
		assert.Equal(t, []string{"child"}, related[1].KeywordMatches)
	})

	t.Run("table output", func(t *testing.T) {
		require.NoError(t, h.run("search", "--no-vector", "billing"))
		assert.Contains(t, h.stdout.String(), "SCORE")
		assert.Contains(t, h.stdout.String(), "Login page / Billing export")
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Error(t, h.run("search", "  "))
	})
}

func TestSuggest(t *testing.T) {
	h := newHarness(t)
	importFixture(t, h)

	h.provider.GetMockClassifier().ClassifyFunc = func(context.Context, ai.ClassificationRequest) (core.ClassificationDecision, error) {
		return core.ClassificationDecision{
			Decision:        core.DecisionCreateParent,
			Confidence:      0.2,
			Reasoning:       "no account area yet",
			SuggestedParent: &core.SuggestedParent{Title: "Accounts", Description: "Account management"},
		}, nil
	}

	require.NoError(t, h.run("--json", "suggest", "--title", "Password reset flow", "--description", "Email a reset link"))
	var suggestions []core.Suggestion
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &suggestions))

	var created *core.Suggestion
	for i := range suggestions {
		if suggestions[i].ID == core.CreateNewID {
			created = &suggestions[i]
		}
	}
	require.NotNil(t, created)
	assert.GreaterOrEqual(t, created.Confidence, 75)
	assert.Equal(t, "Accounts", created.Title)
	assert.True(t, created.CanCreateNewParent)

	t.Run("without oracle", func(t *testing.T) {
		calls := h.provider.GetMockClassifier().CallCount()
		require.NoError(t, h.run("suggest", "--no-oracle", "--title", "Password reset flow"))
		assert.Equal(t, calls, h.provider.GetMockClassifier().CallCount())
		assert.NotContains(t, h.stdout.String(), core.CreateNewID)
	})

	t.Run("title is required", func(t *testing.T) {
		assert.Error(t, h.run("suggest"))
	})
}

func TestAnalyze(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--json", "analyze", "--title", "Fix login bug", "--description", "Users cannot log in after the password reset"))
	var result analysis.Analysis
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.NotEmpty(t, result.Keywords)
	assert.Greater(t, result.QualityScore, 0.0)
	assert.True(t, result.HasSufficientContent)

	require.NoError(t, h.run("analyze", "--method", "frequency", "--title", "Fix login bug"))
	assert.Contains(t, h.stdout.String(), "Quality:")

	err := h.run("analyze", "--method", "bm25", "--title", "Fix login bug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid method")
}

func TestCompare(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--json", "compare", "Fix login bug", "Login bug in checkout"))
	var related analysis.Comparison
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &related))

	require.NoError(t, h.run("--json", "compare", "Fix login bug", "Quarterly budget review"))
	var unrelated analysis.Comparison
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &unrelated))

	assert.Greater(t, related.Similarity, unrelated.Similarity)
	assert.Contains(t, related.SharedTerms, "login")

	assert.Error(t, h.run("compare", "only one"))
}
