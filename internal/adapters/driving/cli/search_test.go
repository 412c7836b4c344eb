package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and captures its output.
// Search flag state is reset afterwards so tests stay independent.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		searchLimit = 0
		searchJSON = false
		searchMode = "hybrid"
		searchSemWeight = 0
		searchTxtWeight = 0
		searchThreshold = 0
		searchCategory = ""
		searchTags = nil
		searchAfter = ""
		searchBefore = ""
		searchMaxChunks = 0
		searchMaxTokens = 0
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "hybrid search")
	assert.Contains(t, searchCmd.Long, "BM25")
	assert.Contains(t, searchCmd.Long, "semantic")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{})
	defer cleanup()

	_, err := execute(t, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	fake := &fakeRetrievalService{results: sampleResults()}
	cleanup := setupTestServices(fake)
	defer cleanup()

	out, err := execute(t, "search", "connection pooling")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "Database Notes")
	assert.Contains(t, out, "0.92")
	assert.Contains(t, out, "both")
	assert.Equal(t, "connection pooling", fake.lastReq.Query)
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{})
	defer cleanup()

	out, err := execute(t, "search", "nothing matches this")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{results: sampleResults()})
	defer cleanup()

	out, err := execute(t, "search", "--json", "connection pooling")

	require.NoError(t, err)
	assert.Contains(t, out, `"CombinedScore": 0.92`)
}

func TestSearchCmd_PassesFlagsThrough(t *testing.T) {
	fake := &fakeRetrievalService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	_, err := execute(t, "search",
		"--limit", "5",
		"--semantic-weight", "0.8",
		"--text-weight", "0.2",
		"--threshold", "0.3",
		"--category", "guides",
		"--tag", "go",
		"--tag", "db",
		"--after", "2026-01-01",
		"query text")

	require.NoError(t, err)
	assert.Equal(t, 5, fake.lastReq.Limit)
	assert.Equal(t, 0.8, fake.lastReq.SemanticWeight)
	assert.Equal(t, 0.2, fake.lastReq.TextWeight)
	assert.Equal(t, 0.3, fake.lastReq.Threshold)
	assert.Equal(t, "guides", fake.lastReq.Filter.Category)
	assert.Equal(t, []string{"go", "db"}, fake.lastReq.Filter.Tags)
	assert.Equal(t, 2026, fake.lastReq.Filter.UploadedAfter.Year())
}

func TestSearchCmd_SemanticMode(t *testing.T) {
	fake := &fakeRetrievalService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	_, err := execute(t, "search", "--mode", "semantic", "query text")

	require.NoError(t, err)
	assert.Equal(t, 1.0, fake.lastReq.SemanticWeight)
	assert.Equal(t, 0.0, fake.lastReq.TextWeight)
}

func TestSearchCmd_AutoModeLexicalForQuotedPhrase(t *testing.T) {
	fake := &fakeRetrievalService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	_, err := execute(t, "search", "--mode", "auto", `"connection pool exhausted"`)

	require.NoError(t, err)
	assert.Equal(t, 0.0, fake.lastReq.SemanticWeight)
	assert.Equal(t, 1.0, fake.lastReq.TextWeight)
}

func TestSearchCmd_UnknownMode(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{})
	defer cleanup()

	_, err := execute(t, "search", "--mode", "psychic", "query text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestSearchCmd_InvalidAfterDate(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{})
	defer cleanup()

	_, err := execute(t, "search", "--after", "yesterday", "query text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --after")
}

func TestSearchCmd_TokenBudgetTrims(t *testing.T) {
	cleanup := setupTestServices(&fakeRetrievalService{results: sampleResults()})
	defer cleanup()

	out, err := execute(t, "search", "--max-tokens", "40", "query text")

	require.NoError(t, err)
	assert.Contains(t, out, "Database Notes")
	assert.NotContains(t, out, "Operations")
}
