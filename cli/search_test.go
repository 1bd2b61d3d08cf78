package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/workflow"
)

func resetSearchFlags() {
	searchCourse = workflow.DefaultCourse
	searchLimit = 0
	searchJSON = false
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetSearchFlags()

	_, err := execute(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsRankedResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetSearchFlags()

	_, err := lib.Add("bio202", library.Document{
		Title:   "Mammal Facts",
		Content: "mammals are warm blooded animals",
		Author:  "Dr. A",
	})
	require.NoError(t, err)

	out, err := execute(t, "search", "warm blooded mammals", "--course", "bio202")
	require.NoError(t, err)

	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Mammal Facts (3.00)")
	assert.Contains(t, out, "Author: Dr. A")
	assert.Contains(t, out, "mammals are warm blooded animals")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetSearchFlags()

	out, err := execute(t, "search", "nothing matches this")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetSearchFlags()

	_, err := lib.Add("bio202", library.Document{Title: "Mammal Facts", Content: "mammals are warm blooded"})
	require.NoError(t, err)

	out, err := execute(t, "search", "mammals", "--course", "bio202", "--json")
	require.NoError(t, err)

	assert.Contains(t, out, `"Score"`)
	assert.Contains(t, out, `"title": "Mammal Facts"`)
}

func TestSearchCmd_LimitsResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetSearchFlags()

	_, err := lib.Add("bio202", library.Document{Title: "First", Content: "shared term alpha"})
	require.NoError(t, err)
	_, err = lib.Add("bio202", library.Document{Title: "Second", Content: "shared term beta"})
	require.NoError(t, err)

	out, err := execute(t, "search", "shared term", "--course", "bio202", "-n", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "[1]")
	assert.NotContains(t, out, "[2]")
}
