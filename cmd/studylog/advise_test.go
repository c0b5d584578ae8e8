package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studylog/internal/inference/gemini"
	"github.com/at-ishikawa/studylog/internal/testutil"
)

func newGeminiServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body gemini.GenerateContentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Contents[0].Parts[0].Text, `"Math"`)

		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Text: text}}}}},
		}))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAdviseCommand(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")

	t.Run("suggests tasks for the weakest subject", func(t *testing.T) {
		server := newGeminiServer(t, "1. Solve ten linear equations.")
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfigWithAPIKey(t, tmpDir, server.URL)
		_, err := runCommand(t, "", "--config", cfgPath, "entry", "add",
			"--date", "2024-01-01", "--subject", "Math", "--topic", "Algebra", "--score", "2")
		require.NoError(t, err)

		got, err := runCommand(t, "", "--config", cfgPath, "advise")
		require.NoError(t, err)
		assert.Equal(t, "Focus: Math / Algebra\n\n1. Solve ten linear equations.\n", got)
	})

	t.Run("empty log", func(t *testing.T) {
		server := newGeminiServer(t, "unused")
		cfgPath := testutil.SetupTestConfigWithAPIKey(t, t.TempDir(), server.URL)

		got, err := runCommand(t, "", "--config", cfgPath, "advise")
		require.NoError(t, err)
		assert.Equal(t, "No entries yet. Record a study session first.\n", got)
	})

	t.Run("empty suggestion", func(t *testing.T) {
		server := newGeminiServer(t, "   ")
		cfgPath := testutil.SetupTestConfigWithAPIKey(t, t.TempDir(), server.URL)
		_, err := runCommand(t, "", "--config", cfgPath, "entry", "add",
			"--date", "2024-01-01", "--subject", "Math", "--topic", "Algebra", "--score", "2")
		require.NoError(t, err)

		_, err = runCommand(t, "", "--config", cfgPath, "advise")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := runCommand(t, "", "--config", newSeededConfig(t, sampleEntries(t)...), "advise")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("empty log without api key", func(t *testing.T) {
		got, err := runCommand(t, "", "--config", newTestConfig(t), "advise")
		require.NoError(t, err)
		assert.Equal(t, "No entries yet. Record a study session first.\n", got)
	})
}
