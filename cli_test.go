package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gumballz/internal/vocab"
)

const cliCSV = "A1,Greetings,Hello\nA1,Greetings,Bye\nA1,Numbers,One\nA2,Greetings,Hola\n"

func runCLI(t *testing.T, sheetURL string, args ...string) (string, error) {
	t.Helper()
	for _, env := range []string{"PORT", "LOG_LEVEL", "CACHE_TTL", "ADMIN_JWT_SECRET", "SHEET_SKIP_HEADER", "GUMBALLZ_CONFIG"} {
		t.Setenv(env, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHEET_CSV_URL", sheetURL)
	t.Setenv("LOG_LEVEL", "disabled")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newSheet(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCLI_Levels(t *testing.T) {
	sheet := newSheet(t, http.StatusOK, cliCSV)

	out, err := runCLI(t, sheet.URL, "levels")
	require.NoError(t, err)

	var got []vocab.LevelSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []vocab.LevelSummary{
		{Level: "A1", WordCount: 3, TopicCount: 2},
		{Level: "A2", WordCount: 1, TopicCount: 1},
	}, got)
}

func TestCLI_Topics(t *testing.T) {
	sheet := newSheet(t, http.StatusOK, cliCSV)

	out, err := runCLI(t, sheet.URL, "topics", "--level", "a1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"topic":"Greetings","word_count":2},{"topic":"Numbers","word_count":1}]`, out)

	_, err = runCLI(t, sheet.URL, "topics")
	assert.Error(t, err)
}

func TestCLI_Lesson(t *testing.T) {
	sheet := newSheet(t, http.StatusOK, cliCSV)

	out, err := runCLI(t, sheet.URL, "lesson", "A1", "Greetings")
	require.NoError(t, err)
	var got []vocab.Record
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)

	_, err = runCLI(t, sheet.URL, "lesson", "A1", "Animals")
	var nf *vocab.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCLI_Stats(t *testing.T) {
	sheet := newSheet(t, http.StatusOK, cliCSV)

	out, err := runCLI(t, sheet.URL, "stats")
	require.NoError(t, err)
	var got vocab.GlobalStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.TotalLevels)
	assert.Equal(t, 3, got.TotalTopics)
	assert.Equal(t, 4, got.TotalWords)
}

func TestCLI_SourceUnavailable(t *testing.T) {
	sheet := newSheet(t, http.StatusInternalServerError, "")

	_, err := runCLI(t, sheet.URL, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Không thể tải")
}

func TestCLI_InvalidConfig(t *testing.T) {
	_, err := runCLI(t, "::not-a-url::", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet.url")
}
