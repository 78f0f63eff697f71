package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"travelease/config"
	"travelease/internal/app"
	"travelease/internal/summary/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "5b0f8a4e-2c61-4d3a-9a57-1f2e3d4c5b6a"

const sample = `{"city_guide":{"attractions":[{"name":"Alfama","description":"Old quarter"}]},"tips":"Wear good shoes"}`

func run(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("DISPLAY_TZ", "UTC")
	t.Setenv("HEURISTICS_FILE", "")
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestRender_Markdown(t *testing.T) {
	out, err := run(t, nil, "render", writeSample(t), "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "### City Guide\n\n#### Attractions\n\n- **Alfama**\n\n  Old quarter\n\n### Tips\n\nWear good shoes\n", out)
}

func TestRender_Stdin(t *testing.T) {
	out, err := run(t, strings.NewReader(sample), "render", "-", "--format", "json")
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "stack", tree["kind"])
}

func TestRender_Formats(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, nil, "render", path, "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3>City Guide</h3>")

	out, err = run(t, nil, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "City Guide")
	assert.Contains(t, out, "Alfama")

	out, err = run(t, nil, "render", path, "--format", "glamour", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "City Guide")
	assert.Contains(t, out, "Wear good shoes")

	_, err = run(t, nil, "render", path, "--format", "pdf")
	assert.Error(t, err)
}

func TestRender_RawText(t *testing.T) {
	out, err := run(t, strings.NewReader("just some notes"), "render", "-", "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "```\njust some notes\n```\n", out)
}

func TestListAndShow(t *testing.T) {
	useSQLite(t)

	out, err := run(t, nil, "list", "--user", testUser)
	require.NoError(t, err)
	assert.Equal(t, "No summaries yet.\n", out)

	svc, db, err := app.Open(context.Background(), config.Load())
	require.NoError(t, err)
	v, err := document.ParseString(sample)
	require.NoError(t, err)
	rec, err := svc.Store(context.Background(), testUser, document.Doc(v))
	require.NoError(t, err)
	db.Close()

	out, err = run(t, nil, "list", "--user", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "City Guide")
	assert.Contains(t, out, "▼")

	out, err = run(t, nil, "show", "1", "--user", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "City Guide")

	out, err = run(t, nil, "show", "1", "--user", testUser, "--expand", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Alfama")
	assert.Contains(t, out, "Old quarter")
	assert.Equal(t, int64(1), rec.ID)

	_, err = run(t, nil, "show", "2", "--user", testUser)
	assert.Error(t, err)

	_, err = run(t, nil, "show", "x", "--user", testUser)
	assert.ErrorContains(t, err, "invalid summary id")

	_, err = run(t, nil, "list")
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	useSQLite(t)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":{"destination":"Lisbon","details":["Trams","Tiles"]}}`))
	}))
	defer backend.Close()
	t.Setenv("SUMMARIZER", "backend")
	t.Setenv("SUMMARIZER_URL", backend.URL+"/process")

	out, err := run(t, nil, "process", "https://example.com/lisbon")
	require.NoError(t, err)
	assert.Contains(t, out, "Destination")
	assert.Contains(t, out, "Trams")

	out, err = run(t, nil, "process", "https://example.com/lisbon", "--user", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "Destination")

	out, err = run(t, nil, "list", "--user", testUser)
	require.NoError(t, err)
	assert.Contains(t, out, "Destination")

	_, err = run(t, nil, "process", "ftp://example.com")
	assert.Error(t, err)
}
