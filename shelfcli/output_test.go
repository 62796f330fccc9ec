package shelfcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sagarc03/appshelf"
	"github.com/sagarc03/appshelf/shelfcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() appshelf.Report {
	return appshelf.Report{
		Categories: []appshelf.CategoryReport{
			{Category: "games", Heading: "Games", Listed: 2, Missing: []string{"sudoku"}, Unlisted: []string{"go"}},
			{Category: "tools", Heading: "Tools", Listed: 1},
		},
		Orphans: []string{"music"},
	}
}

func sampleSections() []appshelf.Section {
	return []appshelf.Section{{
		Category: "games",
		Heading:  "Games",
		Tiles: []appshelf.Tile{{
			Name:        "chess",
			Description: "Play chess",
			DownloadURL: "/apps/games/chess.apk",
			IconURL:     appshelf.DefaultIcon,
		}},
	}}
}

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		formatter := shelfcli.NewFormatter(true, false)
		_, ok := formatter.(*shelfcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter", func(t *testing.T) {
		formatter := shelfcli.NewFormatter(false, false)
		_, ok := formatter.(*shelfcli.HumanFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		formatter := shelfcli.NewFormatter(false, true)
		hf, ok := formatter.(*shelfcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatReport(t *testing.T) {
	t.Run("problems", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{}).FormatReport(&buf, sampleReport()))

		output := buf.String()
		assert.Contains(t, output, "games (Games): 2 listed")
		assert.Contains(t, output, "missing:  sudoku.apk")
		assert.Contains(t, output, "unlisted: go.apk")
		assert.Contains(t, output, "tools (Tools): 1 listed")
		assert.Contains(t, output, "orphan categories (no directory): music")
		assert.Contains(t, output, "3 problem(s) found")
	})

	t.Run("clean", func(t *testing.T) {
		report := appshelf.Report{Categories: []appshelf.CategoryReport{{Category: "tools", Heading: "Tools", Listed: 1}}}

		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{}).FormatReport(&buf, report))

		assert.Contains(t, buf.String(), "Catalog and apps directory agree")
	})

	t.Run("quiet prints problems only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{Quiet: true}).FormatReport(&buf, sampleReport()))

		output := buf.String()
		assert.Contains(t, output, "games (Games)")
		assert.NotContains(t, output, "tools (Tools)")
		assert.NotContains(t, output, "problem(s) found")
	})
}

func TestHumanFormatter_FormatSections(t *testing.T) {
	t.Run("listing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{}).FormatSections(&buf, sampleSections()))

		output := buf.String()
		assert.Contains(t, output, "Games\n")
		assert.Contains(t, output, "chess")
		assert.Contains(t, output, "Play chess")
		assert.Contains(t, output, "1 app(s) in 1 category")
	})

	t.Run("quiet prints urls", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{Quiet: true}).FormatSections(&buf, sampleSections()))

		assert.Equal(t, "Games\n  /apps/games/chess.apk\n", buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&shelfcli.HumanFormatter{}).FormatSections(&buf, nil))

		assert.Equal(t, "No apps found\n", buf.String())
	})
}

func TestHumanFormatter_FormatScaffold(t *testing.T) {
	results := []shelfcli.ScaffoldResult{
		{Path: "templates/index.html", Status: shelfcli.StatusCreated},
		{Path: "config.yaml", Status: shelfcli.StatusSkipped},
	}

	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.HumanFormatter{}).FormatScaffold(&buf, results))
	assert.Contains(t, buf.String(), "created     templates/index.html")
	assert.Contains(t, buf.String(), "skipped     config.yaml")

	buf.Reset()
	require.NoError(t, (&shelfcli.HumanFormatter{Quiet: true}).FormatScaffold(&buf, results))
	assert.NotContains(t, buf.String(), "config.yaml")
}

func TestHumanFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.HumanFormatter{}).FormatError(&buf, errors.New("apps root missing")))

	assert.Equal(t, "Error: apps root missing\n", buf.String())
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatReport(&buf, sampleReport()))

	var got struct {
		Categories []appshelf.CategoryReport `json:"categories"`
		Orphans    []string                  `json:"orphans"`
		Clean      bool                      `json:"clean"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.False(t, got.Clean)
	assert.Equal(t, sampleReport().Categories, got.Categories)
	assert.Equal(t, []string{"music"}, got.Orphans)
}

func TestJSONFormatter_FormatReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatReport(&buf, appshelf.Report{}))

	assert.JSONEq(t, `{"categories": [], "clean": true}`, buf.String())
}

func TestJSONFormatter_FormatSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatSections(&buf, nil))
	assert.JSONEq(t, `{"sections": []}`, buf.String())

	buf.Reset()
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatSections(&buf, sampleSections()))
	assert.Contains(t, buf.String(), `"download_url": "/apps/games/chess.apk"`)
}

func TestJSONFormatter_FormatScaffold(t *testing.T) {
	var buf bytes.Buffer
	results := []shelfcli.ScaffoldResult{{Path: "config.yaml", Status: shelfcli.StatusOverwritten}}
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatScaffold(&buf, results))

	assert.JSONEq(t, `{"files": [{"path": "config.yaml", "status": "overwritten"}]}`, buf.String())
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&shelfcli.JSONFormatter{}).FormatError(&buf, errors.New("boom")))

	assert.JSONEq(t, `{"error": "boom"}`, buf.String())
}
