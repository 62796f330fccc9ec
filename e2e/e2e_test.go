package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/appshelf"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

// TestE2E_Serve runs init, starts the server and walks every route.
func TestE2E_Serve(t *testing.T) {
	dir := newSite(t)

	baseURL, cleanup := startServer(t, dir)
	defer cleanup()

	t.Run("index lists chess", func(t *testing.T) {
		resp, body := get(t, baseURL+"/")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, body, "<h4>Games</h4>")
		assert.Contains(t, body, "<p>chess</p>")
		assert.Contains(t, body, "/apps/games/chess.apk")
		assert.NotContains(t, body, appshelf.PlaceholderToken)
	})

	t.Run("android lists chess", func(t *testing.T) {
		resp, body := get(t, baseURL+"/android")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "<p>chess</p>")
	})

	t.Run("package download", func(t *testing.T) {
		resp, body := get(t, baseURL+"/apps/games/chess.apk")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/vnd.android.package-archive", resp.Header.Get("Content-Type"))
		assert.Equal(t, "chess package", body)
	})

	t.Run("missing package", func(t *testing.T) {
		resp, _ := get(t, baseURL+"/apps/games/go.apk")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("static file", func(t *testing.T) {
		resp, body := get(t, baseURL+"/static/style.css")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, ".item")
	})

	t.Run("sections api", func(t *testing.T) {
		resp, body := get(t, baseURL+"/api/sections?appType=ios")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"sections": []}`, body)
	})

	t.Run("head", func(t *testing.T) {
		resp, err := http.Head(baseURL + "/")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("catalog changes show up without restart", func(t *testing.T) {
		err := os.WriteFile(filepath.Join(dir, "apps_metadata.json"), []byte(
			`{"games": {"heading": "Board Games", "apps": {"chess": {"appType": "android"}}}}`), 0o644)
		require.NoError(t, err)

		_, body := get(t, baseURL+"/")
		assert.Contains(t, body, "<h4>Board Games</h4>")
		assert.Contains(t, body, appshelf.DefaultDescription)
	})

	t.Run("template missing", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "templates", "android.html")))

		resp, body := get(t, baseURL+"/android")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Template not found")
	})
}

func TestE2E_Render(t *testing.T) {
	dir := newSite(t)

	out := runCommand(t, dir, "render", "/android")

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<p>chess</p>")

	_, err := runCommandErr(t, dir, "render", "/nope")
	assert.Error(t, err)
}

func TestE2E_Check(t *testing.T) {
	dir := newSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apps", "games", "go.apk"), []byte("go"), 0o644))

	out := runCommand(t, dir, "check", "--json")

	var report struct {
		Categories []appshelf.CategoryReport `json:"categories"`
		Clean      bool                      `json:"clean"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Clean)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, []string{"go"}, report.Categories[0].Unlisted)

	_, err := runCommandErr(t, dir, "check", "--strict", "--quiet")
	assert.Error(t, err)
}

func TestE2E_List(t *testing.T) {
	dir := newSite(t)

	out := runCommand(t, dir, "list", "--app-type", "android", "--quiet")
	assert.Equal(t, "Games\n  /apps/games/chess.apk\n", out)
}
