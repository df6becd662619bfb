package testrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDetect(t *testing.T) {
	t.Run("go module", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{
			"go.mod":                  "module example.com/x\n",
			"store_test.go":           "package x",
			"internal/api/io_test.go": "package api",
		})

		fw := Detect(dir)
		assert.Equal(t, "go", fw.Name)
		assert.Equal(t, []string{"go", "test", "./..."}, fw.Command)
		assert.Equal(t, 2, fw.TestFiles)
	})

	t.Run("pytest", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{
			"pytest.ini":            "[pytest]\n",
			"tests/test_store.py":   "def test_ok(): pass",
			"tests/helpers_test.py": "def test_ok(): pass",
		})

		fw := Detect(dir)
		assert.Equal(t, "pytest", fw.Name)
		assert.Equal(t, 2, fw.TestFiles)
	})

	t.Run("npm with test script", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{
			"package.json":    `{"scripts": {"test": "jest"}}`,
			"src/app.test.js": "test('ok', () => {})",
		})

		fw := Detect(dir)
		assert.Equal(t, "npm", fw.Name)
		assert.Equal(t, []string{"npm", "test"}, fw.Command)
	})

	t.Run("config without test files is none", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{"pyproject.toml": "[tool.pytest]\n"})
		assert.Equal(t, "none", Detect(dir).Name)
	})

	t.Run("dependency dirs are not scanned", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{
			"package.json":                 `{"scripts": {"test": "jest"}}`,
			"node_modules/lib/lib.test.js": "x",
			".venv/lib/test_pkg.py":        "x",
		})
		assert.Equal(t, "none", Detect(dir).Name)
	})

	t.Run("go wins over other markers", func(t *testing.T) {
		dir := t.TempDir()
		seed(t, dir, map[string]string{
			"go.mod":            "module example.com/x\n",
			"main_test.go":      "package x",
			"tests/test_cli.py": "def test_ok(): pass",
		})
		assert.Equal(t, "go", Detect(dir).Name)
	})
}

func TestRun(t *testing.T) {
	t.Run("passing suite", func(t *testing.T) {
		fw := Framework{Name: "go", Command: []string{"sh", "-c", "echo 'ok example.com/x 0.012s'"}}
		res := Run(context.Background(), t.TempDir(), fw)

		assert.True(t, res.Passed)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "ok example.com/x 0.012s", res.Summary)
	})

	t.Run("failing suite keeps the summary line", func(t *testing.T) {
		fw := Framework{Name: "go", Command: []string{"sh", "-c", "echo 'FAIL example.com/x 0.5s'; exit 1"}}
		res := Run(context.Background(), t.TempDir(), fw)

		assert.False(t, res.Passed)
		assert.Equal(t, 1, res.ExitCode)
		assert.Contains(t, res.Summary, "FAIL")
		assert.Contains(t, res.Output, "FAIL example.com/x")
	})

	t.Run("missing tool", func(t *testing.T) {
		fw := Framework{Name: "pytest", Command: []string{"definitely-not-installed-xyz"}}
		res := Run(context.Background(), t.TempDir(), fw)

		assert.False(t, res.Passed)
		assert.Equal(t, -1, res.ExitCode)
		assert.Contains(t, res.Summary, "could not run definitely-not-installed-xyz")
	})

	t.Run("no framework", func(t *testing.T) {
		res := Run(context.Background(), t.TempDir(), Framework{Name: "none"})
		assert.False(t, res.Passed)
		assert.Contains(t, res.Summary, "no test framework")
	})
}

func TestExtractSummary(t *testing.T) {
	pytestOut := "collecting ...\ntest_store.py::test_ok PASSED\n\n=== 3 passed, 1 failed in 0.21s ==="
	assert.Equal(t, "=== 3 passed, 1 failed in 0.21s ===", extractSummary(pytestOut, "pytest"))

	goOut := "?\tcmd\t[no test files]\nok  \texample.com/x/internal/store\t0.031s"
	assert.Contains(t, extractSummary(goOut, "go"), "internal/store")

	assert.Equal(t, "last line", extractSummary("noise\nlast line", "npm"))
	assert.Equal(t, "tests completed", extractSummary("", "npm"))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 100))

	long := "head-" + "aéb" + "-tail"
	got := tail(long, 7) // would cut inside é without the boundary walk
	assert.Equal(t, "...\nb-tail", got)
}
