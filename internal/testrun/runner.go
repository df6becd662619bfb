// Package testrun detects a repository's test tooling and executes it,
// returning the pass/fail outcome as data for the analyzers. Launch and
// suite failures are folded into the result, never returned as errors.
package testrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Framework describes the detected test tooling of a repository
type Framework struct {
	Name      string // "go", "pytest", "npm" or "none"
	Command   []string
	TestFiles int
}

// RunResult is the outcome of one suite execution
type RunResult struct {
	Framework string
	ExitCode  int
	Passed    bool
	Output    string // combined output, tail-trimmed
	Summary   string
}

const (
	runTimeout     = 5 * time.Minute
	maxOutputChars = 4000
)

// directories never scanned for test files
var skippedDirs = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
}

// Detect inspects the repository for test files and tooling markers. A Go
// module wins over Python and npm markers when several are present; no test
// files at all means no framework, whatever config exists.
func Detect(repoPath string) Framework {
	var goTests, pyTests, jsTests int

	filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		switch {
		case strings.HasSuffix(name, "_test.go"):
			goTests++
		case strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py"),
			strings.HasSuffix(name, "_test.py"):
			pyTests++
		case strings.HasSuffix(name, ".test.js"), strings.HasSuffix(name, ".test.ts"),
			strings.HasSuffix(name, ".spec.js"), strings.HasSuffix(name, ".spec.ts"):
			jsTests++
		}
		return nil
	})

	switch {
	case goTests > 0 && fileExists(filepath.Join(repoPath, "go.mod")):
		return Framework{Name: "go", Command: []string{"go", "test", "./..."}, TestFiles: goTests}
	case pyTests > 0:
		return Framework{Name: "pytest", Command: []string{"pytest", "-v"}, TestFiles: pyTests}
	case jsTests > 0 && hasNpmTestScript(repoPath):
		return Framework{Name: "npm", Command: []string{"npm", "test"}, TestFiles: jsTests}
	}
	return Framework{Name: "none"}
}

// Run executes the framework's test command inside the repository. The suite
// outcome, including a refusal to launch, lands in the result.
func Run(ctx context.Context, repoPath string, fw Framework) RunResult {
	if fw.Name == "none" || len(fw.Command) == 0 {
		return RunResult{
			Framework: "none",
			ExitCode:  -1,
			Summary:   "no test framework or test files detected",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, fw.Command[0], fw.Command[1:]...)
	cmd.Dir = repoPath
	output, err := cmd.CombinedOutput()

	result := RunResult{Framework: fw.Name, Output: tail(string(output), maxOutputChars)}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.Summary = fmt.Sprintf("tests timed out after %s", runTimeout)
	case err == nil:
		result.Passed = true
		result.Summary = extractSummary(result.Output, fw.Name)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.Summary = extractSummary(result.Output, fw.Name)
		} else {
			result.ExitCode = -1
			result.Summary = fmt.Sprintf("could not run %s: %v", fw.Command[0], err)
		}
	}
	return result
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hasNpmTestScript(repoPath string) bool {
	data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return false
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	return strings.TrimSpace(pkg.Scripts["test"]) != ""
}

// extractSummary picks the one line of output that states the suite result
func extractSummary(output, framework string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")

	markers := []string{"passed", "failed", "error"}
	if framework == "go" {
		markers = []string{"ok ", "FAIL", "PASS", "no test files"}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		for _, m := range markers {
			if strings.Contains(line, m) {
				return line
			}
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "tests completed"
}

// tail keeps the last max bytes of s, starting on a rune boundary
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "...\n" + s[cut:]
}
