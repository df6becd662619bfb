// Package reports persists bot markdown reports under the shared data root.
// Every save appends a timestamped history file and refreshes latest.md;
// downstream consumers rely on scope being recoverable from the path alone.
package reports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// TimestampLayout names history files. It is filesystem-safe and sorts
// lexicographically in chronological order; List depends on that.
const TimestampLayout = "2006-01-02-150405"

// LatestFileName is the overwritten-in-place pointer to the newest report
const LatestFileName = "latest.md"

// ErrLatestWrite wraps a failure to refresh latest.md after the timestamped
// file was already written. The history entry is the durable record; callers
// treat this as a warning, not a lost report.
var ErrLatestWrite = errors.New("failed to update latest report")

// StoredReport describes one persisted report file
type StoredReport struct {
	ProjectName string       `json:"project_name"`
	BotID       string       `json:"bot_id"`
	Scope       models.Scope `json:"scope"`
	Timestamp   time.Time    `json:"timestamp"`
	Path        string       `json:"path"`
}

// SavedPaths reports where a Save call wrote
type SavedPaths struct {
	Timestamped string
	Latest      string
}

// Store writes and lists reports under the data root
type Store struct {
	dataRoot string
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a report store rooted at dataRoot
func NewStore(dataRoot string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dataRoot: dataRoot, logger: logger, now: time.Now}
}

// Dir returns the report directory for a (project, bot, scope) tuple.
// Team and personal subtrees are parallel and never interleave.
func (s *Store) Dir(projectName, botID string, scope models.Scope) string {
	if scope == models.ScopePersonal {
		return filepath.Join(s.dataRoot, "personal", projectName, "reports", botID)
	}
	return filepath.Join(s.dataRoot, projectName, "reports", botID)
}

// LatestPath returns the latest.md path for a tuple
func (s *Store) LatestPath(projectName, botID string, scope models.Scope) string {
	return filepath.Join(s.Dir(projectName, botID, scope), LatestFileName)
}

// Save writes the timestamped history file, then refreshes latest.md.
// A history-write failure is an error; a latest-write failure after a
// successful history write is returned wrapped in ErrLatestWrite.
func (s *Store) Save(projectName, botID string, scope models.Scope, markdown string) (SavedPaths, error) {
	dir := s.Dir(projectName, botID, scope)
	if err := helpers.EnsureDir(dir); err != nil {
		return SavedPaths{}, err
	}

	stamp := s.now().Format(TimestampLayout)
	tsPath := filepath.Join(dir, stamp+".md")
	if helpers.FileExists(tsPath) {
		// Two saves in the same second; last writer wins.
		s.logger.Warn("overwriting same-second report",
			zap.String("project", projectName),
			zap.String("bot", botID),
			zap.String("path", tsPath))
	}
	if err := os.WriteFile(tsPath, []byte(markdown), 0644); err != nil {
		return SavedPaths{}, fmt.Errorf("failed to write report %s: %w", tsPath, err)
	}

	paths := SavedPaths{Timestamped: tsPath, Latest: filepath.Join(dir, LatestFileName)}
	if err := helpers.WriteFileAtomic(paths.Latest, []byte(markdown), 0644); err != nil {
		return paths, fmt.Errorf("%w: %s: %v", ErrLatestWrite, paths.Latest, err)
	}

	s.logger.Info("report saved",
		zap.String("project", projectName),
		zap.String("bot", botID),
		zap.String("scope", string(scope)),
		zap.String("path", tsPath))
	return paths, nil
}

// List returns the stored reports for a tuple, newest first. Ordering is a
// string sort over filenames, which equals chronological order for the
// timestamp layout above. latest.md is excluded.
func (s *Store) List(projectName, botID string, scope models.Scope) ([]StoredReport, error) {
	dir := s.Dir(projectName, botID, scope)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == LatestFileName || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	out := make([]StoredReport, 0, len(names))
	for _, name := range names {
		ts, err := time.ParseInLocation(TimestampLayout, strings.TrimSuffix(name, ".md"), time.Local)
		if err != nil {
			s.logger.Warn("skipping report with unparseable name",
				zap.String("dir", dir), zap.String("name", name))
			continue
		}
		out = append(out, StoredReport{
			ProjectName: projectName,
			BotID:       botID,
			Scope:       scope,
			Timestamp:   ts,
			Path:        filepath.Join(dir, name),
		})
	}
	return out, nil
}

// Read returns the raw markdown of a stored report
func (s *Store) Read(path string) (string, error) {
	return helpers.ReadFile(path)
}
