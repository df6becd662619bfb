// Package dashboard generates the static JSON snapshots consumed by the
// dashboard UI. The generator is read-only over the report store and the
// registries; it never mutates report or registry state.
package dashboard

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/reports"
)

// BotEntry is one catalog row of bots.json
type BotEntry struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	Description string       `json:"description"`
	Scope       models.Scope `json:"scope"`
}

// ProjectEntry is one row of projects.json, enriched with report activity
type ProjectEntry struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Path         string       `json:"path,omitempty"`
	Description  string       `json:"description,omitempty"`
	Scope        models.Scope `json:"scope"`
	GitLabID     string       `json:"gitlab_id,omitempty"`
	GitHubRepo   string       `json:"github_repo,omitempty"`
	LastActivity *time.Time   `json:"last_activity,omitempty"`
	ReportsCount int          `json:"reports_count"`
	BotsRun      []string     `json:"bots_run,omitempty"`
}

// ReportEntry is one row of reports.json
type ReportEntry struct {
	ID          string       `json:"id"`
	Bot         string       `json:"bot"`
	ProjectID   string       `json:"project_id"`
	ProjectName string       `json:"project_name"`
	Scope       models.Scope `json:"scope"`
	Timestamp   time.Time    `json:"timestamp"`
	Status      string       `json:"status"`
	Summary     string       `json:"summary"`
	Path        string       `json:"path"`
	SizeBytes   int64        `json:"size_bytes"`
}

// Stats is the aggregate block of stats.json
type Stats struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalReports   int `json:"total_reports"`
	TotalBots      int `json:"total_bots"`
}

// Snapshot is everything one generation run produced
type Snapshot struct {
	SnapshotID string         `json:"snapshot_id"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Bots       []BotEntry     `json:"bots"`
	Projects   []ProjectEntry `json:"projects"`
	Reports    []ReportEntry  `json:"reports"`
	Stats      Stats          `json:"stats"`
}

// Generator builds dashboard snapshots from live registry and store state
type Generator struct {
	registry *projects.Registry
	store    *reports.Store
	logger   *zap.Logger
}

// New creates a generator
func New(registry *projects.Registry, store *reports.Store, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{registry: registry, store: store, logger: logger}
}

// Generate scans every project and bot, producing one consistent snapshot.
// Unreadable report entries are logged and skipped, never fatal.
func (g *Generator) Generate() Snapshot {
	snap := Snapshot{
		SnapshotID: uuid.NewString(),
		UpdatedAt:  time.Now().UTC(),
	}

	for _, meta := range bots.All() {
		snap.Bots = append(snap.Bots, BotEntry{
			ID:          meta.ID,
			Name:        meta.Name,
			Icon:        meta.Icon,
			Description: meta.Description,
			Scope:       meta.Scope,
		})
	}

	for _, project := range g.registry.All() {
		entry := ProjectEntry{
			ID:          project.Name,
			Name:        project.Name,
			Path:        project.Path,
			Description: project.Description,
			Scope:       project.Scope,
		}
		if project.Team != nil {
			entry.GitLabID = project.Team.GitLabProjectID
			entry.GitHubRepo = project.Team.GitHubRepo
		}

		projectReports := g.scanProject(project)
		entry.ReportsCount = len(projectReports)

		botsRun := make(map[string]bool)
		for _, r := range projectReports {
			botsRun[r.Bot] = true
			if entry.LastActivity == nil || r.Timestamp.After(*entry.LastActivity) {
				ts := r.Timestamp
				entry.LastActivity = &ts
			}
		}
		for id := range botsRun {
			entry.BotsRun = append(entry.BotsRun, id)
		}
		sort.Strings(entry.BotsRun)

		snap.Projects = append(snap.Projects, entry)
		snap.Reports = append(snap.Reports, projectReports...)
	}

	sort.Slice(snap.Reports, func(i, j int) bool {
		return snap.Reports[i].Timestamp.After(snap.Reports[j].Timestamp)
	})

	snap.Stats = Stats{
		TotalProjects: len(snap.Projects),
		TotalReports:  len(snap.Reports),
		TotalBots:     len(snap.Bots),
	}
	for _, p := range snap.Projects {
		if p.LastActivity != nil {
			snap.Stats.ActiveProjects++
		}
	}

	g.logger.Info("dashboard snapshot generated",
		zap.String("snapshot_id", snap.SnapshotID),
		zap.Int("projects", snap.Stats.TotalProjects),
		zap.Int("reports", snap.Stats.TotalReports))
	return snap
}

// scanProject collects the report entries for one project across all bots
// eligible for its scope
func (g *Generator) scanProject(project projects.Project) []ReportEntry {
	var out []ReportEntry
	for _, meta := range bots.ByScope(project.Scope) {
		stored, err := g.store.List(project.Name, meta.ID, project.Scope)
		if err != nil {
			g.logger.Warn("could not list reports",
				zap.String("project", project.Name),
				zap.String("bot", meta.ID),
				zap.Error(err))
			continue
		}
		for _, r := range stored {
			entry, err := g.buildEntry(project, r)
			if err != nil {
				g.logger.Warn("skipping unreadable report",
					zap.String("path", r.Path), zap.Error(err))
				continue
			}
			out = append(out, entry)
		}
	}
	return out
}

func (g *Generator) buildEntry(project projects.Project, r reports.StoredReport) (ReportEntry, error) {
	info, err := os.Stat(r.Path)
	if err != nil {
		return ReportEntry{}, err
	}

	summary, err := extractSummary(r.Path)
	if err != nil {
		return ReportEntry{}, err
	}

	return ReportEntry{
		ID:          fmt.Sprintf("%s-%s-%s", r.BotID, project.Name, r.Timestamp.Format(reports.TimestampLayout)),
		Bot:         r.BotID,
		ProjectID:   project.Name,
		ProjectName: project.Name,
		Scope:       r.Scope,
		Timestamp:   r.Timestamp,
		Status:      statusFromContent(summary),
		Summary:     summary,
		Path:        r.Path,
		SizeBytes:   info.Size(),
	}, nil
}

const summaryMaxLen = 200

// extractSummary returns the first non-heading line of the report, truncated
func extractSummary(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > summaryMaxLen {
			line = helpers.TruncateString(line, summaryMaxLen)
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "No summary available", nil
}

// statusFromContent infers a coarse status from the report text
func statusFromContent(content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(content, "❌") || strings.Contains(lower, "failed") || strings.Contains(lower, "error"):
		return "failed"
	case strings.Contains(content, "⚠️") || strings.Contains(lower, "warning") || strings.Contains(lower, "partial"):
		return "partial"
	default:
		return "success"
	}
}

// Write serialises the snapshot into the four JSON files the dashboard
// serves. outDir is created if missing.
func (g *Generator) Write(snap Snapshot, outDir string) error {
	if err := helpers.EnsureDir(outDir); err != nil {
		return err
	}

	files := map[string]interface{}{
		"bots.json": map[string]interface{}{
			"snapshot_id": snap.SnapshotID,
			"updated_at":  snap.UpdatedAt,
			"bots":        snap.Bots,
		},
		"projects.json": map[string]interface{}{
			"snapshot_id": snap.SnapshotID,
			"updated_at":  snap.UpdatedAt,
			"projects":    snap.Projects,
		},
		"reports.json": map[string]interface{}{
			"snapshot_id":   snap.SnapshotID,
			"updated_at":    snap.UpdatedAt,
			"total_reports": len(snap.Reports),
			"reports":       snap.Reports,
		},
		"stats.json": map[string]interface{}{
			"snapshot_id": snap.SnapshotID,
			"updated_at":  snap.UpdatedAt,
			"statistics":  snap.Stats,
		},
	}

	for name, payload := range files {
		if err := helpers.SaveJSON(payload, filepath.Join(outDir, name)); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	g.logger.Info("dashboard data written", zap.String("dir", outDir))
	return nil
}
