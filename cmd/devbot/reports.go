package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/dashboard"
	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports <project> [bot]",
		Short: "List saved reports for a project",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runReports,
	}
	cmd.Flags().Bool("personal", false, "Look in the personal scope")
	return cmd
}

func runReports(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	personal, _ := cmd.Flags().GetBool("personal")
	scope := models.ScopeTeam
	if personal {
		scope = models.ScopePersonal
	}

	project, err := a.registry.Get(args[0], scope)
	if err != nil {
		return err
	}

	botIDs := make([]string, 0)
	if len(args) == 2 {
		botIDs = append(botIDs, args[1])
	} else {
		for _, meta := range bots.ByScope(project.Scope) {
			botIDs = append(botIDs, meta.ID)
		}
	}

	total := 0
	helpers.PrintTitle("Reports for %s (%s)", project.Name, project.Scope)
	for _, botID := range botIDs {
		stored, err := a.store.List(project.Name, botID, project.Scope)
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			continue
		}
		helpers.PrintInfo("%s (%d)", botID, len(stored))
		for _, r := range stored {
			helpers.PrintDim("    %s  %s", r.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(r.Path))
		}
		total += len(stored)
	}
	if total == 0 {
		helpers.PrintWarning("No reports yet. Run a bot first: devbot run %s gitbot", project.Name)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project> <bot> [timestamp]",
		Short: "Print a saved report",
		Long: `Print the latest report of a bot for a project, or a specific
timestamped one (as listed by 'devbot reports').`,
		Args: cobra.RangeArgs(2, 3),
		RunE: runShow,
	}
	cmd.Flags().Bool("personal", false, "Look in the personal scope")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	personal, _ := cmd.Flags().GetBool("personal")
	scope := models.ScopeTeam
	if personal {
		scope = models.ScopePersonal
	}

	project, err := a.registry.Get(args[0], scope)
	if err != nil {
		return err
	}
	botID := args[1]
	if _, err := bots.Get(botID); err != nil {
		return err
	}

	path := a.store.LatestPath(project.Name, botID, project.Scope)
	if len(args) == 3 {
		path = filepath.Join(a.store.Dir(project.Name, botID, project.Scope), args[2]+".md")
	}

	content, err := a.store.Read(path)
	if err != nil {
		return fmt.Errorf("no report at %s: %w", path, err)
	}
	fmt.Println(content)
	return nil
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Regenerate the dashboard data files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			outDir, _ := cmd.Flags().GetString("out")
			if outDir == "" {
				outDir = filepath.Join(a.cfg.DataRoot, "dashboard")
			}

			gen := dashboard.New(a.registry, a.store, a.logger)
			snap := gen.Generate()
			if err := gen.Write(snap, outDir); err != nil {
				return err
			}

			helpers.PrintSuccess("Dashboard data written to %s", outDir)
			helpers.PrintInfo("Projects: %d, Reports: %d", snap.Stats.TotalProjects, snap.Stats.TotalReports)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output directory (default <data-root>/dashboard)")
	return cmd
}