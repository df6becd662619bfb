package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/analyzers"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/invoker"
	"github.com/danieluxury88/BotsTeam/internal/logging"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/reports"
	"github.com/danieluxury88/BotsTeam/internal/router"
	"github.com/danieluxury88/BotsTeam/internal/services"
)

var (
	configFile string
	verbose    bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "devbot",
		Short: "DevBot - AI bot team for project analysis and reporting",
		Long: `DevBot is a team of AI bots that analyze your projects and write
markdown reports: git history summaries, QA suggestions, issue backlog
analysis, and personal journal/task/habit insights.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (default ~/.devbot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newBotsCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDashboardCmd())

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

// app bundles the collaborators every command needs
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *projects.Registry
	store    *reports.Store
	router   *router.Router
	invoker  *invoker.Invoker
}

// loadApp builds the full wiring from config. Commands that only touch the
// registry still go through here so behaviour stays uniform.
func loadApp() (*app, error) {
	path := configFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(verbose)

	registry, err := projects.Load(cfg.DataRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load project registry: %w", err)
	}

	store := reports.NewStore(cfg.DataRoot, logger)

	inv := invoker.New(store, logger)
	set := analyzers.NewSet(cfg, services.NewAIService(&cfg.Anthropic), logger)
	set.RegisterAll(inv)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    store,
		router:   router.New(registry, logger),
		invoker:  inv,
	}, nil
}
