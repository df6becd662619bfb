package main

import (
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/router"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <project> <bot>...",
		Short: "Run one or more bots against a project",
		Long: `Run bots against a registered project and save their reports.
Example: devbot run acme-api gitbot qabot`,
		Args: cobra.MinimumNArgs(2),
		RunE: runRun,
	}
	cmd.Flags().StringP("scope", "s", "", "Project scope when the name exists in both (team, personal)")
	cmd.Flags().Int("max-commits", 0, "Maximum commits to analyze (gitbot, qabot)")
	cmd.Flags().String("since", "", "Only include activity after this date (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "Only include activity before this date (YYYY-MM-DD)")
	cmd.Flags().StringP("mode", "m", "", "pmbot mode (analyze, plan)")
	cmd.Flags().String("model", "", "Model override for this run")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.cfg.RequireAnthropicKey(); err != nil {
		return err
	}

	projectName, botIDs := args[0], args[1:]

	scopeFlag, _ := cmd.Flags().GetString("scope")
	var scopeHint models.Scope
	if scopeFlag != "" {
		scopeHint, err = models.ParseScope(scopeFlag)
		if err != nil {
			return err
		}
	}

	maxCommits, _ := cmd.Flags().GetInt("max-commits")
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	mode, _ := cmd.Flags().GetString("mode")
	model, _ := cmd.Flags().GetString("model")
	params := models.RunParams{
		MaxCommits: maxCommits,
		Since:      since,
		Until:      until,
		Mode:       mode,
		Model:      model,
	}

	// Resolve once with the first bot so the scope hint logic applies; the
	// remaining bots reuse the same project.
	res, err := a.router.ResolveExplicit(botIDs[0], projectName, scopeHint, params)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	helpers.PrintTitle("Running %d bot(s) against %s (%s)", len(botIDs), res.Project.Name, res.Project.Scope)

	outcome := a.invoker.InvokeBatch(ctx, botIDs, res.Project, params)
	printOutcome(outcome.Results, outcome.Failures, outcome.Completed, outcome.Failed)
	return nil
}

func printOutcome(results map[string]models.BotResult, failures map[string]error, completed, failed int) {
	var ids []string
	for id := range results {
		ids = append(ids, id)
	}
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err, ok := failures[id]; ok {
			helpers.PrintError("%s: %v", id, err)
			continue
		}
		result := results[id]
		switch {
		case result.Status == models.StatusSkipped:
			helpers.PrintWarning("%s: skipped - %s", id, result.Summary)
		case result.Status.OK():
			helpers.PrintSuccess("%s: %s", id, result.Summary)
		default:
			helpers.PrintError("%s: %s", id, result.Summary)
		}
		for _, e := range result.Errors {
			helpers.PrintWarning("    %s", e)
		}
	}

	helpers.PrintSeparator()
	helpers.PrintInfo("Completed: %d, Failed: %d", completed, failed)
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <request>",
		Short: "Run a bot from a natural-language request",
		Long: `Resolve a free-text request to a bot and project, then run it.
Example: devbot ask "summarize recent commits for acme-api"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if err := a.cfg.RequireAnthropicKey(); err != nil {
				return err
			}

			utterance := strings.Join(args, " ")
			res, err := a.router.ResolveUtterance(utterance)
			if err != nil {
				return printResolutionHint(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			helpers.PrintInfo("Running %s against %s (%s)...", res.BotID, res.Project.Name, res.Project.Scope)
			result, err := a.invoker.Invoke(ctx, res.BotID, res.Project, res.Params)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(result.MarkdownReport)
			if result.Status.OK() {
				helpers.PrintSuccess("%s", result.Summary)
			} else {
				helpers.PrintError("%s", result.Summary)
			}
			return nil
		},
	}
}

// printResolutionHint makes ambiguity errors actionable instead of fatal-looking
func printResolutionHint(err error) error {
	if ambig, ok := err.(*router.AmbiguityError); ok {
		helpers.PrintWarning("%v", ambig)
		return nil
	}
	return err
}
