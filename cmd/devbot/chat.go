package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session with the bot team",
		Long: `Start an interactive loop. Type requests in plain language, or use
slash commands: /projects, /bots, /add, /remove, /help, /exit.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.cfg.RequireAnthropicKey(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	helpers.PrintTitle("DevBot")
	helpers.PrintInfo("Ask for reports in plain language, e.g. \"summarize commits for acme-api\".")
	helpers.PrintDim("Commands: /projects /bots /add /remove /help /exit")

	reader := bufio.NewReader(os.Stdin)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF (ctrl-d) ends the session cleanly
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := handleSlashCommand(a, reader, line); done {
				return nil
			}
			continue
		}

		res, err := a.router.ResolveUtterance(line)
		if err != nil {
			helpers.PrintWarning("%v", err)
			continue
		}

		helpers.PrintInfo("Running %s against %s (%s)...", res.BotID, res.Project.Name, res.Project.Scope)
		result, err := a.invoker.Invoke(ctx, res.BotID, res.Project, res.Params)
		if err != nil {
			helpers.PrintError("%v", err)
			continue
		}

		fmt.Println()
		fmt.Println(result.MarkdownReport)
		if result.Status.OK() {
			helpers.PrintSuccess("%s", result.Summary)
		} else {
			helpers.PrintError("%s", result.Summary)
		}
	}
}

// handleSlashCommand executes one slash command, returning true on /exit
func handleSlashCommand(a *app, reader *bufio.Reader, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		helpers.PrintInfo("Bye!")
		return true
	case "/projects":
		printProjects(a.registry.All())
	case "/bots":
		printBots()
	case "/add":
		addProjectInteractive(a, reader)
	case "/remove":
		if len(fields) < 2 {
			helpers.PrintWarning("Usage: /remove <project-name> [personal]")
			break
		}
		scope := models.ScopeTeam
		if len(fields) > 2 && fields[2] == "personal" {
			scope = models.ScopePersonal
		}
		if err := a.registry.Remove(fields[1], scope); err != nil {
			helpers.PrintError("%v", err)
		} else {
			helpers.PrintSuccess("Removed %q", fields[1])
		}
	case "/help":
		helpers.PrintInfo("/projects  list registered projects")
		helpers.PrintInfo("/bots      list the bot catalog")
		helpers.PrintInfo("/add       register a project interactively")
		helpers.PrintInfo("/remove    remove a project")
		helpers.PrintInfo("/exit      leave the session")
	default:
		helpers.PrintWarning("Unknown command %s (try /help)", fields[0])
	}
	return false
}

// addProjectInteractive walks through project registration with prompts
func addProjectInteractive(a *app, reader *bufio.Reader) {
	name := prompt(reader, "Project name")
	if name == "" {
		helpers.PrintWarning("Cancelled")
		return
	}

	p := projects.Project{Name: name}
	kind := strings.ToLower(prompt(reader, "Scope (team/personal) [team]"))
	if kind == "personal" {
		p.Scope = models.ScopePersonal
		p.Personal = &projects.PersonalDetails{
			NotesDir:  prompt(reader, "Notes directory (blank to skip)"),
			TaskFile:  prompt(reader, "Task file (blank to skip)"),
			HabitFile: prompt(reader, "Habit file (blank to skip)"),
		}
	} else {
		p.Scope = models.ScopeTeam
		p.Path = prompt(reader, "Repository path")
		p.Team = &projects.TeamDetails{
			GitLabProjectID: prompt(reader, "GitLab project ID (blank to skip)"),
			GitHubRepo:      prompt(reader, "GitHub repo owner/repo (blank to skip)"),
		}
	}
	p.Description = prompt(reader, "Description (blank to skip)")

	if err := a.registry.Add(p); err != nil {
		helpers.PrintError("%v", err)
		return
	}
	helpers.PrintSuccess("Registered %s project %q", p.Scope, p.Name)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
