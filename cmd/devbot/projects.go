package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List registered projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			scopeFlag, _ := cmd.Flags().GetString("scope")
			var list []projects.Project
			if scopeFlag != "" {
				scope, err := models.ParseScope(scopeFlag)
				if err != nil {
					return err
				}
				list = a.registry.ByScope(scope)
			} else {
				list = a.registry.All()
			}
			printProjects(list)
			return nil
		},
	}
	cmd.Flags().StringP("scope", "s", "", "Filter by scope (team, personal)")
	return cmd
}

func printProjects(list []projects.Project) {
	if len(list) == 0 {
		helpers.PrintWarning("No projects registered. Add one with 'devbot add <name> --path <path>'")
		return
	}
	helpers.PrintTitle("Registered Projects")
	for _, p := range list {
		sources := projectSources(p)
		helpers.PrintInfo("%s (%s)", p.Name, p.Scope)
		if p.Description != "" {
			helpers.PrintDim("    %s", p.Description)
		}
		if p.Path != "" {
			helpers.PrintDim("    path: %s", p.Path)
		}
		if sources != "" {
			helpers.PrintDim("    sources: %s", sources)
		}
	}
}

func projectSources(p projects.Project) string {
	var parts []string
	if p.Team != nil {
		if p.Team.GitLabProjectID != "" {
			parts = append(parts, "gitlab:"+p.Team.GitLabProjectID)
		}
		if p.Team.GitHubRepo != "" {
			parts = append(parts, "github:"+p.Team.GitHubRepo)
		}
	}
	if p.Personal != nil {
		if p.Personal.NotesDir != "" {
			parts = append(parts, "notes:"+p.Personal.NotesDir)
		}
		if p.Personal.TaskFile != "" {
			parts = append(parts, "tasks:"+p.Personal.TaskFile)
		}
		if p.Personal.HabitFile != "" {
			parts = append(parts, "habits:"+p.Personal.HabitFile)
		}
	}
	return strings.Join(parts, ", ")
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a project",
		Long:  "Register a team project (git repo plus optional issue tracker) or a personal project (notes, tasks, habits)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdd,
	}
	cmd.Flags().Bool("personal", false, "Register as a personal project")
	cmd.Flags().StringP("path", "p", "", "Project path (repository root for team projects)")
	cmd.Flags().StringP("desc", "d", "", "Project description")
	cmd.Flags().StringP("lang", "l", "", "Primary language")
	cmd.Flags().StringP("gitlab-id", "g", "", "GitLab project ID or 'namespace/project'")
	cmd.Flags().String("gitlab-url", "", "GitLab instance URL (self-hosted only)")
	cmd.Flags().String("gitlab-token", "", "Per-project GitLab token (overrides config)")
	cmd.Flags().String("github-repo", "", "GitHub repository 'owner/repo'")
	cmd.Flags().String("github-token", "", "Per-project GitHub token (overrides config)")
	cmd.Flags().String("notes-dir", "", "Directory of markdown notes (personal)")
	cmd.Flags().String("task-file", "", "Task list file or directory (personal)")
	cmd.Flags().String("habit-file", "", "Habit log file, CSV or markdown (personal)")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	personal, _ := cmd.Flags().GetBool("personal")
	path, _ := cmd.Flags().GetString("path")
	desc, _ := cmd.Flags().GetString("desc")
	lang, _ := cmd.Flags().GetString("lang")

	p := projects.Project{
		Name:        args[0],
		Path:        path,
		Description: desc,
		Language:    lang,
	}

	if personal {
		notesDir, _ := cmd.Flags().GetString("notes-dir")
		taskFile, _ := cmd.Flags().GetString("task-file")
		habitFile, _ := cmd.Flags().GetString("habit-file")
		p.Scope = models.ScopePersonal
		p.Personal = &projects.PersonalDetails{
			NotesDir:  notesDir,
			TaskFile:  taskFile,
			HabitFile: habitFile,
		}
	} else {
		gitlabID, _ := cmd.Flags().GetString("gitlab-id")
		gitlabURL, _ := cmd.Flags().GetString("gitlab-url")
		gitlabToken, _ := cmd.Flags().GetString("gitlab-token")
		githubRepo, _ := cmd.Flags().GetString("github-repo")
		githubToken, _ := cmd.Flags().GetString("github-token")
		p.Scope = models.ScopeTeam
		p.Team = &projects.TeamDetails{
			GitLabProjectID: gitlabID,
			GitLabURL:       gitlabURL,
			GitLabToken:     gitlabToken,
			GitHubRepo:      githubRepo,
			GitHubToken:     githubToken,
		}
	}

	if err := a.registry.Add(p); err != nil {
		return err
	}
	helpers.PrintSuccess("Registered %s project %q", p.Scope, p.Name)
	return nil
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update fields of a registered project",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}
	cmd.Flags().Bool("personal", false, "Update the personal project of this name")
	cmd.Flags().StringP("path", "p", "", "Project path")
	cmd.Flags().StringP("desc", "d", "", "Project description")
	cmd.Flags().StringP("lang", "l", "", "Primary language")
	cmd.Flags().StringP("gitlab-id", "g", "", "GitLab project ID")
	cmd.Flags().String("gitlab-url", "", "GitLab instance URL")
	cmd.Flags().String("gitlab-token", "", "Per-project GitLab token")
	cmd.Flags().String("github-repo", "", "GitHub repository 'owner/repo'")
	cmd.Flags().String("github-token", "", "Per-project GitHub token")
	cmd.Flags().String("notes-dir", "", "Directory of markdown notes")
	cmd.Flags().String("task-file", "", "Task list file or directory")
	cmd.Flags().String("habit-file", "", "Habit log file")
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	personal, _ := cmd.Flags().GetBool("personal")
	scope := models.ScopeTeam
	if personal {
		scope = models.ScopePersonal
	}

	patch := projects.Patch{}
	set := func(flag string, target **string) {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			*target = &v
		}
	}
	set("path", &patch.Path)
	set("desc", &patch.Description)
	set("lang", &patch.Language)
	set("gitlab-id", &patch.GitLabProjectID)
	set("gitlab-url", &patch.GitLabURL)
	set("gitlab-token", &patch.GitLabToken)
	set("github-repo", &patch.GitHubRepo)
	set("github-token", &patch.GitHubToken)
	set("notes-dir", &patch.NotesDir)
	set("task-file", &patch.TaskFile)
	set("habit-file", &patch.HabitFile)

	updated, err := a.registry.Update(args[0], scope, patch)
	if err != nil {
		return err
	}
	helpers.PrintSuccess("Updated %s project %q", updated.Scope, updated.Name)
	return nil
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a project from the registry",
		Long:  "Remove a registry entry. Saved reports stay on disk.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			personal, _ := cmd.Flags().GetBool("personal")
			scope := models.ScopeTeam
			if personal {
				scope = models.ScopePersonal
			}
			if err := a.registry.Remove(args[0], scope); err != nil {
				return err
			}
			helpers.PrintSuccess("Removed %s project %q (reports kept on disk)", scope, args[0])
			return nil
		},
	}
	cmd.Flags().Bool("personal", false, "Remove the personal project of this name")
	return cmd
}

func newBotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bots",
		Short: "List the bot catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBots()
			return nil
		},
	}
}

func printBots() {
	helpers.PrintTitle("Available Bots")
	for _, meta := range bots.All() {
		line := fmt.Sprintf("%s %s (%s) - %s", meta.Icon, meta.ID, meta.Scope, meta.Description)
		helpers.PrintInfo("%s", line)
		if meta.RequiresField != "" {
			helpers.PrintDim("    requires: %s", meta.RequiresField)
		}
	}
}
