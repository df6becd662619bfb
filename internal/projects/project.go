// Package projects manages the registered project collections. Team and
// personal projects live in two independent JSON files and never collide:
// the same name may exist in both scopes at once.
package projects

import (
	"fmt"
	"strings"

	"github.com/danieluxury88/BotsTeam/internal/models"
)

// TeamDetails holds the issue-tracker integration of a team project
type TeamDetails struct {
	GitLabProjectID string `json:"gitlab_project_id,omitempty"`
	GitLabURL       string `json:"gitlab_url,omitempty"`
	GitLabToken     string `json:"gitlab_token,omitempty"`
	GitHubRepo      string `json:"github_repo,omitempty"`
	GitHubToken     string `json:"github_token,omitempty"`
}

// HasGitLab reports whether GitLab integration is configured
func (d *TeamDetails) HasGitLab() bool {
	return d != nil && d.GitLabProjectID != ""
}

// HasGitHub reports whether GitHub integration is configured
func (d *TeamDetails) HasGitHub() bool {
	return d != nil && d.GitHubRepo != ""
}

// PersonalDetails holds the data sources of a personal project
type PersonalDetails struct {
	NotesDir  string `json:"notes_dir,omitempty"`
	TaskFile  string `json:"task_file,omitempty"`
	HabitFile string `json:"habit_file,omitempty"`
}

// Project is a registered unit of work a bot can be pointed at. Exactly one
// of Team or Personal is set, matching Scope.
type Project struct {
	Name        string
	Path        string
	Description string
	Language    string
	Scope       models.Scope
	Team        *TeamDetails
	Personal    *PersonalDetails
}

// FieldValue resolves a BotMeta requires-field name against this project.
// The virtual field "issue_tracker" resolves to whichever of the GitLab
// project id or GitHub repo is configured.
func (p *Project) FieldValue(field string) string {
	switch field {
	case "notes_dir":
		if p.Personal != nil {
			return p.Personal.NotesDir
		}
	case "task_file":
		if p.Personal != nil {
			return p.Personal.TaskFile
		}
	case "habit_file":
		if p.Personal != nil {
			return p.Personal.HabitFile
		}
	case "issue_tracker":
		if p.Team != nil {
			if p.Team.GitLabProjectID != "" {
				return p.Team.GitLabProjectID
			}
			return p.Team.GitHubRepo
		}
	}
	return ""
}

// Validate checks that the envelope and detail struct agree with the scope
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	switch p.Scope {
	case models.ScopeTeam:
		if p.Personal != nil {
			return fmt.Errorf("team project %q cannot carry personal data sources", p.Name)
		}
		if strings.TrimSpace(p.Path) == "" {
			return fmt.Errorf("team project %q requires a path", p.Name)
		}
	case models.ScopePersonal:
		if p.Team != nil {
			return fmt.Errorf("personal project %q cannot carry tracker credentials", p.Name)
		}
	default:
		return fmt.Errorf("project %q has invalid scope %q", p.Name, p.Scope)
	}
	return nil
}

// projectRecord is the flat on-disk row. The registry file format is shared
// with the dashboard and must stay stable: a JSON object keyed by project
// name, each value carrying these fields with the optional ones omitted.
type projectRecord struct {
	Name            string `json:"name"`
	Path            string `json:"path,omitempty"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	GitLabProjectID string `json:"gitlab_project_id,omitempty"`
	GitLabURL       string `json:"gitlab_url,omitempty"`
	GitLabToken     string `json:"gitlab_token,omitempty"`
	GitHubRepo      string `json:"github_repo,omitempty"`
	GitHubToken     string `json:"github_token,omitempty"`
	NotesDir        string `json:"notes_dir,omitempty"`
	TaskFile        string `json:"task_file,omitempty"`
	HabitFile       string `json:"habit_file,omitempty"`
}

func (p *Project) toRecord() projectRecord {
	rec := projectRecord{
		Name:        p.Name,
		Path:        p.Path,
		Description: p.Description,
		Language:    p.Language,
	}
	if p.Team != nil {
		rec.GitLabProjectID = p.Team.GitLabProjectID
		rec.GitLabURL = p.Team.GitLabURL
		rec.GitLabToken = p.Team.GitLabToken
		rec.GitHubRepo = p.Team.GitHubRepo
		rec.GitHubToken = p.Team.GitHubToken
	}
	if p.Personal != nil {
		rec.NotesDir = p.Personal.NotesDir
		rec.TaskFile = p.Personal.TaskFile
		rec.HabitFile = p.Personal.HabitFile
	}
	return rec
}

func recordToProject(name string, rec projectRecord, scope models.Scope) Project {
	if rec.Name == "" {
		rec.Name = name
	}
	p := Project{
		Name:        rec.Name,
		Path:        rec.Path,
		Description: rec.Description,
		Language:    rec.Language,
		Scope:       scope,
	}
	switch scope {
	case models.ScopeTeam:
		if rec.GitLabProjectID != "" || rec.GitLabURL != "" || rec.GitLabToken != "" ||
			rec.GitHubRepo != "" || rec.GitHubToken != "" {
			p.Team = &TeamDetails{
				GitLabProjectID: rec.GitLabProjectID,
				GitLabURL:       rec.GitLabURL,
				GitLabToken:     rec.GitLabToken,
				GitHubRepo:      rec.GitHubRepo,
				GitHubToken:     rec.GitHubToken,
			}
		}
	case models.ScopePersonal:
		if rec.NotesDir != "" || rec.TaskFile != "" || rec.HabitFile != "" {
			p.Personal = &PersonalDetails{
				NotesDir:  rec.NotesDir,
				TaskFile:  rec.TaskFile,
				HabitFile: rec.HabitFile,
			}
		}
	}
	return p
}
