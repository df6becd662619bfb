// Package tracker wraps the GitLab and GitHub REST APIs and normalises
// their issue payloads into the shared models. Raw API objects never leave
// this package.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// GitLabClient handles GitLab API interactions
type GitLabClient struct {
	baseURL   string
	token     string
	maxIssues int
	client    *http.Client
}

// NewGitLabClient creates a client from instance defaults plus optional
// per-project overrides
func NewGitLabClient(cfg *config.GitLabConfig, overrideURL, overrideToken string) *GitLabClient {
	baseURL := cfg.URL
	if overrideURL != "" {
		baseURL = overrideURL
	}
	token := cfg.Token
	if overrideToken != "" {
		token = overrideToken
	}
	return &GitLabClient{
		baseURL:   baseURL,
		token:     token,
		maxIssues: cfg.MaxIssues,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type gitlabProject struct {
	Name string `json:"name"`
}

type gitlabIssue struct {
	IID       int      `json:"iid"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	Assignees []struct {
		Username string `json:"username"`
	} `json:"assignees"`
	Author *struct {
		Username string `json:"username"`
	} `json:"author"`
	Description string  `json:"description"`
	Weight      int     `json:"weight"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	ClosedAt    *string `json:"closed_at"`
	DueDate     *string `json:"due_date"`
	WebURL      string  `json:"web_url"`
}

// FetchIssues fetches issues for a project (numeric ID or namespace/path)
// and returns a normalised IssueSet
func (c *GitLabClient) FetchIssues(ctx context.Context, projectID string, state models.IssueState) (*models.IssueSet, error) {
	if c.token == "" {
		return nil, fmt.Errorf("GITLAB_PRIVATE_TOKEN is not set (export it or configure gitlab.token)")
	}

	encoded := url.PathEscape(projectID)

	var project gitlabProject
	if err := c.get(ctx, fmt.Sprintf("%s/api/v4/projects/%s", c.baseURL, encoded), &project); err != nil {
		return nil, fmt.Errorf("project %q not found or no access: %w", projectID, err)
	}

	var all []gitlabIssue
	for page := 1; len(all) < c.maxIssues; page++ {
		endpoint := fmt.Sprintf(
			"%s/api/v4/projects/%s/issues?state=%s&order_by=updated_at&sort=desc&per_page=100&page=%d",
			c.baseURL, encoded, stateParam(state), page)

		var batch []gitlabIssue
		if err := c.get(ctx, endpoint, &batch); err != nil {
			return nil, fmt.Errorf("failed to fetch issues for %q: %w", projectID, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	if len(all) > c.maxIssues {
		all = all[:c.maxIssues]
	}

	issues := make([]models.Issue, 0, len(all))
	for _, raw := range all {
		issues = append(issues, normaliseGitLabIssue(raw))
	}

	return &models.IssueSet{
		ProjectID:   projectID,
		ProjectName: project.Name,
		FetchedAt:   time.Now().UTC(),
		Issues:      issues,
	}, nil
}

func (c *GitLabClient) get(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitLab API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func stateParam(state models.IssueState) string {
	switch state {
	case models.IssueOpen:
		return "opened"
	case models.IssueClosed:
		return "closed"
	default:
		return "all"
	}
}

func normaliseGitLabIssue(raw gitlabIssue) models.Issue {
	issue := models.Issue{
		IID:         raw.IID,
		Title:       raw.Title,
		Labels:      raw.Labels,
		Description: raw.Description,
		Weight:      raw.Weight,
		WebURL:      raw.WebURL,
		CreatedAt:   parseAPITime(raw.CreatedAt),
		UpdatedAt:   parseAPITime(raw.UpdatedAt),
	}

	if raw.State == "opened" {
		issue.State = models.IssueOpen
	} else {
		issue.State = models.IssueClosed
	}
	if raw.Author != nil {
		issue.Author = raw.Author.Username
	}
	if raw.Milestone != nil {
		issue.Milestone = raw.Milestone.Title
	}
	for _, a := range raw.Assignees {
		issue.Assignees = append(issue.Assignees, a.Username)
	}
	if raw.ClosedAt != nil {
		t := parseAPITime(*raw.ClosedAt)
		issue.ClosedAt = &t
	}
	if raw.DueDate != nil {
		// due_date is a bare date, not a full timestamp
		if t, err := time.Parse("2006-01-02", *raw.DueDate); err == nil {
			issue.DueDate = &t
		}
	}
	return issue
}

func parseAPITime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
