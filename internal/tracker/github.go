package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// GitHubClient handles GitHub API interactions
type GitHubClient struct {
	apiURL    string
	token     string
	maxIssues int
	client    *http.Client
}

// NewGitHubClient creates a client from instance defaults plus an optional
// per-project token
func NewGitHubClient(cfg *config.GitHubConfig, overrideToken string) *GitHubClient {
	token := cfg.Token
	if overrideToken != "" {
		token = overrideToken
	}
	return &GitHubClient{
		apiURL:    cfg.APIURL,
		token:     token,
		maxIssues: cfg.MaxIssues,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type githubIssue struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	State     string  `json:"state"`
	Body      string  `json:"body"`
	HTMLURL   string  `json:"html_url"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	ClosedAt  *string `json:"closed_at"`
	User      *struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	Milestone *struct {
		Title string  `json:"title"`
		DueOn *string `json:"due_on"`
	} `json:"milestone"`
	// Non-nil when the entry is actually a pull request; those are skipped.
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

// FetchIssues fetches issues for a repository ("owner/repo") and returns a
// normalised IssueSet. Pull requests are filtered out.
func (c *GitHubClient) FetchIssues(ctx context.Context, repo string, state models.IssueState) (*models.IssueSet, error) {
	if c.token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set (export it or configure github.token)")
	}

	ghState := "all"
	switch state {
	case models.IssueOpen:
		ghState = "open"
	case models.IssueClosed:
		ghState = "closed"
	}

	var issues []models.Issue
	for page := 1; len(issues) < c.maxIssues; page++ {
		endpoint := fmt.Sprintf(
			"%s/repos/%s/issues?state=%s&sort=updated&direction=desc&per_page=100&page=%d",
			c.apiURL, repo, ghState, page)

		var batch []githubIssue
		if err := c.get(ctx, endpoint, &batch); err != nil {
			return nil, fmt.Errorf("failed to fetch issues for %q: %w", repo, err)
		}
		if len(batch) == 0 {
			break
		}
		for _, raw := range batch {
			if raw.PullRequest != nil {
				continue
			}
			issues = append(issues, normaliseGitHubIssue(raw))
		}
	}
	if len(issues) > c.maxIssues {
		issues = issues[:c.maxIssues]
	}

	return &models.IssueSet{
		ProjectID:   repo,
		ProjectName: repo,
		FetchedAt:   time.Now().UTC(),
		Issues:      issues,
	}, nil
}

func (c *GitHubClient) get(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func normaliseGitHubIssue(raw githubIssue) models.Issue {
	issue := models.Issue{
		IID:         raw.Number,
		Title:       raw.Title,
		Description: raw.Body,
		WebURL:      raw.HTMLURL,
		CreatedAt:   parseAPITime(raw.CreatedAt),
		UpdatedAt:   parseAPITime(raw.UpdatedAt),
	}

	if raw.State == "open" {
		issue.State = models.IssueOpen
	} else {
		issue.State = models.IssueClosed
	}
	if raw.User != nil {
		issue.Author = raw.User.Login
	}
	for _, l := range raw.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	for _, a := range raw.Assignees {
		issue.Assignees = append(issue.Assignees, a.Login)
	}
	if raw.Milestone != nil {
		issue.Milestone = raw.Milestone.Title
		if raw.Milestone.DueOn != nil {
			t := parseAPITime(*raw.Milestone.DueOn)
			issue.DueDate = &t
		}
	}
	if raw.ClosedAt != nil {
		t := parseAPITime(*raw.ClosedAt)
		issue.ClosedAt = &t
	}
	return issue
}
